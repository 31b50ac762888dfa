package cron

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/agenda-app/agenda-api/db"
	"github.com/agenda-app/agenda-api/models"
	"github.com/agenda-app/agenda-api/utils"
)

// StartCronJobs initializes and starts the cron scheduler for appointment reminders
func StartCronJobs() {
	c := cron.New()
	// Run every minute to check for appointments in the next hour
	_, err := c.AddFunc("* * * * *", sendAppointmentReminders)
	if err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}
	c.Start()
	log.Println("Cron job scheduler started for appointment reminders")
}

// sendAppointmentReminders mails the owner of every scheduled appointment
// starting in roughly an hour, once per appointment.
func sendAppointmentReminders() {
	now := time.Now()
	startWindow := now.Add(55 * time.Minute)
	endWindow := now.Add(65 * time.Minute)

	var appointments []models.Appointment
	err := db.DB.
		Where("status = ? AND start_time BETWEEN ? AND ?", models.StatusScheduled, startWindow, endWindow).
		Find(&appointments).Error
	if err != nil {
		log.Printf("Error fetching appointments for reminders: %v", err)
		return
	}

	for _, appointment := range appointments {
		var settings models.UserSettings
		if err := db.DB.Where("user_id = ?", appointment.UserID).First(&settings).Error; err != nil {
			continue
		}
		if !settings.Reminders || !settings.EmailNotifications {
			continue
		}
		if !utils.MarkReminderSent(appointment.ID) {
			continue
		}

		var owner models.User
		if err := db.DB.First(&owner, appointment.UserID).Error; err != nil {
			continue
		}

		if err := sendReminderEmail(&owner, &appointment); err != nil {
			log.Printf("Failed to send reminder for appointment %d: %v", appointment.ID, err)
			continue
		}
		log.Printf("Sent reminder for appointment %d to %s", appointment.ID, owner.Email)
	}
}

// sendReminderEmail constructs and sends the reminder email
func sendReminderEmail(owner *models.User, appointment *models.Appointment) error {
	subject := fmt.Sprintf("Reminder: Upcoming Appointment - %s", appointment.Title)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder for your upcoming appointment scheduled in one hour.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Title:</strong> %s</li>
			<li><strong>Start Time:</strong> %s</li>
			<li><strong>End Time:</strong> %s</li>
			<li><strong>Location:</strong> %s</li>
		</ul>
		<p>If you need to reschedule or cancel, open your agenda as soon as possible.</p>
		<p>Best regards,</p>
		<p>Your Agenda Team</p>
	`, owner.Name, appointment.Title,
		appointment.StartTime.Format("2006-01-02 15:04:05"),
		appointment.EndTime.Format("2006-01-02 15:04:05"),
		appointment.Location)

	return utils.SendEmail(owner.Email, subject, body)
}
