package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/agenda-app/agenda-api/db"
	"github.com/agenda-app/agenda-api/models"
	"github.com/agenda-app/agenda-api/utils"
	"github.com/agenda-app/agenda-api/ws"
)

var errConflict = errors.New("appointment conflict")

type ParticipantInput struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required"`
}

type CreateAppointmentInput struct {
	Title        string             `json:"title" validate:"required"`
	Description  string             `json:"description"`
	StartTime    string             `json:"startTime" validate:"required"`
	EndTime      string             `json:"endTime" validate:"required"`
	Location     string             `json:"location"`
	Type         string             `json:"type" validate:"omitempty,oneof=MEETING TASK REMINDER PERSONAL"`
	Priority     string             `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	Status       string             `json:"status" validate:"omitempty,oneof=SCHEDULED IN_PROGRESS COMPLETED CANCELLED"`
	IsRecurring  bool               `json:"isRecurring"`
	AISuggested  bool               `json:"aiSuggested"`
	Participants []ParticipantInput `json:"participants" validate:"omitempty,dive"`
}

type UpdateAppointmentInput struct {
	Title        *string             `json:"title" validate:"omitempty,min=1"`
	Description  *string             `json:"description"`
	StartTime    *string             `json:"startTime"`
	EndTime      *string             `json:"endTime"`
	Location     *string             `json:"location"`
	Type         *string             `json:"type" validate:"omitempty,oneof=MEETING TASK REMINDER PERSONAL"`
	Priority     *string             `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	Status       *string             `json:"status" validate:"omitempty,oneof=SCHEDULED IN_PROGRESS COMPLETED CANCELLED"`
	IsRecurring  *bool               `json:"isRecurring"`
	AISuggested  *bool               `json:"aiSuggested"`
	Participants *[]ParticipantInput `json:"participants" validate:"omitempty,dive"`
}

// parseTimestamp accepts RFC3339 instants and bare dates.
func parseTimestamp(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

func validationError(c *fiber.Ctx, errs []utils.FieldError) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Validation error",
		"errors":  errs,
	})
}

func fieldError(c *fiber.Ctx, field, message string) error {
	return validationError(c, []utils.FieldError{{Field: field, Message: message}})
}

// GetAppointments lists the authenticated user's appointments with optional
// date/status/type filters, ordered by start time, paginated.
func GetAppointments(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 10)
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	type condition struct {
		expr string
		args []interface{}
	}
	conditions := []condition{{"user_id = ?", []interface{}{userID}}}

	// Exact date and explicit range are mutually exclusive; date wins.
	if date := c.Query("date"); date != "" {
		day, err := parseTimestamp(date)
		if err != nil {
			return fieldError(c, "date", "is invalid")
		}
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		conditions = append(conditions, condition{
			"start_time >= ? AND start_time < ?",
			[]interface{}{dayStart, dayStart.AddDate(0, 0, 1)},
		})
	} else if startDate, endDate := c.Query("startDate"), c.Query("endDate"); startDate != "" && endDate != "" {
		from, err := parseTimestamp(startDate)
		if err != nil {
			return fieldError(c, "startDate", "is invalid")
		}
		to, err := parseTimestamp(endDate)
		if err != nil {
			return fieldError(c, "endDate", "is invalid")
		}
		conditions = append(conditions, condition{
			"start_time >= ? AND start_time <= ?",
			[]interface{}{from, to},
		})
	}

	if status := c.Query("status"); status != "" {
		if !validStatus(status) {
			return fieldError(c, "status", "must be one of: SCHEDULED IN_PROGRESS COMPLETED CANCELLED")
		}
		conditions = append(conditions, condition{"status = ?", []interface{}{status}})
	}
	if apptType := c.Query("type"); apptType != "" {
		if !validType(apptType) {
			return fieldError(c, "type", "must be one of: MEETING TASK REMINDER PERSONAL")
		}
		conditions = append(conditions, condition{"type = ?", []interface{}{apptType}})
	}

	// Count and Find run on separate query chains; reusing one gorm chain
	// across finishers leaks statement state.
	filtered := func() *gorm.DB {
		q := db.DB.Model(&models.Appointment{})
		for _, cond := range conditions {
			q = q.Where(cond.expr, cond.args...)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		log.Printf("Error counting appointments: %v", err)
		return serverError(c)
	}

	var appointments []models.Appointment
	err := filtered().Preload("Participants").
		Order("start_time asc").
		Limit(limit).
		Offset(offset).
		Find(&appointments).Error
	if err != nil {
		log.Printf("Error fetching appointments: %v", err)
		return serverError(c)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    appointments,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

// GetAppointment returns a single owned appointment or 404.
func GetAppointment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var appointment models.Appointment
	err := db.DB.Preload("Participants").
		Where("id = ? AND user_id = ?", c.Params("id"), userID).
		First(&appointment).Error
	if err != nil {
		return notFound(c, "Appointment not found")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    appointment,
	})
}

// CreateAppointment validates the payload, then runs the conflict check and
// the insert inside one transaction so concurrent requests cannot both pass
// the check before either commits.
func CreateAppointment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	input := new(CreateAppointmentInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Cannot parse JSON",
		})
	}

	if errs := utils.ValidateStruct(input); errs != nil {
		return validationError(c, errs)
	}

	start, err := parseTimestamp(input.StartTime)
	if err != nil {
		return fieldError(c, "startTime", "Invalid start time format")
	}
	end, err := parseTimestamp(input.EndTime)
	if err != nil {
		return fieldError(c, "endTime", "Invalid end time format")
	}
	if end.Before(start) {
		return fieldError(c, "endTime", "must not be before startTime")
	}

	appointment := models.Appointment{
		Title:       input.Title,
		Description: input.Description,
		StartTime:   start,
		EndTime:     end,
		Location:    input.Location,
		Type:        models.AppointmentType(input.Type),
		Priority:    models.AppointmentPriority(input.Priority),
		Status:      models.AppointmentStatus(input.Status),
		IsRecurring: input.IsRecurring,
		AISuggested: input.AISuggested,
		UserID:      userID,
	}
	for _, p := range input.Participants {
		appointment.Participants = append(appointment.Participants, models.Participant{
			Email: p.Email,
			Name:  p.Name,
		})
	}

	var conflicts []models.Appointment
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var cerr error
		conflicts, cerr = utils.FindConflicts(tx, userID, start, end, 0)
		if cerr != nil {
			return cerr
		}
		if len(conflicts) > 0 {
			return errConflict
		}
		return tx.Create(&appointment).Error
	})
	if errors.Is(err, errConflict) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success":   false,
			"message":   "Appointment conflicts with existing appointments",
			"conflicts": conflicts,
		})
	}
	if err != nil {
		log.Printf("Error creating appointment: %v", err)
		return serverError(c)
	}

	utils.InvalidateAnalytics(userID)
	ws.Broadcast(userID, "appointment-updated", fiber.Map{
		"action":      "created",
		"appointment": appointment,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    appointment,
	})
}

// UpdateAppointment applies a partial update to an owned appointment. When
// the time window moves, the conflict check runs again with the record itself
// excluded.
func UpdateAppointment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	input := new(UpdateAppointmentInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Cannot parse JSON",
		})
	}

	if errs := utils.ValidateStruct(input); errs != nil {
		return validationError(c, errs)
	}

	var appointment models.Appointment
	err := db.DB.Where("id = ? AND user_id = ?", c.Params("id"), userID).
		First(&appointment).Error
	if err != nil {
		return notFound(c, "Appointment not found")
	}

	windowChanged := false
	if input.StartTime != nil {
		start, perr := parseTimestamp(*input.StartTime)
		if perr != nil {
			return fieldError(c, "startTime", "Invalid start time format")
		}
		appointment.StartTime = start
		windowChanged = true
	}
	if input.EndTime != nil {
		end, perr := parseTimestamp(*input.EndTime)
		if perr != nil {
			return fieldError(c, "endTime", "Invalid end time format")
		}
		appointment.EndTime = end
		windowChanged = true
	}
	if windowChanged && appointment.EndTime.Before(appointment.StartTime) {
		return fieldError(c, "endTime", "must not be before startTime")
	}

	if input.Title != nil {
		appointment.Title = *input.Title
	}
	if input.Description != nil {
		appointment.Description = *input.Description
	}
	if input.Location != nil {
		appointment.Location = *input.Location
	}
	if input.Type != nil {
		appointment.Type = models.AppointmentType(*input.Type)
	}
	if input.Priority != nil {
		appointment.Priority = models.AppointmentPriority(*input.Priority)
	}
	if input.Status != nil {
		appointment.Status = models.AppointmentStatus(*input.Status)
	}
	if input.IsRecurring != nil {
		appointment.IsRecurring = *input.IsRecurring
	}
	if input.AISuggested != nil {
		appointment.AISuggested = *input.AISuggested
	}

	var conflicts []models.Appointment
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if windowChanged && appointment.Status != models.StatusCancelled {
			var cerr error
			conflicts, cerr = utils.FindConflicts(tx, userID, appointment.StartTime, appointment.EndTime, appointment.ID)
			if cerr != nil {
				return cerr
			}
			if len(conflicts) > 0 {
				return errConflict
			}
		}
		if input.Participants != nil {
			if derr := tx.Where("appointment_id = ?", appointment.ID).Delete(&models.Participant{}).Error; derr != nil {
				return derr
			}
			for _, p := range *input.Participants {
				participant := models.Participant{
					AppointmentID: appointment.ID,
					Email:         p.Email,
					Name:          p.Name,
				}
				if cerr := tx.Create(&participant).Error; cerr != nil {
					return cerr
				}
			}
		}
		return tx.Save(&appointment).Error
	})
	if errors.Is(err, errConflict) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success":   false,
			"message":   "Appointment conflicts with existing appointments",
			"conflicts": conflicts,
		})
	}
	if err != nil {
		log.Printf("Error updating appointment: %v", err)
		return serverError(c)
	}

	if err := db.DB.Preload("Participants").First(&appointment, appointment.ID).Error; err != nil {
		log.Printf("Error reloading appointment %d after update: %v", appointment.ID, err)
		return serverError(c)
	}

	utils.InvalidateAnalytics(userID)
	ws.Broadcast(userID, "appointment-updated", fiber.Map{
		"action":      "updated",
		"appointment": appointment,
	})

	return c.JSON(fiber.Map{
		"success": true,
		"data":    appointment,
	})
}

// DeleteAppointment removes an owned appointment permanently. Not-owned and
// nonexistent look identical to the caller.
func DeleteAppointment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var appointment models.Appointment
	err := db.DB.Where("id = ? AND user_id = ?", c.Params("id"), userID).
		First(&appointment).Error
	if err != nil {
		return notFound(c, "Appointment not found")
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if derr := tx.Where("appointment_id = ?", appointment.ID).Delete(&models.Participant{}).Error; derr != nil {
			return derr
		}
		return tx.Delete(&appointment).Error
	})
	if err != nil {
		log.Printf("Error deleting appointment: %v", err)
		return serverError(c)
	}

	utils.InvalidateAnalytics(userID)
	ws.Broadcast(userID, "appointment-updated", fiber.Map{
		"action": "deleted",
		"id":     appointment.ID,
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Appointment deleted successfully",
	})
}

type groupCount struct {
	Key   string `json:"key" gorm:"column:grp"`
	Count int64  `json:"count"`
}

// GetAnalytics aggregates the user's appointment counts. The serialized
// response is cached in Redis for a minute and invalidated on writes.
func GetAnalytics(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if cached := utils.CachedAnalytics(userID); cached != "" {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(cached)
	}

	base := func() *gorm.DB {
		return db.DB.Model(&models.Appointment{}).Where("user_id = ?", userID)
	}

	var total, completed, thisMonth int64
	if err := base().Count(&total).Error; err != nil {
		log.Printf("Error counting appointments: %v", err)
		return serverError(c)
	}
	base().Where("status = ?", models.StatusCompleted).Count(&completed)

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)
	base().Where("start_time >= ? AND start_time < ?", monthStart, monthEnd).Count(&thisMonth)

	var byType, byStatus []groupCount
	base().Select("type as grp, count(*) as count").Group("type").Scan(&byType)
	base().Select("status as grp, count(*) as count").Group("status").Scan(&byStatus)

	completionRate := 0.0
	if total > 0 {
		completionRate = math.Round(float64(completed)/float64(total)*1000) / 10
	}

	body := fiber.Map{
		"success": true,
		"data": fiber.Map{
			"totalAppointments":     total,
			"completedAppointments": completed,
			"thisMonthAppointments": thisMonth,
			"completionRate":        completionRate,
			"appointmentsByType":    statsEntries(byType, "type"),
			"appointmentsByStatus":  statsEntries(byStatus, "status"),
		},
	}

	if payload, err := json.Marshal(body); err == nil {
		utils.StoreAnalytics(userID, payload)
	}

	return c.JSON(body)
}

func statsEntries(rows []groupCount, key string) []fiber.Map {
	out := make([]fiber.Map, 0, len(rows))
	for _, r := range rows {
		out = append(out, fiber.Map{key: r.Key, "count": r.Count})
	}
	return out
}

func validStatus(s string) bool {
	switch models.AppointmentStatus(s) {
	case models.StatusScheduled, models.StatusInProgress, models.StatusCompleted, models.StatusCancelled:
		return true
	}
	return false
}

func validType(s string) bool {
	switch models.AppointmentType(s) {
	case models.TypeMeeting, models.TypeTask, models.TypeReminder, models.TypePersonal:
		return true
	}
	return false
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func serverError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "Internal server error",
	})
}
