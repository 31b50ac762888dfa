package models

import (
	"time"

	"gorm.io/gorm"
)

type AppointmentType string

const (
	TypeMeeting  AppointmentType = "MEETING"
	TypeTask     AppointmentType = "TASK"
	TypeReminder AppointmentType = "REMINDER"
	TypePersonal AppointmentType = "PERSONAL"
)

type AppointmentPriority string

const (
	PriorityLow    AppointmentPriority = "LOW"
	PriorityMedium AppointmentPriority = "MEDIUM"
	PriorityHigh   AppointmentPriority = "HIGH"
)

type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "SCHEDULED"
	StatusInProgress AppointmentStatus = "IN_PROGRESS"
	StatusCompleted  AppointmentStatus = "COMPLETED"
	StatusCancelled  AppointmentStatus = "CANCELLED"
)

type Appointment struct {
	ID           uint                `json:"id" gorm:"primaryKey"`
	Title        string              `json:"title"`
	Description  string              `json:"description,omitempty"`
	StartTime    time.Time           `json:"startTime" gorm:"index"`
	EndTime      time.Time           `json:"endTime"`
	Location     string              `json:"location,omitempty"`
	Type         AppointmentType     `json:"type"`
	Priority     AppointmentPriority `json:"priority"`
	Status       AppointmentStatus   `json:"status"`
	IsRecurring  bool                `json:"isRecurring"`
	AISuggested  bool                `json:"aiSuggested"`
	UserID       uint                `json:"userId" gorm:"index"`
	Participants []Participant       `json:"participants,omitempty" gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// Participant is an attendee attached to an appointment. Participants are
// plain contact entries, not Users.
type Participant struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	AppointmentID uint   `json:"appointmentId" gorm:"index"`
	Email         string `json:"email"`
	Name          string `json:"name"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Type == "" {
		a.Type = TypeMeeting
	}
	if a.Priority == "" {
		a.Priority = PriorityMedium
	}
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	return nil
}
