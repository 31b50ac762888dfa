package models

import (
	"time"
)

type User struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Name         string         `json:"name"`
	Email        string         `json:"email" gorm:"unique"`
	Password     string         `json:"-"`
	Avatar       string         `json:"avatar,omitempty"`
	Appointments []Appointment  `json:"appointments,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Settings     *UserSettings  `json:"settings,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}
