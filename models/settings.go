package models

import (
	"time"
)

// UserSettings is the per-user preference record, one row per user. A default
// row is created at registration and lazily upserted if it is ever missing.
type UserSettings struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	UserID             uint      `json:"userId" gorm:"uniqueIndex"`
	EmailNotifications bool      `json:"emailNotifications" gorm:"default:true"`
	PushNotifications  bool      `json:"pushNotifications" gorm:"default:true"`
	Reminders          bool      `json:"reminders" gorm:"default:true"`
	WorkingHoursStart  string    `json:"workingHoursStart" gorm:"default:09:00"`
	WorkingHoursEnd    string    `json:"workingHoursEnd" gorm:"default:18:00"`
	Timezone           string    `json:"timezone" gorm:"default:America/Sao_Paulo"`
	Theme              string    `json:"theme" gorm:"default:light"`
	Language           string    `json:"language" gorm:"default:pt-BR"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func DefaultSettings(userID uint) UserSettings {
	return UserSettings{
		UserID:             userID,
		EmailNotifications: true,
		PushNotifications:  true,
		Reminders:          true,
		WorkingHoursStart:  "09:00",
		WorkingHoursEnd:    "18:00",
		Timezone:           "America/Sao_Paulo",
		Theme:              "light",
		Language:           "pt-BR",
	}
}
