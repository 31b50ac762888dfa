package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/agenda-app/agenda-api/db"
	"github.com/agenda-app/agenda-api/models"
	"github.com/agenda-app/agenda-api/utils"
)

type UpdateProfileInput struct {
	Name   *string `json:"name" validate:"omitempty,min=2"`
	Email  *string `json:"email" validate:"omitempty,email"`
	Avatar *string `json:"avatar" validate:"omitempty,url"`
}

type UpdateSettingsInput struct {
	EmailNotifications *bool   `json:"emailNotifications"`
	PushNotifications  *bool   `json:"pushNotifications"`
	Reminders          *bool   `json:"reminders"`
	WorkingHoursStart  *string `json:"workingHoursStart"`
	WorkingHoursEnd    *string `json:"workingHoursEnd"`
	Timezone           *string `json:"timezone"`
	Theme              *string `json:"theme"`
	Language           *string `json:"language"`
}

// GetProfile returns the current user with settings
func GetProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var user models.User
	if err := db.DB.Preload("Settings").First(&user, userID).Error; err != nil {
		return notFound(c, "User not found")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    user,
	})
}

// UpdateProfile applies a partial update to name/email/avatar
func UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	input := new(UpdateProfileInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Cannot parse JSON",
		})
	}

	if errs := utils.ValidateStruct(input); errs != nil {
		return validationError(c, errs)
	}

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return notFound(c, "User not found")
	}

	if input.Email != nil && *input.Email != user.Email {
		var existing models.User
		if db.DB.Where("email = ? AND id <> ?", *input.Email, userID).First(&existing).RowsAffected > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "User already exists with this email",
			})
		}
		user.Email = *input.Email
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}

	if err := db.DB.Save(&user).Error; err != nil {
		log.Printf("Error updating profile: %v", err)
		return serverError(c)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    user,
	})
}

// UpdateProfilePicture uploads a new avatar image and stores its URL
func UpdateProfilePicture(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return fieldError(c, "avatar", "is required")
	}

	url, err := utils.UploadAvatar(fileHeader, userID)
	if err != nil {
		log.Printf("Error uploading avatar: %v", err)
		return serverError(c)
	}

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return notFound(c, "User not found")
	}
	user.Avatar = url
	if err := db.DB.Save(&user).Error; err != nil {
		log.Printf("Error saving avatar: %v", err)
		return serverError(c)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    user,
	})
}

// GetSettings returns the user's settings, creating the default row if it
// does not exist yet.
func GetSettings(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var settings models.UserSettings
	err := db.DB.Where("user_id = ?", userID).First(&settings).Error
	if err != nil {
		settings = models.DefaultSettings(userID)
		if cerr := db.DB.Create(&settings).Error; cerr != nil {
			log.Printf("Error creating default settings: %v", cerr)
			return serverError(c)
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    settings,
	})
}

// UpdateSettings upserts the user's settings with the provided fields
func UpdateSettings(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	input := new(UpdateSettingsInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Cannot parse JSON",
		})
	}

	var settings models.UserSettings
	if err := db.DB.Where("user_id = ?", userID).First(&settings).Error; err != nil {
		settings = models.DefaultSettings(userID)
	}

	if input.EmailNotifications != nil {
		settings.EmailNotifications = *input.EmailNotifications
	}
	if input.PushNotifications != nil {
		settings.PushNotifications = *input.PushNotifications
	}
	if input.Reminders != nil {
		settings.Reminders = *input.Reminders
	}
	if input.WorkingHoursStart != nil {
		settings.WorkingHoursStart = *input.WorkingHoursStart
	}
	if input.WorkingHoursEnd != nil {
		settings.WorkingHoursEnd = *input.WorkingHoursEnd
	}
	if input.Timezone != nil {
		settings.Timezone = *input.Timezone
	}
	if input.Theme != nil {
		settings.Theme = *input.Theme
	}
	if input.Language != nil {
		settings.Language = *input.Language
	}

	if err := db.DB.Save(&settings).Error; err != nil {
		log.Printf("Error updating settings: %v", err)
		return serverError(c)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    settings,
	})
}

// DeleteAccount removes the user and everything they own
func DeleteAccount(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if derr := tx.Where("appointment_id IN (?)",
			tx.Model(&models.Appointment{}).Select("id").Where("user_id = ?", userID),
		).Delete(&models.Participant{}).Error; derr != nil {
			return derr
		}
		if derr := tx.Where("user_id = ?", userID).Delete(&models.Appointment{}).Error; derr != nil {
			return derr
		}
		if derr := tx.Where("user_id = ?", userID).Delete(&models.UserSettings{}).Error; derr != nil {
			return derr
		}
		return tx.Delete(&models.User{}, userID).Error
	})
	if err != nil {
		log.Printf("Error deleting account: %v", err)
		return serverError(c)
	}

	utils.InvalidateAnalytics(userID)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Account deleted successfully",
	})
}
