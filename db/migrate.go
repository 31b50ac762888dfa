package db

import (
	"log"

	"github.com/agenda-app/agenda-api/models"
)

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.UserSettings{},
		&models.Appointment{},
		&models.Participant{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	log.Println("✅ Migrations applied successfully!")
}
