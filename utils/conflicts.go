package utils

import (
	"time"

	"github.com/agenda-app/agenda-api/models"
	"gorm.io/gorm"
)

// FindConflicts returns the user's non-cancelled appointments whose interval
// overlaps [start, end). Intervals are half-open, so an appointment ending
// exactly when the candidate starts does not conflict.
//
// Callers creating or moving an appointment must run this inside the same
// transaction as the write, otherwise two concurrent requests can both pass
// the check before either commits.
func FindConflicts(tx *gorm.DB, userID uint, start, end time.Time, excludeID uint) ([]models.Appointment, error) {
	q := tx.Model(&models.Appointment{}).
		Where("user_id = ?", userID).
		Where("status <> ?", models.StatusCancelled).
		Where("start_time < ? AND end_time > ?", end, start)

	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var conflicts []models.Appointment
	if err := q.Order("start_time asc").Find(&conflicts).Error; err != nil {
		return nil, err
	}
	return conflicts, nil
}
