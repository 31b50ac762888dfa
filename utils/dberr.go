package utils

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsDuplicateKeyError reports whether err is a unique-constraint violation.
// The driver dialects word it differently (postgres: "duplicate key value
// violates unique constraint", sqlite: "UNIQUE constraint failed") and not
// every driver translates to gorm.ErrDuplicatedKey, so both are checked.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint")
}
