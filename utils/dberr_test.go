package utils

import (
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/agenda-app/agenda-api/models"
)

func TestIsDuplicateKeyErrorOnInsert(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	first := models.User{Name: "Ana", Email: "ana@example.com", Password: "x"}
	if err := gdb.Create(&first).Error; err != nil {
		t.Fatalf("create first user: %v", err)
	}

	second := models.User{Name: "Ana Again", Email: "ana@example.com", Password: "x"}
	err = gdb.Create(&second).Error
	if err == nil {
		t.Fatal("expected unique violation on second insert")
	}
	if !IsDuplicateKeyError(err) {
		t.Errorf("unique violation not recognized: %v", err)
	}
}

func TestIsDuplicateKeyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm sentinel", gorm.ErrDuplicatedKey, true},
		{"postgres wording", errors.New(`ERROR: duplicate key value violates unique constraint "uni_users_email" (SQLSTATE 23505)`), true},
		{"sqlite wording", errors.New("UNIQUE constraint failed: users.email"), true},
		{"unrelated", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDuplicateKeyError(tt.err); got != tt.want {
				t.Errorf("IsDuplicateKeyError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
