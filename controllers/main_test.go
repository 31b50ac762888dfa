package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/agenda-app/agenda-api/db"
	"github.com/agenda-app/agenda-api/models"
	"github.com/agenda-app/agenda-api/routes"
)

// setupApp wires the fiber app against a fresh in-memory database. Tests
// mutate the global db.DB handle, so they must not run in parallel.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = gdb.AutoMigrate(
		&models.User{},
		&models.UserSettings{},
		&models.Appointment{},
		&models.Participant{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db.DB = gdb

	app := fiber.New()
	routes.SetupAuthRoutes(app)
	routes.SetupUserRoutes(app)
	routes.SetupAppointmentRoutes(app)
	routes.SetupSettingsRoutes(app)
	routes.SetupAIRoutes(app)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()

	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func registerUser(t *testing.T, app *fiber.App) (token string, userID uint) {
	t.Helper()

	email := fmt.Sprintf("test-%s@test.com", uuid.New().String()[:8])
	resp := doRequest(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name":     "Test User",
		"email":    email,
		"password": "testpass123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	token = data["token"].(string)
	user := data["user"].(map[string]interface{})
	return token, uint(user["id"].(float64))
}

func createAppointment(t *testing.T, app *fiber.App, token string, title string, start, end time.Time) map[string]interface{} {
	t.Helper()

	resp := doRequest(t, app, http.MethodPost, "/api/appointments", token, fiber.Map{
		"title":     title,
		"startTime": start.Format(time.RFC3339),
		"endTime":   end.Format(time.RFC3339),
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create appointment %q: expected 201, got %d", title, resp.StatusCode)
	}
	return decodeBody(t, resp)["data"].(map[string]interface{})
}

// baseDay is a fixed reference day far in the future so tests never collide
// with "this month" analytics windows in surprising ways.
func baseDay() time.Time {
	return time.Date(2030, time.March, 4, 0, 0, 0, 0, time.UTC)
}

func at(hour, min int) time.Time {
	d := baseDay()
	return time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, time.UTC)
}
