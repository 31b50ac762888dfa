package controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func TestCreateAppointment(t *testing.T) {
	app := setupApp(t)
	token, userID := registerUser(t, app)

	resp := doRequest(t, app, http.MethodPost, "/api/appointments", token, fiber.Map{
		"title":     "Planning meeting",
		"startTime": at(10, 0).Format(time.RFC3339),
		"endTime":   at(11, 0).Format(time.RFC3339),
		"location":  "Room A",
		"priority":  "HIGH",
		"participants": []fiber.Map{
			{"email": "ana@test.com", "name": "Ana"},
		},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	data := decodeBody(t, resp)["data"].(map[string]interface{})
	if data["type"] != "MEETING" {
		t.Errorf("expected default type MEETING, got %v", data["type"])
	}
	if data["status"] != "SCHEDULED" {
		t.Errorf("expected default status SCHEDULED, got %v", data["status"])
	}
	if data["userId"].(float64) != float64(userID) {
		t.Errorf("appointment not scoped to creator")
	}

	// Fetch by id returns an equivalent record with participants.
	id := int(data["id"].(float64))
	resp = doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/appointments/%d", id), token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("fetch by id: expected 200, got %d", resp.StatusCode)
	}
	fetched := decodeBody(t, resp)["data"].(map[string]interface{})
	if fetched["title"] != "Planning meeting" {
		t.Errorf("fetched wrong record: %v", fetched["title"])
	}
	participants := fetched["participants"].([]interface{})
	if len(participants) != 1 {
		t.Fatalf("expected 1 participant, got %d", len(participants))
	}
}

func TestCreateAppointmentValidation(t *testing.T) {
	app := setupApp(t)
	token, _ := registerUser(t, app)

	tests := []struct {
		name string
		body fiber.Map
	}{
		{"missing title", fiber.Map{
			"startTime": at(10, 0).Format(time.RFC3339),
			"endTime":   at(11, 0).Format(time.RFC3339),
		}},
		{"bad start time", fiber.Map{
			"title": "X", "startTime": "yesterday", "endTime": at(11, 0).Format(time.RFC3339),
		}},
		{"end before start", fiber.Map{
			"title":     "X",
			"startTime": at(11, 0).Format(time.RFC3339),
			"endTime":   at(10, 0).Format(time.RFC3339),
		}},
		{"bad enum", fiber.Map{
			"title":     "X",
			"startTime": at(10, 0).Format(time.RFC3339),
			"endTime":   at(11, 0).Format(time.RFC3339),
			"type":      "PARTY",
		}},
		{"bad participant email", fiber.Map{
			"title":        "X",
			"startTime":    at(10, 0).Format(time.RFC3339),
			"endTime":      at(11, 0).Format(time.RFC3339),
			"participants": []fiber.Map{{"email": "nope", "name": "N"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, app, http.MethodPost, "/api/appointments", token, tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestConflictDetection(t *testing.T) {
	app := setupApp(t)
	token, _ := registerUser(t, app)

	created := createAppointment(t, app, token, "A", at(10, 0), at(11, 0))
	createdID := created["id"].(float64)

	tests := []struct {
		name       string
		start, end time.Time
		wantStatus int
	}{
		{"overlapping second half", at(10, 30), at(11, 30), http.StatusConflict},
		{"candidate strictly contains existing", at(9, 0), at(12, 0), http.StatusConflict},
		{"candidate inside existing", at(10, 15), at(10, 45), http.StatusConflict},
		{"boundary touch after", at(11, 0), at(12, 0), http.StatusCreated},
		{"boundary touch before", at(9, 0), at(10, 0), http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, app, http.MethodPost, "/api/appointments", token, fiber.Map{
				"title":     "B " + tt.name,
				"startTime": tt.start.Format(time.RFC3339),
				"endTime":   tt.end.Format(time.RFC3339),
			})
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, resp.StatusCode)
			}
			if tt.wantStatus == http.StatusConflict {
				body := decodeBody(t, resp)
				conflicts := body["conflicts"].([]interface{})
				found := false
				for _, c := range conflicts {
					if c.(map[string]interface{})["id"].(float64) == createdID {
						found = true
					}
				}
				if !found {
					t.Error("conflicting appointment A not in conflicts list")
				}
			}
		})
	}
}

func TestConflictPersistsNothing(t *testing.T) {
	app := setupApp(t)
	token, _ := registerUser(t, app)

	createAppointment(t, app, token, "A", at(10, 0), at(11, 0))

	resp := doRequest(t, app, http.MethodPost, "/api/appointments", token, fiber.Map{
		"title":     "B",
		"startTime": at(10, 30).Format(time.RFC3339),
		"endTime":   at(11, 30).Format(time.RFC3339),
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}

	resp = doRequest(t, app, http.MethodGet, "/api/appointments", token, nil)
	body := decodeBody(t, resp)
	pagination := body["pagination"].(map[string]interface{})
	if pagination["total"].(float64) != 1 {
		t.Errorf("conflicting create persisted something: total=%v", pagination["total"])
	}
}

func TestCancelledAppointmentsDoNotConflict(t *testing.T) {
	app := setupApp(t)
	token, _ := registerUser(t, app)

	resp := doRequest(t, app, http.MethodPost, "/api/appointments", token, fiber.Map{
		"title":     "Cancelled",
		"startTime": at(10, 0).Format(time.RFC3339),
		"endTime":   at(11, 0).Format(time.RFC3339),
		"status":    "CANCELLED",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	resp = doRequest(t, app, http.MethodPost, "/api/appointments", token, fiber.Map{
		"title":     "Over the cancelled slot",
		"startTime": at(10, 0).Format(time.RFC3339),
		"endTime":   at(11, 0).Format(time.RFC3339),
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 over cancelled slot, got %d", resp.StatusCode)
	}
}

func TestConflictsAreScopedPerUser(t *testing.T) {
	app := setupApp(t)
	tokenA, _ := registerUser(t, app)
	tokenB, _ := registerUser(t, app)

	createAppointment(t, app, tokenA, "A's meeting", at(10, 0), at(11, 0))

	// Same slot for a different user is fine.
	resp := doRequest(t, app, http.MethodPost, "/api/appointments", tokenB, fiber.Map{
		"title":     "B's meeting",
		"startTime": at(10, 0).Format(time.RFC3339),
		"endTime":   at(11, 0).Format(time.RFC3339),
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for other user, got %d", resp.StatusCode)
	}

	// And B cannot see A's appointments.
	resp = doRequest(t, app, http.MethodGet, "/api/appointments", tokenB, nil)
	body := decodeBody(t, resp)
	if total := body["pagination"].(map[string]interface{})["total"].(float64); total != 1 {
		t.Errorf("cross-user visibility: total=%v", total)
	}
}

func TestUpdateAppointment(t *testing.T) {
	app := setupApp(t)
	token, _ := registerUser(t, app)

	created := createAppointment(t, app, token, "Original", at(10, 0), at(11, 0))
	id := int(created["id"].(float64))

	resp := doRequest(t, app, http.MethodPut, fmt.Sprintf("/api/appointments/%d", id), token, fiber.Map{
		"title":    "Renamed",
		"priority": "HIGH",
		"participants": []fiber.Map{
			{"email": "guest@example.com", "name": "Guest"},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	data := decodeBody(t, resp)["data"].(map[string]interface{})
	if data["title"] != "Renamed" {
		t.Errorf("title not updated: %v", data["title"])
	}
	if data["priority"] != "HIGH" {
		t.Errorf("priority not updated: %v", data["priority"])
	}
	// Untouched fields survive a partial update.
	if data["status"] != "SCHEDULED" {
		t.Errorf("status changed unexpectedly: %v", data["status"])
	}
	// The response carries the reloaded record, participants included.
	participants, ok := data["participants"].([]interface{})
	if !ok || len(participants) != 1 {
		t.Fatalf("expected 1 participant in response, got %v", data["participants"])
	}
	if p := participants[0].(map[string]interface{}); p["email"] != "guest@example.com" {
		t.Errorf("participant not reloaded: %v", p)
	}
}

func TestUpdateRechecksConflicts(t *testing.T) {
	app := setupApp(t)
	token, _ := registerUser(t, app)

	createAppointment(t, app, token, "Fixed", at(10, 0), at(11, 0))
	movable := createAppointment(t, app, token, "Movable", at(14, 0), at(15, 0))
	id := int(movable["id"].(float64))

	// Moving onto the fixed appointment is rejected.
	resp := doRequest(t, app, http.MethodPut, fmt.Sprintf("/api/appointments/%d", id), token, fiber.Map{
		"startTime": at(10, 30).Format(time.RFC3339),
		"endTime":   at(11, 30).Format(time.RFC3339),
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 moving onto occupied slot, got %d", resp.StatusCode)
	}

	// Shifting within its own slot does not conflict with itself.
	resp = doRequest(t, app, http.MethodPut, fmt.Sprintf("/api/appointments/%d", id), token, fiber.Map{
		"startTime": at(14, 15).Format(time.RFC3339),
		"endTime":   at(15, 15).Format(time.RFC3339),
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 shifting own slot, got %d", resp.StatusCode)
	}
}

func TestUpdateNotOwned(t *testing.T) {
	app := setupApp(t)
	tokenA, _ := registerUser(t, app)
	tokenB, _ := registerUser(t, app)

	created := createAppointment(t, app, tokenA, "A's", at(10, 0), at(11, 0))
	id := int(created["id"].(float64))

	resp := doRequest(t, app, http.MethodPut, fmt.Sprintf("/api/appointments/%d", id), tokenB, fiber.Map{
		"title": "hijacked",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign appointment, got %d", resp.StatusCode)
	}
}

func TestDeleteAppointment(t *testing.T) {
	app := setupApp(t)
	token, _ := registerUser(t, app)

	created := createAppointment(t, app, token, "Doomed", at(10, 0), at(11, 0))
	id := int(created["id"].(float64))

	resp := doRequest(t, app, http.MethodDelete, fmt.Sprintf("/api/appointments/%d", id), token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp = doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/appointments/%d", id), token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("deleted appointment still fetchable: %d", resp.StatusCode)
	}
}

func TestDeleteNotOwnedLeavesStoreUnchanged(t *testing.T) {
	app := setupApp(t)
	tokenA, _ := registerUser(t, app)
	tokenB, _ := registerUser(t, app)

	created := createAppointment(t, app, tokenA, "A's", at(10, 0), at(11, 0))
	id := int(created["id"].(float64))

	resp := doRequest(t, app, http.MethodDelete, fmt.Sprintf("/api/appointments/%d", id), tokenB, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	resp = doRequest(t, app, http.MethodDelete, "/api/appointments/99999", tokenB, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for nonexistent id, got %d", resp.StatusCode)
	}

	// A's appointment is untouched.
	resp = doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/appointments/%d", id), tokenA, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("appointment vanished: %d", resp.StatusCode)
	}
}

func TestPagination(t *testing.T) {
	app := setupApp(t)
	token, _ := registerUser(t, app)

	// 7 one-hour appointments back to back.
	const n = 7
	for i := 0; i < n; i++ {
		createAppointment(t, app, token, fmt.Sprintf("appt-%d", i), at(8+i, 0), at(9+i, 0))
	}

	// limit 3: pages hold 3, 3, 1.
	resp := doRequest(t, app, http.MethodGet, "/api/appointments?page=3&limit=3", token, nil)
	body := decodeBody(t, resp)
	data := body["data"].([]interface{})
	if len(data) != 1 {
		t.Errorf("last page: expected 1 item, got %d", len(data))
	}
	pagination := body["pagination"].(map[string]interface{})
	if pagination["total"].(float64) != n {
		t.Errorf("total: expected %d, got %v", n, pagination["total"])
	}
	if pagination["pages"].(float64) != 3 {
		t.Errorf("pages: expected 3, got %v", pagination["pages"])
	}

	// Page beyond the data: empty list, same totals.
	resp = doRequest(t, app, http.MethodGet, "/api/appointments?page=4&limit=3", token, nil)
	body = decodeBody(t, resp)
	if len(body["data"].([]interface{})) != 0 {
		t.Error("expected empty page beyond data")
	}
	if body["pagination"].(map[string]interface{})["total"].(float64) != n {
		t.Error("total wrong on empty page")
	}

	// Ordering is by start time ascending.
	resp = doRequest(t, app, http.MethodGet, "/api/appointments?limit=100", token, nil)
	body = decodeBody(t, resp)
	items := body["data"].([]interface{})
	var prev time.Time
	for _, it := range items {
		startStr := it.(map[string]interface{})["startTime"].(string)
		start, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			t.Fatalf("bad startTime in response: %v", err)
		}
		if start.Before(prev) {
			t.Fatal("appointments not ordered by startTime asc")
		}
		prev = start
	}

	// Degenerate paging values fall back to defaults instead of dividing by zero.
	resp = doRequest(t, app, http.MethodGet, "/api/appointments?page=0&limit=0", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("limit=0: expected 200, got %d", resp.StatusCode)
	}
	body = decodeBody(t, resp)
	pagination = body["pagination"].(map[string]interface{})
	if pagination["limit"].(float64) != 10 || pagination["page"].(float64) != 1 {
		t.Errorf("expected clamped defaults, got %v", pagination)
	}
}

func TestListFilters(t *testing.T) {
	app := setupApp(t)
	token, _ := registerUser(t, app)

	createAppointment(t, app, token, "day one", at(9, 0), at(10, 0))
	nextDay := baseDay().AddDate(0, 0, 1)
	dayTwoStart := time.Date(nextDay.Year(), nextDay.Month(), nextDay.Day(), 9, 0, 0, 0, time.UTC)
	createAppointment(t, app, token, "day two", dayTwoStart, dayTwoStart.Add(time.Hour))

	resp := doRequest(t, app, http.MethodPost, "/api/appointments", token, fiber.Map{
		"title":     "done task",
		"startTime": at(12, 0).Format(time.RFC3339),
		"endTime":   at(13, 0).Format(time.RFC3339),
		"type":      "TASK",
		"status":    "COMPLETED",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("seed task: %d", resp.StatusCode)
	}

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"exact date", "?date=" + baseDay().Format("2006-01-02"), 2},
		{"range covering both days", fmt.Sprintf("?startDate=%s&endDate=%s",
			baseDay().Format("2006-01-02"), nextDay.AddDate(0, 0, 1).Format("2006-01-02")), 3},
		{"status filter", "?status=COMPLETED", 1},
		{"type filter", "?type=TASK", 1},
		{"combined", "?type=MEETING&date=" + baseDay().Format("2006-01-02"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, app, http.MethodGet, "/api/appointments"+tt.query, token, nil)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("expected 200, got %d", resp.StatusCode)
			}
			body := decodeBody(t, resp)
			if total := body["pagination"].(map[string]interface{})["total"].(float64); total != float64(tt.want) {
				t.Errorf("expected %d results, got %v", tt.want, total)
			}
		})
	}

	t.Run("invalid status", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodGet, "/api/appointments?status=BOGUS", token, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.StatusCode)
		}
	})
}

func TestAnalyticsStats(t *testing.T) {
	app := setupApp(t)
	token, _ := registerUser(t, app)

	createAppointment(t, app, token, "m1", at(9, 0), at(10, 0))
	resp := doRequest(t, app, http.MethodPost, "/api/appointments", token, fiber.Map{
		"title":     "t1",
		"startTime": at(12, 0).Format(time.RFC3339),
		"endTime":   at(13, 0).Format(time.RFC3339),
		"type":      "TASK",
		"status":    "COMPLETED",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("seed: %d", resp.StatusCode)
	}

	resp = doRequest(t, app, http.MethodGet, "/api/appointments/analytics/stats", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	data := decodeBody(t, resp)["data"].(map[string]interface{})

	if data["totalAppointments"].(float64) != 2 {
		t.Errorf("total: %v", data["totalAppointments"])
	}
	if data["completedAppointments"].(float64) != 1 {
		t.Errorf("completed: %v", data["completedAppointments"])
	}
	if data["completionRate"].(float64) != 50.0 {
		t.Errorf("completionRate: %v", data["completionRate"])
	}
	byType := data["appointmentsByType"].([]interface{})
	if len(byType) != 2 {
		t.Errorf("expected 2 type groups, got %d", len(byType))
	}
}
