package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"readinghall-dashboard/model"
)

func newTestClient(server *httptest.Server, attempts int) *Client {
	client := NewClient(server.Client(), WithBaseURL(server.URL), WithMaxAttempts(attempts))
	client.retryBase = time.Millisecond
	client.retryCap = 2 * time.Millisecond
	return client
}

func TestGetJSON_Non2xxReturnsVerbatimBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "Failed to process detection"}`))
	}))
	defer server.Close()

	client := newTestClient(server, 1)

	var out map[string]any
	err := client.getJSON(context.Background(), server.URL+"/fail", &out)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), `{"error": "Failed to process detection"}`) {
		t.Fatalf("unexpected error: %v", err)
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Message != "Failed to process detection" {
		t.Fatalf("unexpected message: %q", apiErr.Message)
	}
}

func TestGetJSON_RetriesTransientServerErrors(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		current := atomic.AddInt32(&attempts, 1)
		if current < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("retry later"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	client := newTestClient(server, 3)

	var out map[string]any
	if err := client.getJSON(context.Background(), server.URL+"/retry", &out); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if ok, _ := out["ok"].(bool); !ok {
		t.Fatalf("unexpected payload: %+v", out)
	}
}

func TestGetJSON_DoesNotRetryOnClientErrors(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad request"))
	}))
	defer server.Close()

	client := newTestClient(server, 3)

	var out map[string]any
	err := client.getJSON(context.Background(), server.URL+"/bad-request", &out)
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestGetJSON_SendsRequestID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Request-ID") == "" {
			t.Fatal("expected X-Request-ID header")
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Fatalf("unexpected accept header: %q", r.Header.Get("Accept"))
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(server, 1)
	if _, err := client.GetHalls(context.Background()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestGetOverview_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/analytics/overview" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total_seats":50,"occupied_seats":20,"available_seats":30,"occupancy_rate":40,"sessions_today":12,"avg_duration_minutes":45}`))
	}))
	defer server.Close()

	client := newTestClient(server, 1)

	overview, err := client.GetOverview(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	want := model.OverviewSnapshot{TotalSeats: 50, OccupiedSeats: 20, AvailableSeats: 30, OccupancyRate: 40, SessionsToday: 12, AvgDurationMinutes: 45}
	if overview != want {
		t.Fatalf("unexpected overview: %+v", overview)
	}
}

func TestGetUsage_WrappedReport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/analytics/usage" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.RawQuery != "days=7" {
			t.Fatalf("unexpected query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{
  "daily_stats": [
    {"date": "2026-10-14", "total_sessions": 4, "avg_duration": 52.5, "max_duration": 120},
    {"date": "2026-10-13", "total_sessions": 2, "avg_duration": null, "max_duration": null}
  ],
  "hourly_stats": [{"hour": "09", "session_count": 3}]
}`))
	}))
	defer server.Close()

	client := newTestClient(server, 1)

	report, err := client.GetUsage(context.Background(), 7)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(report.Daily) != 2 || len(report.Hourly) != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Daily[1].AvgDuration != nil {
		t.Fatalf("expected null average, got %v", *report.Daily[1].AvgDuration)
	}
}

func TestGetUsage_BareList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"date": "2026-10-14", "total_sessions": 4, "avg_duration": 10}]`))
	}))
	defer server.Close()

	client := newTestClient(server, 1)

	report, err := client.GetUsage(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(report.Daily) != 1 || report.Daily[0].TotalSessions != 4 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestGetUsage_RejectsNonPositiveDays(t *testing.T) {
	client := NewClient(nil)
	if _, err := client.GetUsage(context.Background(), 0); err == nil {
		t.Fatal("expected error for zero days")
	}
}

func TestGetHallSeats_SQLiteRows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/halls/1/seats" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[
  {"id": 1, "hall_id": 1, "seat_number": "R1S1", "is_occupied": 1, "is_available": 1, "current_user_name": "John Doe", "check_in_time": "2026-10-14 08:30:00"},
  {"id": 2, "hall_id": 1, "seat_number": "R1S2", "is_occupied": 0, "is_available": 1, "current_user_name": null, "check_in_time": null}
]`))
	}))
	defer server.Close()

	client := newTestClient(server, 1)

	seats, err := client.GetHallSeats(context.Background(), "1")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(seats) != 2 {
		t.Fatalf("expected 2 seats, got %d", len(seats))
	}
	if !seats[0].IsOccupied || seats[0].Id != "1" || seats[0].CurrentUserName != "John Doe" {
		t.Fatalf("unexpected first seat: %+v", seats[0])
	}
	want := time.Date(2026, 10, 14, 8, 30, 0, 0, time.UTC)
	if !seats[0].CheckInTime.Equal(want) {
		t.Fatalf("unexpected check-in time: %v", seats[0].CheckInTime)
	}
	if bool(seats[1].IsOccupied) || !seats[1].CheckInTime.IsZero() {
		t.Fatalf("unexpected second seat: %+v", seats[1])
	}
}

func TestGetHallSeats_RequiresHall(t *testing.T) {
	client := NewClient(nil)
	if _, err := client.GetHallSeats(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty hall id")
	}
}

func TestGetActiveSessions_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/active" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[{"id": 7, "user_name": "Jane Smith", "student_id": "STU002", "seat_number": "R2S4", "hall_id": 1, "hall_name": "Main Reading Hall", "check_in_time": "2026-10-14T09:00:00"}]`))
	}))
	defer server.Close()

	client := newTestClient(server, 1)

	sessions, err := client.GetActiveSessions(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(sessions) != 1 || sessions[0].Id != "7" || sessions[0].StudentId != "STU002" {
		t.Fatalf("unexpected sessions: %+v", sessions)
	}
}

func TestGetUserByBarcode_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users/BARCODE404" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "User not found"}`))
	}))
	defer server.Close()

	client := newTestClient(server, 1)

	_, err := client.GetUserByBarcode(context.Background(), "BARCODE404")
	if !IsNotFound(err) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestCheckIn_PostsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/checkin" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["barcode"] != "BARCODE001" || body["seat_id"] != float64(12) {
			t.Fatalf("unexpected body: %+v", body)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message": "Check-in successful", "session_id": 31, "seat_number": "R2S2"}`))
	}))
	defer server.Close()

	client := newTestClient(server, 1)

	result, err := client.CheckIn(context.Background(), "BARCODE001", 12)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result.SessionId != "31" || result.SeatNumber != "R2S2" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestCheckIn_ConflictIsNotRetried(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error": "Seat not available"}`))
	}))
	defer server.Close()

	client := newTestClient(server, 3)

	_, err := client.CheckIn(context.Background(), "BARCODE001", 12)
	if !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestCheckOut_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/checkout" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"message": "Check-out successful", "seat_number": "R2S2", "duration_minutes": 95}`))
	}))
	defer server.Close()

	client := newTestClient(server, 1)

	result, err := client.CheckOut(context.Background(), "BARCODE001")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result.DurationMinutes != 95 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestSetConfig_Put(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/config" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(raw), `"key":"idle_timeout_minutes"`) || !strings.Contains(string(raw), `"value":"45"`) {
			t.Fatalf("unexpected body: %s", raw)
		}
		_, _ = w.Write([]byte(`{"message": "Configuration updated successfully"}`))
	}))
	defer server.Close()

	client := newTestClient(server, 1)

	result, err := client.SetConfig(context.Background(), model.ConfigUpdate{Key: "idle_timeout_minutes", Value: "45"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result.Message == "" {
		t.Fatal("expected acknowledgement message")
	}
}

func TestReportDetection_ValidatesConfidence(t *testing.T) {
	client := NewClient(nil)
	_, err := client.ReportDetection(context.Background(), model.Detection{SeatId: 1, Confidence: 1.5})
	if err == nil {
		t.Fatal("expected error for confidence above 1")
	}
}
