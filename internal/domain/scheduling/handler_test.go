package scheduling

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newHandlerFixture(t *testing.T) (*Handler, *fixture) {
	t.Helper()
	f := newFixture(t)
	return NewHandler(f.svc), f
}

func postJSON(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestInsertEmergency_ReturnsOutcome(t *testing.T) {
	h, f := newHandlerFixture(t)
	f.addRoom("OR-1")
	f.addSurgeon("Dr. Adeyemi")

	body := fmt.Sprintf(`{
		"patient_id": %q,
		"surgery_type_id": %q,
		"duration_mins": 45,
		"arrival_time": "2026-03-10T10:00:00Z",
		"priority_tier": "urgent"
	}`, f.patient.ID, f.stype.ID)

	e := echo.New()
	c, rec := postJSON(e, "/api/v1/emergency-insertions", body)
	if err := h.InsertEmergency(c); err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var out InsertionOutcome
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if !out.Success || out.Tactic != TacticBackupRoom {
		t.Errorf("unexpected outcome: %+v", out)
	}
}

func TestInsertEmergency_FailedInsertionIsStill200(t *testing.T) {
	h, f := newHandlerFixture(t)
	r1 := f.addRoom("OR-1")
	sg := f.addSurgeon("Dr. Adeyemi")
	f.seedCase(t, r1, sg, at(f.day, 8, 0), at(f.day, 16, 0), UrgencyMedium)

	body := fmt.Sprintf(`{
		"patient_id": %q,
		"surgery_type_id": %q,
		"duration_mins": 30,
		"arrival_time": "2026-03-10T10:00:00Z",
		"priority_tier": "scheduled",
		"allow_bumping": false,
		"allow_overtime": false
	}`, f.patient.ID, f.stype.ID)

	e := echo.New()
	c, rec := postJSON(e, "/api/v1/emergency-insertions", body)
	if err := h.InsertEmergency(c); err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("a failed insertion is a business outcome, expected 200, got %d", rec.Code)
	}

	var out InsertionOutcome
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Success {
		t.Error("expected success=false")
	}
	if out.FailureReason != "No viable insertion strategy found" {
		t.Errorf("unexpected reason: %q", out.FailureReason)
	}
}

func TestInsertEmergency_BadTierIs400(t *testing.T) {
	h, f := newHandlerFixture(t)

	body := fmt.Sprintf(`{
		"patient_id": %q,
		"surgery_type_id": %q,
		"duration_mins": 30,
		"priority_tier": "stat"
	}`, f.patient.ID, f.stype.ID)

	e := echo.New()
	c, _ := postJSON(e, "/api/v1/emergency-insertions", body)
	err := h.InsertEmergency(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown tier, got %v", err)
	}
}

func TestInsertEmergency_ValidationErrorIs400(t *testing.T) {
	h, f := newHandlerFixture(t)
	f.addRoom("OR-1")
	f.addSurgeon("Dr. Adeyemi")

	body := fmt.Sprintf(`{
		"patient_id": %q,
		"surgery_type_id": %q,
		"duration_mins": -5,
		"priority_tier": "urgent"
	}`, f.patient.ID, f.stype.ID)

	e := echo.New()
	c, _ := postJSON(e, "/api/v1/emergency-insertions", body)
	err := h.InsertEmergency(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid duration, got %v", err)
	}
}

func TestGetDaySchedule_RequiresDate(t *testing.T) {
	h, _ := newHandlerFixture(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/schedule", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.GetDaySchedule(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without date, got %v", err)
	}
}

func TestGetDaySchedule_ReturnsCommittedAssignments(t *testing.T) {
	h, f := newHandlerFixture(t)
	r1 := f.addRoom("OR-1")
	sg := f.addSurgeon("Dr. Adeyemi")
	f.seedCase(t, r1, sg, at(f.day, 9, 0), at(f.day, 11, 0), UrgencyMedium)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/schedule?date=2026-03-10", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.GetDaySchedule(c); err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Date        string        `json:"date"`
		Assignments []*Assignment `json:"assignments"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Date != "2026-03-10" {
		t.Errorf("unexpected date %q", resp.Date)
	}
	if len(resp.Assignments) != 1 {
		t.Errorf("expected 1 assignment, got %d", len(resp.Assignments))
	}
}
