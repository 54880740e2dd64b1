package surgery

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

// --- in-memory repositories ---

type mockRoomRepo struct{ rooms map[uuid.UUID]*OperatingRoom }

func newMockRoomRepo() *mockRoomRepo {
	return &mockRoomRepo{rooms: make(map[uuid.UUID]*OperatingRoom)}
}

func (m *mockRoomRepo) Create(_ context.Context, r *OperatingRoom) error {
	r.ID = uuid.New()
	m.rooms[r.ID] = r
	return nil
}

func (m *mockRoomRepo) GetByID(_ context.Context, id uuid.UUID) (*OperatingRoom, error) {
	r, ok := m.rooms[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return r, nil
}

func (m *mockRoomRepo) Update(_ context.Context, r *OperatingRoom) error {
	if _, ok := m.rooms[r.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.rooms[r.ID] = r
	return nil
}

func (m *mockRoomRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.rooms, id)
	return nil
}

func (m *mockRoomRepo) List(_ context.Context, limit, offset int) ([]*OperatingRoom, int, error) {
	var items []*OperatingRoom
	for _, r := range m.rooms {
		items = append(items, r)
	}
	return items, len(items), nil
}

func (m *mockRoomRepo) ListActive(_ context.Context) ([]*OperatingRoom, error) {
	var items []*OperatingRoom
	for _, r := range m.rooms {
		if r.IsActive {
			items = append(items, r)
		}
	}
	return items, nil
}

type mockSurgeonRepo struct{ surgeons map[uuid.UUID]*Surgeon }

func newMockSurgeonRepo() *mockSurgeonRepo {
	return &mockSurgeonRepo{surgeons: make(map[uuid.UUID]*Surgeon)}
}

func (m *mockSurgeonRepo) Create(_ context.Context, s *Surgeon) error {
	s.ID = uuid.New()
	m.surgeons[s.ID] = s
	return nil
}

func (m *mockSurgeonRepo) GetByID(_ context.Context, id uuid.UUID) (*Surgeon, error) {
	s, ok := m.surgeons[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return s, nil
}

func (m *mockSurgeonRepo) Update(_ context.Context, s *Surgeon) error {
	m.surgeons[s.ID] = s
	return nil
}

func (m *mockSurgeonRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.surgeons, id)
	return nil
}

func (m *mockSurgeonRepo) List(_ context.Context, limit, offset int) ([]*Surgeon, int, error) {
	var items []*Surgeon
	for _, s := range m.surgeons {
		items = append(items, s)
	}
	return items, len(items), nil
}

func (m *mockSurgeonRepo) ListActive(_ context.Context) ([]*Surgeon, error) {
	var items []*Surgeon
	for _, s := range m.surgeons {
		if s.IsActive {
			items = append(items, s)
		}
	}
	return items, nil
}

type mockPatientRepo struct{ patients map[uuid.UUID]*Patient }

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockPatientRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return p, nil
}

func (m *mockPatientRepo) Update(_ context.Context, p *Patient) error {
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.patients, id)
	return nil
}

func (m *mockPatientRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	var items []*Patient
	for _, p := range m.patients {
		items = append(items, p)
	}
	return items, len(items), nil
}

type mockSurgeryTypeRepo struct{ types map[uuid.UUID]*SurgeryType }

func newMockSurgeryTypeRepo() *mockSurgeryTypeRepo {
	return &mockSurgeryTypeRepo{types: make(map[uuid.UUID]*SurgeryType)}
}

func (m *mockSurgeryTypeRepo) Create(_ context.Context, st *SurgeryType) error {
	st.ID = uuid.New()
	m.types[st.ID] = st
	return nil
}

func (m *mockSurgeryTypeRepo) GetByID(_ context.Context, id uuid.UUID) (*SurgeryType, error) {
	st, ok := m.types[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return st, nil
}

func (m *mockSurgeryTypeRepo) Update(_ context.Context, st *SurgeryType) error {
	m.types[st.ID] = st
	return nil
}

func (m *mockSurgeryTypeRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.types, id)
	return nil
}

func (m *mockSurgeryTypeRepo) List(_ context.Context, limit, offset int) ([]*SurgeryType, int, error) {
	var items []*SurgeryType
	for _, st := range m.types {
		items = append(items, st)
	}
	return items, len(items), nil
}

type mockSurgeryRepo struct{ surgeries map[uuid.UUID]*Surgery }

func newMockSurgeryRepo() *mockSurgeryRepo {
	return &mockSurgeryRepo{surgeries: make(map[uuid.UUID]*Surgery)}
}

func (m *mockSurgeryRepo) Create(_ context.Context, s *Surgery) error {
	s.ID = uuid.New()
	m.surgeries[s.ID] = s
	return nil
}

func (m *mockSurgeryRepo) GetByID(_ context.Context, id uuid.UUID) (*Surgery, error) {
	s, ok := m.surgeries[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return s, nil
}

func (m *mockSurgeryRepo) Update(_ context.Context, s *Surgery) error {
	m.surgeries[s.ID] = s
	return nil
}

func (m *mockSurgeryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.surgeries, id)
	return nil
}

func (m *mockSurgeryRepo) List(_ context.Context, limit, offset int) ([]*Surgery, int, error) {
	var items []*Surgery
	for _, s := range m.surgeries {
		items = append(items, s)
	}
	return items, len(items), nil
}

func (m *mockSurgeryRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Surgery, int, error) {
	var items []*Surgery
	for _, s := range m.surgeries {
		if s.PatientID == patientID {
			items = append(items, s)
		}
	}
	return items, len(items), nil
}

func (m *mockSurgeryRepo) ListByStatus(_ context.Context, status string, limit, offset int) ([]*Surgery, int, error) {
	var items []*Surgery
	for _, s := range m.surgeries {
		if s.Status == status {
			items = append(items, s)
		}
	}
	return items, len(items), nil
}

func (m *mockSurgeryRepo) SetSchedule(_ context.Context, id, roomID, surgeonID uuid.UUID, start, end time.Time) error {
	s, ok := m.surgeries[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	s.RoomID = &roomID
	s.SurgeonID = &surgeonID
	s.StartTime = &start
	s.EndTime = &end
	s.Status = StatusScheduled
	return nil
}

func (m *mockSurgeryRepo) ClearSchedule(_ context.Context, id uuid.UUID) error {
	s, ok := m.surgeries[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	s.RoomID = nil
	s.SurgeonID = nil
	s.StartTime = nil
	s.EndTime = nil
	s.Status = StatusAwaitingReschedule
	return nil
}

func newTestService() (*Service, *mockRoomRepo, *mockSurgeryRepo) {
	rooms := newMockRoomRepo()
	cases := newMockSurgeryRepo()
	svc := NewService(rooms, newMockSurgeonRepo(), newMockPatientRepo(), newMockSurgeryTypeRepo(), cases)
	return svc, rooms, cases
}

// --- tests ---

func TestCreateRoom(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if err := svc.CreateRoom(ctx, &OperatingRoom{}); err == nil {
		t.Error("expected error for missing name")
	}

	r := &OperatingRoom{Name: "OR-1"}
	if err := svc.CreateRoom(ctx, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.IsActive {
		t.Error("expected new room to be active")
	}
	if r.ID == uuid.Nil {
		t.Error("expected ID to be assigned")
	}
}

func TestCreateSurgery_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	base := func() *Surgery {
		surgeonID := uuid.New()
		return &Surgery{
			PatientID:     uuid.New(),
			SurgeryTypeID: uuid.New(),
			SurgeonID:     &surgeonID,
			DurationMins:  90,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Surgery)
		wantErr bool
	}{
		{"valid", func(*Surgery) {}, false},
		{"missing patient", func(s *Surgery) { s.PatientID = uuid.Nil }, true},
		{"missing type", func(s *Surgery) { s.SurgeryTypeID = uuid.Nil }, true},
		{"missing surgeon", func(s *Surgery) { s.SurgeonID = nil }, true},
		{"zero duration", func(s *Surgery) { s.DurationMins = 0 }, true},
		{"negative duration", func(s *Surgery) { s.DurationMins = -30 }, true},
		{"bad urgency", func(s *Surgery) { s.Urgency = "stat" }, true},
		{"bad status", func(s *Surgery) { s.Status = "done" }, true},
		{"start without end", func(s *Surgery) {
			at := time.Now()
			s.StartTime = &at
		}, true},
		{"end before start", func(s *Surgery) {
			start := time.Now()
			end := start.Add(-time.Hour)
			s.StartTime = &start
			s.EndTime = &end
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.mutate(s)
			err := svc.CreateSurgery(ctx, s)
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCreateSurgery_Defaults(t *testing.T) {
	svc, _, _ := newTestService()
	surgeonID := uuid.New()
	s := &Surgery{
		PatientID:     uuid.New(),
		SurgeryTypeID: uuid.New(),
		SurgeonID:     &surgeonID,
		DurationMins:  60,
	}
	if err := svc.CreateSurgery(context.Background(), s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Status != StatusPending {
		t.Errorf("expected default status pending, got %s", s.Status)
	}
	if s.Urgency != UrgencyMedium {
		t.Errorf("expected default urgency medium, got %s", s.Urgency)
	}
}

func TestScheduleSurgery(t *testing.T) {
	svc, rooms, cases := newTestService()
	ctx := context.Background()

	room := &OperatingRoom{Name: "OR-1"}
	if err := svc.CreateRoom(ctx, room); err != nil {
		t.Fatal(err)
	}
	sg := &Surgeon{Name: "Dr. Osei"}
	if err := svc.CreateSurgeon(ctx, sg); err != nil {
		t.Fatal(err)
	}
	s := &Surgery{
		PatientID:     uuid.New(),
		SurgeryTypeID: uuid.New(),
		SurgeonID:     &sg.ID,
		DurationMins:  60,
	}
	if err := svc.CreateSurgery(ctx, s); err != nil {
		t.Fatal(err)
	}

	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	if err := svc.ScheduleSurgery(ctx, s.ID, room.ID, sg.ID, end, start); err == nil {
		t.Error("expected error for inverted window")
	}
	if err := svc.ScheduleSurgery(ctx, s.ID, uuid.New(), sg.ID, start, end); err == nil {
		t.Error("expected error for unknown room")
	}
	if err := svc.ScheduleSurgery(ctx, s.ID, room.ID, uuid.New(), start, end); err == nil {
		t.Error("expected error for unknown surgeon")
	}

	if err := svc.ScheduleSurgery(ctx, s.ID, room.ID, sg.ID, start, end); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := cases.surgeries[s.ID]
	if got.Status != StatusScheduled {
		t.Errorf("expected status scheduled, got %s", got.Status)
	}
	if got.RoomID == nil || *got.RoomID != room.ID {
		t.Error("expected room binding")
	}
	_ = rooms
}

func TestClearScheduleMovesToAwaitingReschedule(t *testing.T) {
	svc, rooms, cases := newTestService()
	ctx := context.Background()

	room := &OperatingRoom{Name: "OR-2"}
	if err := svc.CreateRoom(ctx, room); err != nil {
		t.Fatal(err)
	}
	sg := &Surgeon{Name: "Dr. Lindqvist"}
	if err := svc.CreateSurgeon(ctx, sg); err != nil {
		t.Fatal(err)
	}
	s := &Surgery{
		PatientID:     uuid.New(),
		SurgeryTypeID: uuid.New(),
		SurgeonID:     &sg.ID,
		DurationMins:  45,
	}
	if err := svc.CreateSurgery(ctx, s); err != nil {
		t.Fatal(err)
	}
	start := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)
	if err := svc.ScheduleSurgery(ctx, s.ID, room.ID, sg.ID, start, start.Add(45*time.Minute)); err != nil {
		t.Fatal(err)
	}

	if err := cases.ClearSchedule(ctx, s.ID); err != nil {
		t.Fatal(err)
	}
	got := cases.surgeries[s.ID]
	if got.Status != StatusAwaitingReschedule {
		t.Errorf("expected awaiting_reschedule, got %s", got.Status)
	}
	if got.RoomID != nil || got.StartTime != nil || got.EndTime != nil {
		t.Error("expected schedule binding to be cleared")
	}
	_ = rooms
}

func TestListSurgeriesByStatus_InvalidStatus(t *testing.T) {
	svc, _, _ := newTestService()
	if _, _, err := svc.ListSurgeriesByStatus(context.Background(), "bogus", 10, 0); err == nil {
		t.Error("expected error for invalid status filter")
	}
}
