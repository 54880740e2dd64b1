package surgery

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	rooms    OperatingRoomRepository
	surgeons SurgeonRepository
	patients PatientRepository
	types    SurgeryTypeRepository
	cases    SurgeryRepository
}

func NewService(rooms OperatingRoomRepository, surgeons SurgeonRepository, patients PatientRepository, types SurgeryTypeRepository, cases SurgeryRepository) *Service {
	return &Service{rooms: rooms, surgeons: surgeons, patients: patients, types: types, cases: cases}
}

// -- Operating Room --

func (s *Service) CreateRoom(ctx context.Context, r *OperatingRoom) error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	r.IsActive = true
	return s.rooms.Create(ctx, r)
}

func (s *Service) GetRoom(ctx context.Context, id uuid.UUID) (*OperatingRoom, error) {
	return s.rooms.GetByID(ctx, id)
}

func (s *Service) UpdateRoom(ctx context.Context, r *OperatingRoom) error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.rooms.Update(ctx, r)
}

func (s *Service) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	return s.rooms.Delete(ctx, id)
}

func (s *Service) ListRooms(ctx context.Context, limit, offset int) ([]*OperatingRoom, int, error) {
	return s.rooms.List(ctx, limit, offset)
}

// -- Surgeon --

func (s *Service) CreateSurgeon(ctx context.Context, sg *Surgeon) error {
	if sg.Name == "" {
		return fmt.Errorf("name is required")
	}
	sg.IsActive = true
	return s.surgeons.Create(ctx, sg)
}

func (s *Service) GetSurgeon(ctx context.Context, id uuid.UUID) (*Surgeon, error) {
	return s.surgeons.GetByID(ctx, id)
}

func (s *Service) UpdateSurgeon(ctx context.Context, sg *Surgeon) error {
	if sg.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.surgeons.Update(ctx, sg)
}

func (s *Service) DeleteSurgeon(ctx context.Context, id uuid.UUID) error {
	return s.surgeons.Delete(ctx, id)
}

func (s *Service) ListSurgeons(ctx context.Context, limit, offset int) ([]*Surgeon, int, error) {
	return s.surgeons.List(ctx, limit, offset)
}

// -- Patient --

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.MRN == "" {
		return fmt.Errorf("mrn is required")
	}
	p.IsActive = true
	return s.patients.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

// -- Surgery Type --

func (s *Service) CreateSurgeryType(ctx context.Context, st *SurgeryType) error {
	if st.Name == "" {
		return fmt.Errorf("name is required")
	}
	if st.DefaultDurationMins <= 0 {
		return fmt.Errorf("default_duration_mins must be positive")
	}
	return s.types.Create(ctx, st)
}

func (s *Service) GetSurgeryType(ctx context.Context, id uuid.UUID) (*SurgeryType, error) {
	return s.types.GetByID(ctx, id)
}

func (s *Service) UpdateSurgeryType(ctx context.Context, st *SurgeryType) error {
	if st.DefaultDurationMins <= 0 {
		return fmt.Errorf("default_duration_mins must be positive")
	}
	return s.types.Update(ctx, st)
}

func (s *Service) DeleteSurgeryType(ctx context.Context, id uuid.UUID) error {
	return s.types.Delete(ctx, id)
}

func (s *Service) ListSurgeryTypes(ctx context.Context, limit, offset int) ([]*SurgeryType, int, error) {
	return s.types.List(ctx, limit, offset)
}

// -- Surgery --

var validStatuses = map[string]bool{
	StatusPending: true, StatusScheduled: true, StatusAwaitingReschedule: true,
	StatusInProgress: true, StatusCompleted: true, StatusCancelled: true,
}

var validUrgencies = map[string]bool{
	UrgencyEmergency: true, UrgencyHigh: true, UrgencyMedium: true, UrgencyLow: true,
}

func (s *Service) CreateSurgery(ctx context.Context, sc *Surgery) error {
	if sc.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if sc.SurgeryTypeID == uuid.Nil {
		return fmt.Errorf("surgery_type_id is required")
	}
	if sc.SurgeonID == nil || *sc.SurgeonID == uuid.Nil {
		return fmt.Errorf("surgeon_id is required")
	}
	if sc.DurationMins <= 0 {
		return fmt.Errorf("duration_mins must be positive")
	}
	if sc.Urgency == "" {
		sc.Urgency = UrgencyMedium
	}
	if !validUrgencies[sc.Urgency] {
		return fmt.Errorf("invalid urgency: %s", sc.Urgency)
	}
	if sc.Status == "" {
		sc.Status = StatusPending
	}
	if !validStatuses[sc.Status] {
		return fmt.Errorf("invalid status: %s", sc.Status)
	}
	if (sc.StartTime == nil) != (sc.EndTime == nil) {
		return fmt.Errorf("start_time and end_time must be set together")
	}
	if sc.StartTime != nil && !sc.EndTime.After(*sc.StartTime) {
		return fmt.Errorf("end_time must be after start_time")
	}
	return s.cases.Create(ctx, sc)
}

func (s *Service) GetSurgery(ctx context.Context, id uuid.UUID) (*Surgery, error) {
	return s.cases.GetByID(ctx, id)
}

func (s *Service) UpdateSurgery(ctx context.Context, sc *Surgery) error {
	if sc.Status != "" && !validStatuses[sc.Status] {
		return fmt.Errorf("invalid status: %s", sc.Status)
	}
	if sc.Urgency != "" && !validUrgencies[sc.Urgency] {
		return fmt.Errorf("invalid urgency: %s", sc.Urgency)
	}
	return s.cases.Update(ctx, sc)
}

func (s *Service) DeleteSurgery(ctx context.Context, id uuid.UUID) error {
	return s.cases.Delete(ctx, id)
}

func (s *Service) ListSurgeries(ctx context.Context, limit, offset int) ([]*Surgery, int, error) {
	return s.cases.List(ctx, limit, offset)
}

func (s *Service) ListSurgeriesByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Surgery, int, error) {
	return s.cases.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListSurgeriesByStatus(ctx context.Context, status string, limit, offset int) ([]*Surgery, int, error) {
	if !validStatuses[status] {
		return nil, 0, fmt.Errorf("invalid status: %s", status)
	}
	return s.cases.ListByStatus(ctx, status, limit, offset)
}

func (s *Service) ScheduleSurgery(ctx context.Context, id, roomID, surgeonID uuid.UUID, start, end time.Time) error {
	if !end.After(start) {
		return fmt.Errorf("end_time must be after start_time")
	}
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return fmt.Errorf("room not found")
	}
	if _, err := s.surgeons.GetByID(ctx, surgeonID); err != nil {
		return fmt.Errorf("surgeon not found")
	}
	return s.cases.SetSchedule(ctx, id, roomID, surgeonID, start, end)
}
