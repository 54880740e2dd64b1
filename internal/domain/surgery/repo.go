package surgery

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type OperatingRoomRepository interface {
	Create(ctx context.Context, r *OperatingRoom) error
	GetByID(ctx context.Context, id uuid.UUID) (*OperatingRoom, error)
	Update(ctx context.Context, r *OperatingRoom) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*OperatingRoom, int, error)
	ListActive(ctx context.Context) ([]*OperatingRoom, error)
}

type SurgeonRepository interface {
	Create(ctx context.Context, s *Surgeon) error
	GetByID(ctx context.Context, id uuid.UUID) (*Surgeon, error)
	Update(ctx context.Context, s *Surgeon) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Surgeon, int, error)
	ListActive(ctx context.Context) ([]*Surgeon, error)
}

type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
}

type SurgeryTypeRepository interface {
	Create(ctx context.Context, st *SurgeryType) error
	GetByID(ctx context.Context, id uuid.UUID) (*SurgeryType, error)
	Update(ctx context.Context, st *SurgeryType) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*SurgeryType, int, error)
}

type SurgeryRepository interface {
	Create(ctx context.Context, s *Surgery) error
	GetByID(ctx context.Context, id uuid.UUID) (*Surgery, error)
	Update(ctx context.Context, s *Surgery) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Surgery, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Surgery, int, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*Surgery, int, error)
	// SetSchedule binds the surgery to a room, surgeon and window and marks
	// it scheduled.
	SetSchedule(ctx context.Context, id, roomID, surgeonID uuid.UUID, start, end time.Time) error
	// ClearSchedule removes the room/surgeon/time binding and marks the
	// surgery awaiting_reschedule.
	ClearSchedule(ctx context.Context, id uuid.UUID) error
}
