package surgery

import (
	"time"

	"github.com/google/uuid"
)

// OperatingRoom maps to the operating_room table.
type OperatingRoom struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	RoomType  *string   `db:"room_type" json:"room_type,omitempty"`
	IsBackup  bool      `db:"is_backup" json:"is_backup"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	Note      *string   `db:"note" json:"note,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Surgeon maps to the surgeon table.
type Surgeon struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Specialty *string   `db:"specialty" json:"specialty,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Email     *string   `db:"email" json:"email,omitempty"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Patient maps to the patient table.
type Patient struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	MRN       string    `db:"mrn" json:"mrn"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SurgeryType maps to the surgery_type table.
type SurgeryType struct {
	ID                  uuid.UUID `db:"id" json:"id"`
	Name                string    `db:"name" json:"name"`
	Code                *string   `db:"code" json:"code,omitempty"`
	DefaultDurationMins int       `db:"default_duration_mins" json:"default_duration_mins"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

// Surgery maps to the surgery table. This is the main scheduling resource.
// A surgery becomes scheduled when the insertion engine (or a planner) binds
// it to a room and a time window; bumping clears that binding and moves the
// record to awaiting_reschedule, it never deletes the row.
type Surgery struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patient_id"`
	SurgeryTypeID uuid.UUID  `db:"surgery_type_id" json:"surgery_type_id"`
	SurgeonID     *uuid.UUID `db:"surgeon_id" json:"surgeon_id,omitempty"`
	DurationMins  int        `db:"duration_mins" json:"duration_mins"`
	Urgency       string     `db:"urgency" json:"urgency"`
	Status        string     `db:"status" json:"status"`
	RoomID        *uuid.UUID `db:"room_id" json:"room_id,omitempty"`
	StartTime     *time.Time `db:"start_time" json:"start_time,omitempty"`
	EndTime       *time.Time `db:"end_time" json:"end_time,omitempty"`
	Note          *string    `db:"note" json:"note,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

const (
	StatusPending            = "pending"
	StatusScheduled          = "scheduled"
	StatusAwaitingReschedule = "awaiting_reschedule"
	StatusInProgress         = "in_progress"
	StatusCompleted          = "completed"
	StatusCancelled          = "cancelled"
)

const (
	UrgencyEmergency = "emergency"
	UrgencyHigh      = "high"
	UrgencyMedium    = "medium"
	UrgencyLow       = "low"
)
