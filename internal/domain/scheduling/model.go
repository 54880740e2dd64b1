package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// EmergencyRequest describes one emergency arrival. It is built per event,
// handed to the engine, and discarded once an InsertionOutcome is returned;
// the request itself is never persisted.
type EmergencyRequest struct {
	PatientID           uuid.UUID    `json:"patient_id"`
	SurgeryTypeID       uuid.UUID    `json:"surgery_type_id"`
	DurationMins        int          `json:"duration_mins"`
	ArrivalTime         time.Time    `json:"arrival_time"`
	Tier                PriorityTier `json:"priority_tier"`
	RequiredSurgeonID   *uuid.UUID   `json:"required_surgeon_id,omitempty"`
	PreferredStart      *time.Time   `json:"preferred_start,omitempty"`
	RoomType            *string      `json:"room_type,omitempty"`
	AllowBumping        bool         `json:"allow_bumping"`
	AllowOvertime       bool         `json:"allow_overtime"`
	AllowBackupRooms    bool         `json:"allow_backup_rooms"`
	MaxWaitOverrideMins *int         `json:"max_wait_override_mins,omitempty"`
}

// maxWaitMins returns the effective wait ceiling: the caller override when
// given, else the tier's service target.
func (r *EmergencyRequest) maxWaitMins() int {
	if r.MaxWaitOverrideMins != nil {
		return *r.MaxWaitOverrideMins
	}
	return r.Tier.MaxWaitMins()
}

// candidateStart is the earliest start the engine will consider: the later of
// the arrival time and the preferred start.
func (r *EmergencyRequest) candidateStart() time.Time {
	start := r.ArrivalTime
	if r.PreferredStart != nil && r.PreferredStart.After(start) {
		start = *r.PreferredStart
	}
	return start
}

// Assignment maps to the schedule_assignment table. It represents exclusive
// occupancy of one room AND one surgeon for the half-open interval
// [StartTime, EndTime). Urgency and SurgeryDurationMins are joined from the
// surgery row when building a day snapshot.
type Assignment struct {
	ID           uuid.UUID `db:"id" json:"id"`
	ScheduleDate time.Time `db:"schedule_date" json:"schedule_date"`
	RoomID       uuid.UUID `db:"room_id" json:"room_id"`
	SurgeryID    uuid.UUID `db:"surgery_id" json:"surgery_id"`
	SurgeonID    uuid.UUID `db:"surgeon_id" json:"surgeon_id"`
	StartTime    time.Time `db:"start_time" json:"start_time"`
	EndTime      time.Time `db:"end_time" json:"end_time"`

	Urgency             Urgency `db:"urgency" json:"urgency,omitempty"`
	SurgeryDurationMins int     `db:"surgery_duration_mins" json:"surgery_duration_mins,omitempty"`
}

// windowMins is the length of the assignment's occupied window in minutes.
func (a *Assignment) windowMins() int {
	return int(a.EndTime.Sub(a.StartTime) / time.Minute)
}

// Snapshot is the read-only view of one day's committed assignments that a
// single insertion decision runs against.
type Snapshot struct {
	Date        time.Time
	Assignments []*Assignment
}

// without returns a copy of the snapshot with one assignment removed. Used to
// evaluate availability as if a bump candidate were already evicted.
func (s *Snapshot) without(assignmentID uuid.UUID) *Snapshot {
	out := &Snapshot{Date: s.Date, Assignments: make([]*Assignment, 0, len(s.Assignments))}
	for _, a := range s.Assignments {
		if a.ID != assignmentID {
			out.Assignments = append(out.Assignments, a)
		}
	}
	return out
}

// latestEnd returns the latest end time among the day's assignments, zero
// when the day is empty.
func (s *Snapshot) latestEnd() time.Time {
	var latest time.Time
	for _, a := range s.Assignments {
		if a.EndTime.After(latest) {
			latest = a.EndTime
		}
	}
	return latest
}

// Placement is the (room, surgeon, interval) a winning tactic selected.
type Placement struct {
	RoomID    uuid.UUID `json:"room_id"`
	SurgeonID uuid.UUID `json:"surgeon_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Conflict kinds recorded on an outcome.
const (
	ConflictPriorityBump = "priority_bump"
)

// ConflictRecord explains, for staff, why an existing surgery was affected.
type ConflictRecord struct {
	Kind      string    `json:"kind"`
	SurgeryID uuid.UUID `json:"surgery_id"`
	Reason    string    `json:"reason"`
}

// Tactic names reported on outcomes.
const (
	TacticBackupRoom   = "backup_room"
	TacticPriorityBump = "priority_bump"
	TacticExtendHours  = "extend_hours"
	TacticManualReview = "manual_review"
)

// InsertionOutcome is the engine's answer for one emergency request. A failed
// insertion is an expected business outcome, not an error: Success is false,
// FailureReason says why, and SurgeryID still identifies the emergency case,
// which survives as a valid unscheduled record.
type InsertionOutcome struct {
	Success          bool             `json:"success"`
	SurgeryID        uuid.UUID        `json:"surgery_id"`
	Placement        *Placement       `json:"placement,omitempty"`
	BumpedSurgeryIDs []uuid.UUID      `json:"bumped_surgery_ids,omitempty"`
	Conflicts        []ConflictRecord `json:"conflicts,omitempty"`
	Tactic           string           `json:"tactic,omitempty"`
	OvertimeRequired bool             `json:"overtime_required"`
	FailureReason    string           `json:"failure_reason,omitempty"`
	WaitMins         int              `json:"wait_mins"`
	DisruptionScore  float64          `json:"disruption_score"`
	ProcessingMs     int64            `json:"processing_ms"`
	NotifiedStaff    []uuid.UUID      `json:"notified_staff,omitempty"`
}
