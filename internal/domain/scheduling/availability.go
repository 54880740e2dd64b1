package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// overlaps reports whether two half-open intervals [s1,e1) and [s2,e2)
// conflict. A shared boundary instant is not a conflict.
func overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// isAvailable reports whether the (room, surgeon, interval) triple is free
// against the snapshot. Room exclusivity and surgeon exclusivity are
// independent checks; both must pass.
func isAvailable(snap *Snapshot, roomID, surgeonID uuid.UUID, start, end time.Time) bool {
	for _, a := range snap.Assignments {
		if a.RoomID == roomID && overlaps(a.StartTime, a.EndTime, start, end) {
			return false
		}
		if a.SurgeonID == surgeonID && overlaps(a.StartTime, a.EndTime, start, end) {
			return false
		}
	}
	return true
}
