package scheduling

import (
	"time"

	"github.com/AnasAkhomach/Surgical-Scheduling-Optimizer-sub001/internal/domain/surgery"
)

// findBackupSlot is the "use an open room" tactic. Candidate start is the
// later of arrival and preferred start; rooms then surgeons are scanned in a
// fixed deterministic order and the first pair whose interval is free wins.
// This is a greedy first-fit, not a minimal-wait search across all pairs.
// The slot only counts when the implied wait stays within the effective
// ceiling.
func findBackupSlot(req *EmergencyRequest, snap *Snapshot, rooms []*surgery.OperatingRoom, surgeons []*surgery.Surgeon) tacticResult {
	if !req.AllowBackupRooms {
		return tacticFailure("Backup rooms not allowed")
	}

	start := req.candidateStart()
	end := start.Add(time.Duration(req.DurationMins) * time.Minute)

	waitMins := int(start.Sub(req.ArrivalTime) / time.Minute)
	if waitMins > req.maxWaitMins() {
		return tacticFailure("No free slot within the acceptable wait time")
	}

	for _, room := range rooms {
		for _, sg := range surgeons {
			if isAvailable(snap, room.ID, sg.ID, start, end) {
				return tacticResult{
					placement: &Placement{RoomID: room.ID, SurgeonID: sg.ID, StartTime: start, EndTime: end},
				}
			}
		}
	}
	return tacticFailure("No free slot in any room")
}

// findOvertimeSlot is the "extend hours" tactic. The candidate window is
// anchored after both the nominal day end and the day's latest committed
// assignment, separated by a turnover buffer, and must finish before the hard
// late cutoff.
func findOvertimeSlot(req *EmergencyRequest, snap *Snapshot, rooms []*surgery.OperatingRoom, surgeons []*surgery.Surgeon, policy Policy) tacticResult {
	if !req.AllowOvertime {
		return tacticFailure("Overtime not allowed")
	}

	anchor := snap.Date.Add(time.Duration(policy.DayEndMins) * time.Minute)
	if latest := snap.latestEnd(); latest.After(anchor) {
		anchor = latest
	}
	start := anchor.Add(time.Duration(policy.OvertimeBufferMins) * time.Minute)
	end := start.Add(time.Duration(req.DurationMins) * time.Minute)

	cutoff := snap.Date.Add(time.Duration(policy.OvertimeCutoffMins) * time.Minute)
	if end.After(cutoff) {
		return tacticFailure("No overtime slots available")
	}

	for _, room := range rooms {
		for _, sg := range surgeons {
			if isAvailable(snap, room.ID, sg.ID, start, end) {
				return tacticResult{
					placement: &Placement{RoomID: room.ID, SurgeonID: sg.ID, StartTime: start, EndTime: end},
					overtime:  true,
				}
			}
		}
	}
	return tacticFailure("No overtime slots available")
}
