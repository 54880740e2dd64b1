package scheduling

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/AnasAkhomach/Surgical-Scheduling-Optimizer-sub001/internal/domain/surgery"
)

// bumpPreferredWindow bounds how far a bump candidate's start may sit from a
// caller-preferred start time.
const bumpPreferredWindow = 2 * time.Hour

// selectBump is the "evict a lower-priority case" tactic. Candidates are the
// snapshot assignments whose surgery's urgency weight is strictly below the
// requesting tier's weight, ranked ascending by (weight, surgery duration) so
// the lowest-priority, shortest case goes first. A candidate is accepted when
// its window fits the requested duration, its start honors any preferred
// start, and a surgeon can cover the emergency once the candidate is evicted.
func selectBump(req *EmergencyRequest, snap *Snapshot, surgeons []*surgery.Surgeon) tacticResult {
	if !req.AllowBumping {
		return tacticFailure("Bumping not allowed")
	}

	tierWeight := req.Tier.Weight()
	var candidates []*Assignment
	for _, a := range snap.Assignments {
		if a.Urgency.Weight() < tierWeight {
			candidates = append(candidates, a)
		}
	}
	if len(candidates) == 0 {
		return tacticFailure("No lower-priority case eligible for bumping")
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		wi, wj := candidates[i].Urgency.Weight(), candidates[j].Urgency.Weight()
		if wi != wj {
			return wi < wj
		}
		return candidates[i].SurgeryDurationMins < candidates[j].SurgeryDurationMins
	})

	for _, cand := range candidates {
		if cand.windowMins() < req.DurationMins {
			continue
		}
		if req.PreferredStart != nil {
			gap := cand.StartTime.Sub(*req.PreferredStart)
			if gap < 0 {
				gap = -gap
			}
			if gap > bumpPreferredWindow {
				continue
			}
		}

		start := cand.StartTime
		end := start.Add(time.Duration(req.DurationMins) * time.Minute)
		remaining := snap.without(cand.ID)

		surgeonID, ok := coveringSurgeon(req, remaining, cand, surgeons, start, end)
		if !ok {
			continue
		}

		reason := fmt.Sprintf("displaced at %s by a %s-tier emergency case",
			cand.StartTime.Format("15:04"), req.Tier)
		return tacticResult{
			placement: &Placement{RoomID: cand.RoomID, SurgeonID: surgeonID, StartTime: start, EndTime: end},
			bumped:    []*Assignment{cand},
			conflicts: []ConflictRecord{{Kind: ConflictPriorityBump, SurgeryID: cand.SurgeryID, Reason: reason}},
		}
	}
	return tacticFailure("No bump candidate fits the requested window")
}

// coveringSurgeon picks who performs the emergency in the vacated slot. A
// required surgeon must be free there or the candidate is rejected; otherwise
// the first free surgeon in pool order is chosen. The evicted surgeon is
// always free in their own vacated window, so a pool containing them always
// yields a cover.
func coveringSurgeon(req *EmergencyRequest, remaining *Snapshot, cand *Assignment, surgeons []*surgery.Surgeon, start, end time.Time) (uuid.UUID, bool) {
	if req.RequiredSurgeonID != nil {
		id := *req.RequiredSurgeonID
		if isAvailable(remaining, cand.RoomID, id, start, end) {
			return id, true
		}
		return uuid.Nil, false
	}
	for _, sg := range surgeons {
		if isAvailable(remaining, cand.RoomID, sg.ID, start, end) {
			return sg.ID, true
		}
	}
	return uuid.Nil, false
}
