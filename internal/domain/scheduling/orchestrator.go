package scheduling

import (
	"github.com/AnasAkhomach/Surgical-Scheduling-Optimizer-sub001/internal/domain/surgery"
)

// Policy carries the schedule-shape knobs the engine needs. Values are
// minutes after midnight of the schedule day.
type Policy struct {
	DayEndMins           int
	OvertimeCutoffMins   int
	OvertimeBufferMins   int
	StrictSLAEnforcement bool
}

// DefaultPolicy is a 08:00-17:00 elective day with overtime until 23:00.
func DefaultPolicy() Policy {
	return Policy{
		DayEndMins:         17 * 60,
		OvertimeCutoffMins: 23 * 60,
		OvertimeBufferMins: 30,
	}
}

// tacticResult is the outcome of one tactic attempt. Exactly one of the two
// shapes is populated: a placement (with its side payload) on success, or a
// failure reason.
type tacticResult struct {
	placement    *Placement
	bumped       []*Assignment
	conflicts    []ConflictRecord
	overtime     bool
	manualReview bool
	reason       string
}

func (r tacticResult) ok() bool { return r.placement != nil }

func tacticFailure(reason string) tacticResult { return tacticResult{reason: reason} }

// tierTactics fixes, per tier, which tactics run and in what order. The order
// is never reordered at runtime.
var tierTactics = map[PriorityTier][]string{
	TierImmediate:  {TacticPriorityBump, TacticBackupRoom, TacticExtendHours},
	TierUrgent:     {TacticBackupRoom, TacticPriorityBump, TacticExtendHours},
	TierSemiUrgent: {TacticBackupRoom, TacticExtendHours, TacticPriorityBump},
	TierScheduled:  {TacticBackupRoom, TacticExtendHours, TacticManualReview},
}

// failureExhausted is the reason reported when every tactic in the tier's
// list has failed.
const failureExhausted = "No viable insertion strategy found"

// runTactics tries the tier's tactics strictly in order against the snapshot
// and returns the first success, or an exhaustion result naming the tactic
// that would need human follow-up. Failed tactics leave no side effects; all
// state lives in the returned value.
func runTactics(req *EmergencyRequest, snap *Snapshot, rooms []*surgery.OperatingRoom, surgeons []*surgery.Surgeon, policy Policy) (tacticResult, string) {
	order, ok := tierTactics[req.Tier]
	if !ok {
		order = tierTactics[TierScheduled]
	}

	for _, tactic := range order {
		var res tacticResult
		switch tactic {
		case TacticBackupRoom:
			res = findBackupSlot(req, snap, rooms, surgeons)
		case TacticPriorityBump:
			res = selectBump(req, snap, surgeons)
		case TacticExtendHours:
			res = findOvertimeSlot(req, snap, rooms, surgeons, policy)
		case TacticManualReview:
			// Terminal escalation: no placement, but the scheduling desk is
			// notified so a human can follow up.
			res = tacticResult{manualReview: true, reason: failureExhausted}
		}
		if res.ok() || res.manualReview {
			return res, tactic
		}
	}
	return tacticFailure(failureExhausted), ""
}
