package scheduling

import "fmt"

// PriorityTier classifies an emergency request. The tier governs which
// resolution tactics are tried, in what order, and how long the patient may
// acceptably wait.
type PriorityTier string

const (
	TierImmediate  PriorityTier = "immediate"
	TierUrgent     PriorityTier = "urgent"
	TierSemiUrgent PriorityTier = "semi_urgent"
	TierScheduled  PriorityTier = "scheduled"
)

// ParseTier maps a wire value to a PriorityTier.
func ParseTier(s string) (PriorityTier, error) {
	switch PriorityTier(s) {
	case TierImmediate, TierUrgent, TierSemiUrgent, TierScheduled:
		return PriorityTier(s), nil
	case "":
		return TierScheduled, nil
	default:
		return "", fmt.Errorf("unknown priority tier: %s", s)
	}
}

// Weight returns the tier's fixed priority weight. Bump candidates are only
// eligible when their urgency weight is strictly below this value.
func (t PriorityTier) Weight() float64 {
	switch t {
	case TierImmediate:
		return 1.0
	case TierUrgent:
		return 0.8
	case TierSemiUrgent:
		return 0.6
	default:
		return 0.4
	}
}

// MaxWaitMins returns the tier's wait-time service target in minutes.
func (t PriorityTier) MaxWaitMins() int {
	switch t {
	case TierImmediate:
		return 15
	case TierUrgent:
		return 60
	case TierSemiUrgent:
		return 240
	default:
		return 1440
	}
}

// Urgency returns the urgency level recorded on a surgery created for this
// tier.
func (t PriorityTier) Urgency() Urgency {
	switch t {
	case TierImmediate:
		return UrgencyEmergency
	case TierUrgent:
		return UrgencyHigh
	case TierSemiUrgent:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// Urgency is the priority level carried by an existing surgery. It is the
// single source of truth for urgency weights; bump-candidate ranking reads
// weights from here and nowhere else.
type Urgency string

const (
	UrgencyEmergency Urgency = "emergency"
	UrgencyHigh      Urgency = "high"
	UrgencyMedium    Urgency = "medium"
	UrgencyLow       Urgency = "low"
)

// Weight returns the urgency's rank weight for bump-candidate selection.
// Unknown values rank lowest.
func (u Urgency) Weight() float64 {
	switch u {
	case UrgencyEmergency:
		return 1.0
	case UrgencyHigh:
		return 0.8
	case UrgencyMedium:
		return 0.5
	case UrgencyLow:
		return 0.3
	default:
		return 0.3
	}
}
