package scheduling

import "time"

// waitMins is the minutes between arrival and the chosen start, floored at
// zero. Only meaningful for successful outcomes.
func waitMins(arrival, start time.Time) int {
	m := int(start.Sub(arrival) / time.Minute)
	if m < 0 {
		return 0
	}
	return m
}

// disruptionScore condenses how much an insertion perturbed the existing plan
// into a [0,1] scalar. It is the mean of the factors that apply: bumped
// cases at 0.3 each (capped at 1.0), a flat 0.4 when overtime was required,
// and resolved conflicts at 0.2 each (capped at 0.6). An insertion that
// touched nothing scores exactly 0.
func disruptionScore(bumpedCount, conflictCount int, overtime bool) float64 {
	var sum float64
	var n int

	if bumpedCount > 0 {
		f := float64(bumpedCount) * 0.3
		if f > 1.0 {
			f = 1.0
		}
		sum += f
		n++
	}
	if overtime {
		sum += 0.4
		n++
	}
	if conflictCount > 0 {
		f := float64(conflictCount) * 0.2
		if f > 0.6 {
			f = 0.6
		}
		sum += f
		n++
	}
	if n == 0 {
		return 0.0
	}

	score := sum / float64(n)
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}
