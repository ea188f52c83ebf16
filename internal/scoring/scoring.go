// Package scoring computes points for submitted answers. Both variants are
// pure functions; callers own persistence and accumulation of totals.
package scoring

import "math"

const (
	// MaxPoints is awarded for a correct answer at elapsed time zero.
	MaxPoints = 1000

	// TermoTimeLimit is the fixed time budget of a word round, in seconds.
	TermoTimeLimit = 60

	// TermoAttemptPenalty is subtracted from the elapsed time once per
	// failed guess before the ratio is computed.
	TermoAttemptPenalty = 5

	// TermoMaxAttempts is the guess limit of a word round.
	TermoMaxAttempts = 6
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ratioPoints(elapsed, limit float64) int {
	ratio := clamp(1-elapsed/limit, 0, 1)
	return int(math.Round(MaxPoints * ratio))
}

// Quiz scores a quiz answer: zero when incorrect or the budget is not
// positive, otherwise proportional to the remaining fraction of the time
// budget. Elapsed time is clamped into [0, limit] first, so late or negative
// submissions cannot produce out-of-range scores.
func Quiz(correct bool, timeTaken, timeLimit float64) int {
	if !correct || timeLimit <= 0 {
		return 0
	}
	return ratioPoints(clamp(timeTaken, 0, timeLimit), timeLimit)
}

// TermoEffectiveTime clamps the elapsed time into the round budget and then
// refunds the per-attempt penalty for each failed guess.
func TermoEffectiveTime(timeTaken float64, failedAttempts int) float64 {
	return clamp(timeTaken, 0, TermoTimeLimit) - float64(failedAttempts*TermoAttemptPenalty)
}

// Termo scores a word round. Correctness is "solved within the attempt
// limit", not an option match.
func Termo(solved bool, timeTaken float64, failedAttempts int) int {
	if !solved {
		return 0
	}
	return ratioPoints(TermoEffectiveTime(timeTaken, failedAttempts), TermoTimeLimit)
}
