// Package stats holds the pure arithmetic behind player aggregates: match
// outcomes, aggregate deltas, and the statistics derived from match history.
package stats

// Result is a one-hot outcome of a match from one player's perspective.
// Exactly one field is 1 for a played match; the zero value stands for
// "no match".
type Result struct {
	Win  int
	Loss int
	Draw int
}

// Outcome classifies a match for the side that scored goalsFor.
func Outcome(goalsFor, goalsAgainst int) Result {
	switch {
	case goalsFor > goalsAgainst:
		return Result{Win: 1}
	case goalsFor < goalsAgainst:
		return Result{Loss: 1}
	default:
		return Result{Draw: 1}
	}
}

// Points awarded for the result: three for a win, one for a draw.
func (r Result) Points() int {
	return 3*r.Win + r.Draw
}
