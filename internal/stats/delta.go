package stats

import "github.com/mauv0809/fifa-rivalry/internal/model"

// Kind tags the mutation a delta is computed for.
type Kind int

const (
	KindCreate Kind = iota
	KindEdit
	KindRemove
)

func (k Kind) String() string {
	switch k {
	case KindCreate:
		return "create"
	case KindEdit:
		return "edit"
	case KindRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Score is one side's view of a match.
type Score struct {
	For     int
	Against int
}

// Fields is a signed change (or an absolute value) for every aggregate
// column of a player.
type Fields struct {
	Matches        int `json:"total_matches"`
	GoalsScored    int `json:"total_goals_scored"`
	GoalsConceded  int `json:"total_goals_conceded"`
	GoalDifference int `json:"goal_difference"`
	Wins           int `json:"wins"`
	Losses         int `json:"losses"`
	Draws          int `json:"draws"`
	Points         int `json:"points"`
}

// Column names shared by every storage backend.
const (
	ColTotalMatches   = "total_matches"
	ColGoalsScored    = "total_goals_scored"
	ColGoalsConceded  = "total_goals_conceded"
	ColGoalDifference = "goal_difference"
	ColWins           = "wins"
	ColLosses         = "losses"
	ColDraws          = "draws"
	ColPoints         = "points"
)

// Pair is a column name and the value that belongs to it.
type Pair struct {
	Column string
	Value  int
}

// Pairs lists the fields in a fixed column order.
func (f Fields) Pairs() []Pair {
	return []Pair{
		{ColTotalMatches, f.Matches},
		{ColGoalsScored, f.GoalsScored},
		{ColGoalsConceded, f.GoalsConceded},
		{ColGoalDifference, f.GoalDifference},
		{ColWins, f.Wins},
		{ColLosses, f.Losses},
		{ColDraws, f.Draws},
		{ColPoints, f.Points},
	}
}

// IsZero reports whether applying f would change nothing.
func (f Fields) IsZero() bool {
	return f == Fields{}
}

// Add returns the field-wise sum.
func (f Fields) Add(o Fields) Fields {
	return Fields{
		Matches:        f.Matches + o.Matches,
		GoalsScored:    f.GoalsScored + o.GoalsScored,
		GoalsConceded:  f.GoalsConceded + o.GoalsConceded,
		GoalDifference: f.GoalDifference + o.GoalDifference,
		Wins:           f.Wins + o.Wins,
		Losses:         f.Losses + o.Losses,
		Draws:          f.Draws + o.Draws,
		Points:         f.Points + o.Points,
	}
}

// Neg returns the field-wise negation.
func (f Fields) Neg() Fields {
	return Fields{}.Sub(f)
}

// Sub returns f - o field by field.
func (f Fields) Sub(o Fields) Fields {
	return Fields{
		Matches:        f.Matches - o.Matches,
		GoalsScored:    f.GoalsScored - o.GoalsScored,
		GoalsConceded:  f.GoalsConceded - o.GoalsConceded,
		GoalDifference: f.GoalDifference - o.GoalDifference,
		Wins:           f.Wins - o.Wins,
		Losses:         f.Losses - o.Losses,
		Draws:          f.Draws - o.Draws,
		Points:         f.Points - o.Points,
	}
}

// contribution is what a single played match adds to a player's totals.
func contribution(s Score) Fields {
	r := Outcome(s.For, s.Against)
	return Fields{
		Matches:        1,
		GoalsScored:    s.For,
		GoalsConceded:  s.Against,
		GoalDifference: s.For - s.Against,
		Wins:           r.Win,
		Losses:         r.Loss,
		Draws:          r.Draw,
		Points:         r.Points(),
	}
}

// Delta returns the change to one player's aggregate for a mutation of kind.
// old is ignored for KindCreate and next is ignored for KindRemove; an absent
// side contributes nothing, which makes a removal the exact negation of the
// matching creation and an edit leave the match count untouched.
func Delta(kind Kind, old, next Score) Fields {
	var before, after Fields
	switch kind {
	case KindCreate:
		after = contribution(next)
	case KindEdit:
		before = contribution(old)
		after = contribution(next)
	case KindRemove:
		before = contribution(old)
	}
	return after.Sub(before)
}

// FieldsOf extracts the aggregate columns of a stored player.
func FieldsOf(p model.Player) Fields {
	return Fields{
		Matches:        p.TotalMatches,
		GoalsScored:    p.GoalsScored,
		GoalsConceded:  p.GoalsConceded,
		GoalDifference: p.GoalDifference,
		Wins:           p.Wins,
		Losses:         p.Losses,
		Draws:          p.Draws,
		Points:         p.Points,
	}
}

// Apply adds f to the player's totals in place.
func Apply(p *model.Player, f Fields) {
	p.TotalMatches += f.Matches
	p.GoalsScored += f.GoalsScored
	p.GoalsConceded += f.GoalsConceded
	p.GoalDifference += f.GoalDifference
	p.Wins += f.Wins
	p.Losses += f.Losses
	p.Draws += f.Draws
	p.Points += f.Points
}

// Perspective returns the score of m as seen by playerID.
func Perspective(m model.Match, playerID string) Score {
	if m.Player1ID == playerID {
		return Score{For: m.Player1Goals, Against: m.Player2Goals}
	}
	return Score{For: m.Player2Goals, Against: m.Player1Goals}
}

// MatchDeltas returns the create deltas for both sides of m.
func MatchDeltas(m model.Match) (p1, p2 Fields) {
	p1 = Delta(KindCreate, Score{}, Perspective(m, m.Player1ID))
	p2 = Delta(KindCreate, Score{}, Perspective(m, m.Player2ID))
	return p1, p2
}
