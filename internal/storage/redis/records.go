package redis

import (
	"time"

	"github.com/mauv0809/fifa-rivalry/internal/model"
)

// Hash layouts. Dates are unix nanoseconds.

type playerRecord struct {
	ID             string `redis:"id"`
	Name           string `redis:"name"`
	TotalMatches   int    `redis:"total_matches"`
	GoalsScored    int    `redis:"total_goals_scored"`
	GoalsConceded  int    `redis:"total_goals_conceded"`
	GoalDifference int    `redis:"goal_difference"`
	Wins           int    `redis:"wins"`
	Losses         int    `redis:"losses"`
	Draws          int    `redis:"draws"`
	Points         int    `redis:"points"`
}

func (r playerRecord) toModel() model.Player {
	return model.Player{
		ID:             r.ID,
		Name:           r.Name,
		TotalMatches:   r.TotalMatches,
		GoalsScored:    r.GoalsScored,
		GoalsConceded:  r.GoalsConceded,
		GoalDifference: r.GoalDifference,
		Wins:           r.Wins,
		Losses:         r.Losses,
		Draws:          r.Draws,
		Points:         r.Points,
	}
}

type matchRecord struct {
	ID           string `redis:"id"`
	Player1ID    string `redis:"player1_id"`
	Player2ID    string `redis:"player2_id"`
	Player1Goals int    `redis:"player1_goals"`
	Player2Goals int    `redis:"player2_goals"`
	Date         int64  `redis:"date"`
	Team1        string `redis:"team1"`
	Team2        string `redis:"team2"`
	TournamentID string `redis:"tournament_id"`
}

func newMatchRecord(m *model.Match) matchRecord {
	return matchRecord{
		ID:           m.ID,
		Player1ID:    m.Player1ID,
		Player2ID:    m.Player2ID,
		Player1Goals: m.Player1Goals,
		Player2Goals: m.Player2Goals,
		Date:         m.Date.UnixNano(),
		Team1:        m.Team1,
		Team2:        m.Team2,
		TournamentID: m.TournamentID,
	}
}

func (r matchRecord) toModel() model.Match {
	return model.Match{
		ID:           r.ID,
		Player1ID:    r.Player1ID,
		Player2ID:    r.Player2ID,
		Player1Goals: r.Player1Goals,
		Player2Goals: r.Player2Goals,
		Date:         time.Unix(0, r.Date).UTC(),
		Team1:        r.Team1,
		Team2:        r.Team2,
		TournamentID: r.TournamentID,
	}
}

type tournamentRecord struct {
	ID          string `redis:"id"`
	Name        string `redis:"name"`
	Slug        string `redis:"slug"`
	StartDate   int64  `redis:"start_date"`
	EndDate     int64  `redis:"end_date"`
	Description string `redis:"description"`
}

func (r tournamentRecord) toModel(matches int) model.Tournament {
	return model.Tournament{
		ID:           r.ID,
		Name:         r.Name,
		Slug:         r.Slug,
		StartDate:    time.Unix(0, r.StartDate).UTC(),
		EndDate:      time.Unix(0, r.EndDate).UTC(),
		Description:  r.Description,
		MatchesCount: matches,
	}
}

// dateScore keeps zset scores exact within float64 precision; finer ordering
// is restored after loading.
func dateScore(t time.Time) float64 {
	return float64(t.UnixMilli())
}
