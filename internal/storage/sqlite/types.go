package sqlite

import (
	"database/sql"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mauv0809/fifa-rivalry/internal/model"
)

// Store is the SQL implementation of league.Store. It works on both the local
// sqlite3 driver and the libsql driver used for Turso.
type Store struct {
	db *sqlx.DB
	mu sync.RWMutex
}

const playerColumns = `id, name, total_matches, total_goals_scored, total_goals_conceded, goal_difference, wins, losses, draws, points`

const matchColumns = `id, player1_id, player2_id, player1_goals, player2_goals, date, team1, team2, tournament_id`

const tournamentColumns = `t.id, t.name, t.slug, t.start_date, t.end_date, t.description,
	(SELECT COUNT(*) FROM matches m WHERE m.tournament_id = t.id) AS matches_count`

// matchRow mirrors the matches table. Dates are stored as unix nanoseconds.
type matchRow struct {
	ID           string         `db:"id"`
	Player1ID    string         `db:"player1_id"`
	Player2ID    string         `db:"player2_id"`
	Player1Goals int            `db:"player1_goals"`
	Player2Goals int            `db:"player2_goals"`
	Date         int64          `db:"date"`
	Team1        string         `db:"team1"`
	Team2        string         `db:"team2"`
	TournamentID sql.NullString `db:"tournament_id"`
}

func (r matchRow) toModel() model.Match {
	return model.Match{
		ID:           r.ID,
		Player1ID:    r.Player1ID,
		Player2ID:    r.Player2ID,
		Player1Goals: r.Player1Goals,
		Player2Goals: r.Player2Goals,
		Date:         time.Unix(0, r.Date).UTC(),
		Team1:        r.Team1,
		Team2:        r.Team2,
		TournamentID: r.TournamentID.String,
	}
}

type tournamentRow struct {
	ID           string `db:"id"`
	Name         string `db:"name"`
	Slug         string `db:"slug"`
	StartDate    int64  `db:"start_date"`
	EndDate      int64  `db:"end_date"`
	Description  string `db:"description"`
	MatchesCount int    `db:"matches_count"`
}

func (r tournamentRow) toModel() model.Tournament {
	return model.Tournament{
		ID:           r.ID,
		Name:         r.Name,
		Slug:         r.Slug,
		StartDate:    time.Unix(0, r.StartDate).UTC(),
		EndDate:      time.Unix(0, r.EndDate).UTC(),
		Description:  r.Description,
		MatchesCount: r.MatchesCount,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
