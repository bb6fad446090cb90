package league

import (
	"time"

	"github.com/mauv0809/fifa-rivalry/internal/metrics"
	"github.com/mauv0809/fifa-rivalry/internal/model"
	"github.com/mauv0809/fifa-rivalry/internal/pubsub"
	"github.com/mauv0809/fifa-rivalry/internal/stats"
)

// Service owns every write to player aggregates and every derived read.
type Service struct {
	store   Store
	metrics metrics.Metrics
	events  pubsub.PubSubClient
	now     func() time.Time
}

// MatchInput is a match as submitted for recording. A zero Date means now.
type MatchInput struct {
	Player1ID    string    `json:"player1_id"`
	Player2ID    string    `json:"player2_id"`
	Player1Goals int       `json:"player1_goals"`
	Player2Goals int       `json:"player2_goals"`
	Team1        string    `json:"team1"`
	Team2        string    `json:"team2"`
	TournamentID string    `json:"tournament_id,omitempty"`
	Date         time.Time `json:"date,omitempty"`
}

// TournamentInput is a tournament as submitted for creation.
type TournamentInput struct {
	Name        string    `json:"name"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Description string    `json:"description,omitempty"`
}

// DeletePlayerResult reports what a player deletion cascaded to.
type DeletePlayerResult struct {
	PlayerID       string `json:"player_id"`
	DeletedMatches int    `json:"deleted_matches"`
}

// PlayerDrift is a player whose stored totals disagree with the match log.
type PlayerDrift struct {
	PlayerID string       `json:"player_id"`
	Name     string       `json:"name"`
	Stored   stats.Fields `json:"stored"`
	Expected stats.Fields `json:"expected"`
}

// ReconcileReport summarizes one consistency audit.
type ReconcileReport struct {
	PlayersChecked int           `json:"players_checked"`
	MatchesScanned int           `json:"matches_scanned"`
	Drift          []PlayerDrift `json:"drift"`
	Repaired       int           `json:"repaired"`
	// OrphanMatches reference at least one player that no longer exists.
	OrphanMatches int `json:"orphan_matches"`
}

func viewOf(m model.Match, players map[string]string, tournaments map[string]string) model.MatchView {
	v := model.MatchView{
		ID:           m.ID,
		Player1ID:    m.Player1ID,
		Player2ID:    m.Player2ID,
		Player1Name:  nameOr(players, m.Player1ID),
		Player2Name:  nameOr(players, m.Player2ID),
		Player1Goals: m.Player1Goals,
		Player2Goals: m.Player2Goals,
		Date:         m.Date,
		Team1:        m.Team1,
		Team2:        m.Team2,
		TournamentID: m.TournamentID,
	}
	if m.TournamentID != "" {
		v.TournamentName = tournaments[m.TournamentID]
	}
	return v
}

func nameOr(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return model.UnknownPlayerName
}
