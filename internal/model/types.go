package model

import "time"

// UnknownPlayerName is shown in place of a player that can no longer be resolved.
const UnknownPlayerName = "Unknown Player"

// Player is a registered player together with their running totals.
type Player struct {
	ID             string `json:"id" db:"id"`
	Name           string `json:"name" db:"name"`
	TotalMatches   int    `json:"total_matches" db:"total_matches"`
	GoalsScored    int    `json:"total_goals_scored" db:"total_goals_scored"`
	GoalsConceded  int    `json:"total_goals_conceded" db:"total_goals_conceded"`
	GoalDifference int    `json:"goal_difference" db:"goal_difference"`
	Wins           int    `json:"wins" db:"wins"`
	Losses         int    `json:"losses" db:"losses"`
	Draws          int    `json:"draws" db:"draws"`
	Points         int    `json:"points" db:"points"`
}

// Match is a single recorded game between two players.
type Match struct {
	ID           string    `json:"id"`
	Player1ID    string    `json:"player1_id"`
	Player2ID    string    `json:"player2_id"`
	Player1Goals int       `json:"player1_goals"`
	Player2Goals int       `json:"player2_goals"`
	Date         time.Time `json:"date"`
	Team1        string    `json:"team1"`
	Team2        string    `json:"team2"`
	TournamentID string    `json:"tournament_id,omitempty"`
}

// Involves reports whether the player took part in the match.
func (m Match) Involves(playerID string) bool {
	return m.Player1ID == playerID || m.Player2ID == playerID
}

// Opponent returns the id of the other player in the match.
func (m Match) Opponent(playerID string) string {
	if m.Player1ID == playerID {
		return m.Player2ID
	}
	return m.Player1ID
}

// MatchFilter narrows a match listing. Empty fields are ignored.
type MatchFilter struct {
	PlayerID     string
	TournamentID string
}

// MatchView is a match joined with the display names it references.
type MatchView struct {
	ID             string    `json:"id" msgpack:"id"`
	Player1ID      string    `json:"player1_id" msgpack:"player1_id"`
	Player2ID      string    `json:"player2_id" msgpack:"player2_id"`
	Player1Name    string    `json:"player1_name" msgpack:"player1_name"`
	Player2Name    string    `json:"player2_name" msgpack:"player2_name"`
	Player1Goals   int       `json:"player1_goals" msgpack:"player1_goals"`
	Player2Goals   int       `json:"player2_goals" msgpack:"player2_goals"`
	Date           time.Time `json:"date" msgpack:"date"`
	Team1          string    `json:"team1" msgpack:"team1"`
	Team2          string    `json:"team2" msgpack:"team2"`
	TournamentID   string    `json:"tournament_id,omitempty" msgpack:"tournament_id"`
	TournamentName string    `json:"tournament_name,omitempty" msgpack:"tournament_name"`
}

// Tournament groups matches played over a date range.
type Tournament struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Description  string    `json:"description,omitempty"`
	MatchesCount int       `json:"matches_count"`
}

// HeadToHeadStats is the record between two players, seen from Player1.
type HeadToHeadStats struct {
	Player1ID       string  `json:"player1_id"`
	Player2ID       string  `json:"player2_id"`
	Player1Name     string  `json:"player1_name"`
	Player2Name     string  `json:"player2_name"`
	TotalMatches    int     `json:"total_matches"`
	Player1Wins     int     `json:"player1_wins"`
	Player2Wins     int     `json:"player2_wins"`
	Draws           int     `json:"draws"`
	Player1Goals    int     `json:"player1_goals"`
	Player2Goals    int     `json:"player2_goals"`
	Player1WinRate  float64 `json:"player1_win_rate"`
	Player2WinRate  float64 `json:"player2_win_rate"`
	Player1AvgGoals float64 `json:"player1_avg_goals"`
	Player2AvgGoals float64 `json:"player2_avg_goals"`
}

// OpponentRecord names an opponent and how often something happened against them.
type OpponentRecord struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Count    int    `json:"count"`
}

// WinratePoint is the cumulative win rate at the end of one calendar day.
type WinratePoint struct {
	Date    string  `json:"date"`
	Winrate float64 `json:"winrate"`
}

// PlayerDetailedStats extends the stored totals with values derived from match history.
type PlayerDetailedStats struct {
	Player
	WinRate              float64         `json:"win_rate"`
	AverageGoalsScored   float64         `json:"average_goals_scored"`
	AverageGoalsConceded float64         `json:"average_goals_conceded"`
	HighestWinsAgainst   *OpponentRecord `json:"highest_wins_against"`
	HighestLossesAgainst *OpponentRecord `json:"highest_losses_against"`
	WinrateOverTime      []WinratePoint  `json:"winrate_over_time"`
}

// TournamentStanding is one row of a tournament table.
type TournamentStanding struct {
	PlayerID       string `json:"player_id"`
	PlayerName     string `json:"player_name"`
	TotalMatches   int    `json:"total_matches"`
	GoalsScored    int    `json:"total_goals_scored"`
	GoalsConceded  int    `json:"total_goals_conceded"`
	GoalDifference int    `json:"goal_difference"`
	Wins           int    `json:"wins"`
	Losses         int    `json:"losses"`
	Draws          int    `json:"draws"`
	Points         int    `json:"points"`
}
