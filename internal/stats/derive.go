package stats

import (
	"sort"

	"github.com/mauv0809/fifa-rivalry/internal/model"
)

// DateLayout is the calendar-day format used in win rate series.
const DateLayout = "2006-01-02"

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

// chronological returns a copy of matches ordered by date, ties broken by id.
func chronological(matches []model.Match) []model.Match {
	out := make([]model.Match, len(matches))
	copy(out, matches)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// HeadToHead tallies every match between a and b from a's perspective.
// Matches not played between exactly these two players are ignored.
func HeadToHead(a, b model.Player, matches []model.Match) model.HeadToHeadStats {
	h := model.HeadToHeadStats{
		Player1ID:   a.ID,
		Player2ID:   b.ID,
		Player1Name: a.Name,
		Player2Name: b.Name,
	}
	for _, m := range matches {
		if !m.Involves(a.ID) || m.Opponent(a.ID) != b.ID {
			continue
		}
		s := Perspective(m, a.ID)
		h.TotalMatches++
		h.Player1Goals += s.For
		h.Player2Goals += s.Against
		r := Outcome(s.For, s.Against)
		h.Player1Wins += r.Win
		h.Player2Wins += r.Loss
		h.Draws += r.Draw
	}
	h.Player1WinRate = ratio(h.Player1Wins, h.TotalMatches)
	h.Player2WinRate = ratio(h.Player2Wins, h.TotalMatches)
	h.Player1AvgGoals = ratio(h.Player1Goals, h.TotalMatches)
	h.Player2AvgGoals = ratio(h.Player2Goals, h.TotalMatches)
	return h
}

// Detailed wraps the stored aggregate of p with values derived from its match
// history. names resolves opponent ids; unknown ids show as the placeholder.
//
// Rates come from the stored aggregate, the opponent records and the series
// from the matches. When two opponents share the highest count, the one that
// reached it first in date order is reported.
func Detailed(p model.Player, matches []model.Match, names map[string]string) model.PlayerDetailedStats {
	d := model.PlayerDetailedStats{
		Player:               p,
		WinRate:              ratio(p.Wins, p.TotalMatches),
		AverageGoalsScored:   ratio(p.GoalsScored, p.TotalMatches),
		AverageGoalsConceded: ratio(p.GoalsConceded, p.TotalMatches),
	}

	ordered := chronological(matches)
	winsAgainst := make(map[string]int)
	lossesAgainst := make(map[string]int)
	var bestWin, bestLoss string
	for _, m := range ordered {
		if !m.Involves(p.ID) {
			continue
		}
		opp := m.Opponent(p.ID)
		s := Perspective(m, p.ID)
		switch r := Outcome(s.For, s.Against); {
		case r.Win == 1:
			winsAgainst[opp]++
			if bestWin == "" || winsAgainst[opp] > winsAgainst[bestWin] {
				bestWin = opp
			}
		case r.Loss == 1:
			lossesAgainst[opp]++
			if bestLoss == "" || lossesAgainst[opp] > lossesAgainst[bestLoss] {
				bestLoss = opp
			}
		}
	}
	if bestWin != "" {
		d.HighestWinsAgainst = opponentRecord(bestWin, winsAgainst[bestWin], names)
	}
	if bestLoss != "" {
		d.HighestLossesAgainst = opponentRecord(bestLoss, lossesAgainst[bestLoss], names)
	}
	d.WinrateOverTime = WinrateOverTime(p.ID, ordered)
	return d
}

func opponentRecord(id string, count int, names map[string]string) *model.OpponentRecord {
	name, ok := names[id]
	if !ok {
		name = model.UnknownPlayerName
	}
	return &model.OpponentRecord{PlayerID: id, Name: name, Count: count}
}

// WinrateOverTime emits one point per calendar day (UTC) the player played,
// holding the cumulative win rate over every match up to the end of that day.
func WinrateOverTime(playerID string, matches []model.Match) []model.WinratePoint {
	points := []model.WinratePoint{}
	var played, won int
	for _, m := range chronological(matches) {
		if !m.Involves(playerID) {
			continue
		}
		played++
		s := Perspective(m, playerID)
		won += Outcome(s.For, s.Against).Win

		day := m.Date.UTC().Format(DateLayout)
		rate := ratio(won, played)
		if n := len(points); n > 0 && points[n-1].Date == day {
			points[n-1].Winrate = rate
			continue
		}
		points = append(points, model.WinratePoint{Date: day, Winrate: rate})
	}
	return points
}

// Recompute rebuilds a player's totals from the match log.
func Recompute(playerID string, matches []model.Match) Fields {
	var f Fields
	for _, m := range matches {
		if !m.Involves(playerID) {
			continue
		}
		f = f.Add(Delta(KindCreate, Score{}, Perspective(m, playerID)))
	}
	return f
}

// TournamentStandings builds a table from a tournament's matches, ordered by
// points, goal difference, goals scored and finally name.
func TournamentStandings(matches []model.Match, names map[string]string) []model.TournamentStanding {
	totals := make(map[string]Fields)
	for _, m := range matches {
		for _, id := range []string{m.Player1ID, m.Player2ID} {
			totals[id] = totals[id].Add(Delta(KindCreate, Score{}, Perspective(m, id)))
		}
	}

	table := make([]model.TournamentStanding, 0, len(totals))
	for id, f := range totals {
		name, ok := names[id]
		if !ok {
			name = model.UnknownPlayerName
		}
		table = append(table, model.TournamentStanding{
			PlayerID:       id,
			PlayerName:     name,
			TotalMatches:   f.Matches,
			GoalsScored:    f.GoalsScored,
			GoalsConceded:  f.GoalsConceded,
			GoalDifference: f.GoalDifference,
			Wins:           f.Wins,
			Losses:         f.Losses,
			Draws:          f.Draws,
			Points:         f.Points,
		})
	}
	sort.Slice(table, func(i, j int) bool {
		a, b := table[i], table[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsScored != b.GoalsScored {
			return a.GoalsScored > b.GoalsScored
		}
		if a.PlayerName != b.PlayerName {
			return a.PlayerName < b.PlayerName
		}
		return a.PlayerID < b.PlayerID
	})
	return table
}
