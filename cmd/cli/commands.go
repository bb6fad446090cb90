package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/syohex/go-texttable"

	"github.com/mauv0809/fifa-rivalry/internal/league"
	"github.com/mauv0809/fifa-rivalry/internal/model"
)

var (
	matchTeam1      string
	matchTeam2      string
	matchTournament string
	matchDate       string
	matchPlayer     string
	reconcileRepair bool
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(headToHeadCmd)
	rootCmd.AddCommand(reconcileCmd)

	playersCmd.AddCommand(playersAddCmd, playersRenameCmd, playersRemoveCmd, playersStatsCmd)

	matchesRecordCmd.Flags().StringVar(&matchTeam1, "team1", "", "Team played by the first player")
	matchesRecordCmd.Flags().StringVar(&matchTeam2, "team2", "", "Team played by the second player")
	matchesRecordCmd.Flags().StringVar(&matchTournament, "tournament", "", "Tournament id the match belongs to")
	matchesRecordCmd.Flags().StringVar(&matchDate, "date", "", "Match time in RFC3339, defaults to now")
	matchesCmd.Flags().StringVar(&matchPlayer, "player", "", "Only list matches involving this player id")
	matchesCmd.AddCommand(matchesRecordCmd, matchesCorrectCmd, matchesRemoveCmd)

	reconcileCmd.Flags().BoolVar(&reconcileRepair, "repair", false, "Overwrite drifted aggregates with recomputed values")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Print the league table",
	RunE: func(cmd *cobra.Command, args []string) error {
		var players []model.Player
		if err := request(http.MethodGet, "/stats", nil, nil, &players); err != nil {
			return err
		}
		fmt.Print(standingsTable(players))
		return nil
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List registered players",
	RunE: func(cmd *cobra.Command, args []string) error {
		var players []model.Player
		if err := request(http.MethodGet, "/players", nil, nil, &players); err != nil {
			return err
		}
		tbl := &texttable.TextTable{}
		_ = tbl.SetHeader("ID", "Name", "Matches")
		for _, p := range players {
			_ = tbl.AddRow(p.ID, p.Name, strconv.Itoa(p.TotalMatches))
		}
		fmt.Print(tbl.Draw())
		return nil
	},
}

var playersAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a new player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var p model.Player
		if err := request(http.MethodPost, "/players", nil, map[string]string{"name": args[0]}, &p); err != nil {
			return err
		}
		fmt.Printf("Registered %s with id %s\n", p.Name, p.ID)
		return nil
	},
}

var playersRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a player",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return request(http.MethodPut, "/player/"+url.PathEscape(args[0]), nil, map[string]string{"name": args[1]}, nil)
	},
}

var playersRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete a player and every match they played",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return request(http.MethodDelete, "/player/"+url.PathEscape(args[0]), nil, nil, nil)
	},
}

var playersStatsCmd = &cobra.Command{
	Use:   "stats <id>",
	Short: "Show detailed statistics for a player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/player/" + url.PathEscape(args[0]) + "/stats")
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List recorded matches, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		query := url.Values{}
		if matchPlayer != "" {
			query.Set("player_id", matchPlayer)
		}
		var matches []model.MatchView
		if err := request(http.MethodGet, "/matches", query, nil, &matches); err != nil {
			return err
		}
		fmt.Print(matchesTable(matches))
		return nil
	},
}

var matchesRecordCmd = &cobra.Command{
	Use:   "record <player1-id> <player1-goals> <player2-id> <player2-goals>",
	Short: "Record a finished match",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		goals1, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid goals %q: %w", args[1], err)
		}
		goals2, err := strconv.Atoi(args[3])
		if err != nil {
			return fmt.Errorf("invalid goals %q: %w", args[3], err)
		}
		in := league.MatchInput{
			Player1ID:    args[0],
			Player2ID:    args[2],
			Player1Goals: goals1,
			Player2Goals: goals2,
			Team1:        matchTeam1,
			Team2:        matchTeam2,
			TournamentID: matchTournament,
		}
		if matchDate != "" {
			in.Date, err = time.Parse(time.RFC3339, matchDate)
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", matchDate, err)
			}
		}
		var m model.MatchView
		if err := request(http.MethodPost, "/matches", nil, in, &m); err != nil {
			return err
		}
		fmt.Printf("Recorded %s %d - %d %s (%s)\n", m.Player1Name, m.Player1Goals, m.Player2Goals, m.Player2Name, m.ID)
		return nil
	},
}

var matchesCorrectCmd = &cobra.Command{
	Use:   "correct <match-id> <player1-goals> <player2-goals>",
	Short: "Correct the score of a recorded match",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		goals1, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid goals %q: %w", args[1], err)
		}
		goals2, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid goals %q: %w", args[2], err)
		}
		body := map[string]int{"player1_goals": goals1, "player2_goals": goals2}
		return request(http.MethodPut, "/matches/"+url.PathEscape(args[0]), nil, body, nil)
	},
}

var matchesRemoveCmd = &cobra.Command{
	Use:   "remove <match-id>",
	Short: "Delete a recorded match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return request(http.MethodDelete, "/matches/"+url.PathEscape(args[0]), nil, nil, nil)
	},
}

var headToHeadCmd = &cobra.Command{
	Use:   "h2h <player1-id> <player2-id>",
	Short: "Show the record between two players",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/head-to-head/" + url.PathEscape(args[0]) + "/" + url.PathEscape(args[1]))
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Audit player aggregates against the match log",
	RunE: func(cmd *cobra.Command, args []string) error {
		query := url.Values{}
		if reconcileRepair {
			query.Set("repair", "true")
		}
		return request(http.MethodPost, "/admin/reconcile", query, nil, nil)
	},
}

func standingsTable(players []model.Player) string {
	tbl := &texttable.TextTable{}
	_ = tbl.SetHeader("#", "Name", "P", "W", "D", "L", "GF", "GA", "GD", "Pts")
	for i, p := range players {
		_ = tbl.AddRow(
			strconv.Itoa(i+1),
			p.Name,
			strconv.Itoa(p.TotalMatches),
			strconv.Itoa(p.Wins),
			strconv.Itoa(p.Draws),
			strconv.Itoa(p.Losses),
			strconv.Itoa(p.GoalsScored),
			strconv.Itoa(p.GoalsConceded),
			fmt.Sprintf("%+d", p.GoalDifference),
			strconv.Itoa(p.Points),
		)
	}
	return tbl.Draw()
}

func matchesTable(matches []model.MatchView) string {
	tbl := &texttable.TextTable{}
	_ = tbl.SetHeader("Date", "Home", "Score", "Away", "ID")
	for _, m := range matches {
		_ = tbl.AddRow(
			m.Date.Format("2006-01-02 15:04"),
			m.Player1Name,
			fmt.Sprintf("%d - %d", m.Player1Goals, m.Player2Goals),
			m.Player2Name,
			m.ID,
		)
	}
	return tbl.Draw()
}
