package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"

	"github.com/mauv0809/fifa-rivalry/internal/metrics"
	"github.com/mauv0809/fifa-rivalry/internal/model"
	"github.com/mauv0809/fifa-rivalry/internal/notifier"
	"github.com/mauv0809/fifa-rivalry/internal/pubsub"
)

const dateFormat = "Monday 02 Jan, 15:04"

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// Implement the Notifier interface
func (s *Notifier) SendMatchEvent(event *pubsub.MatchEvent, dryRun bool) error {
	msg := s.formatMatchEvent(event)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendStandings(players []model.Player, dryRun bool) error {
	msg := s.formatStandings(players)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// FormatStandingsResponse formats the league table for a slash command response.
func (s *Notifier) FormatStandingsResponse(players []model.Player) (any, error) {
	return s.formatStandings(players), nil
}

// FormatPlayerStatsResponse formats a player stats message for a slash command response.
func (s *Notifier) FormatPlayerStatsResponse(stats *model.PlayerDetailedStats, query string) (any, error) {
	return s.formatPlayerStats(stats, query), nil
}

// FormatPlayerNotFoundResponse formats a player not found message for a slash command response.
func (s *Notifier) FormatPlayerNotFoundResponse(query string) (any, error) {
	return s.formatPlayerNotFound(query), nil
}

// FormatHeadToHeadResponse formats a head-to-head record for a slash command response.
func (s *Notifier) FormatHeadToHeadResponse(stats *model.HeadToHeadStats) (any, error) {
	return s.formatHeadToHead(stats), nil
}

// formatMatchEvent creates the Slack message for a recorded, corrected or deleted match.
// It always has a header, a score section and a context line.
func (s *Notifier) formatMatchEvent(event *pubsub.MatchEvent) slack.Message {
	blocks := make([]slack.Block, 0)
	m := event.Match

	var header string
	switch event.Type {
	case pubsub.EventMatchCorrected:
		header = "✏️ Score corrected ✏️"
	case pubsub.EventMatchDeleted:
		header = "🗑️ Match removed 🗑️"
	default:
		header = "⚽ Match finished! ⚽"
	}
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", header, true, false)))

	scoreText := fmt.Sprintf("*%s* %d - %d *%s*", m.Player1Name, m.Player1Goals, m.Player2Goals, m.Player2Name)
	if m.Team1 != "" || m.Team2 != "" {
		scoreText += fmt.Sprintf("\n_%s vs %s_", orDash(m.Team1), orDash(m.Team2))
	}
	if event.Type != pubsub.EventMatchDeleted {
		switch {
		case m.Player1Goals > m.Player2Goals:
			scoreText += fmt.Sprintf("\n%s won! 🏆", m.Player1Name)
		case m.Player2Goals > m.Player1Goals:
			scoreText += fmt.Sprintf("\n%s won! 🏆", m.Player2Name)
		default:
			scoreText += "\nHonours even 🤝"
		}
	}
	if event.Type == pubsub.EventMatchCorrected {
		scoreText += fmt.Sprintf("\nPreviously %d - %d", event.PreviousPlayer1Goals, event.PreviousPlayer2Goals)
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", scoreText, false, false), nil, nil))

	contextText := fmt.Sprintf("Played %s", m.Date.Format(dateFormat))
	if m.TournamentName != "" {
		contextText += fmt.Sprintf(" | %s", m.TournamentName)
	}
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", contextText, true, false)))

	return slack.NewBlockMessage(blocks...)
}

// formatStandings creates a Slack message to display the league table.
func (s *Notifier) formatStandings(players []model.Player) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header
	headerText := slack.NewTextBlockObject("plain_text", "🏆 Standings 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(players) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No players yet. Go play some matches!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for i, p := range players {
		rank := i + 1
		var medal string
		switch rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}

		playerText := fmt.Sprintf("%d. %s %s\n> Points: %d | W/D/L: %d/%d/%d | Goals: %d-%d (%+d)",
			rank,
			medal,
			p.Name,
			p.Points,
			p.Wins,
			p.Draws,
			p.Losses,
			p.GoalsScored,
			p.GoalsConceded,
			p.GoalDifference,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playerText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerStats creates a Slack message to display a single player's stats.
func (s *Notifier) formatPlayerStats(stats *model.PlayerDetailedStats, query string) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := fmt.Sprintf("📊 Stats for %s 📊", stats.Name)
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", headerText, true, false)))

	playerText := fmt.Sprintf("> *Matches*: %d (%d W / %d D / %d L)\n> *Points*: %d\n> *Win %%*: %.2f%%\n> *Goals*: %d scored, %d conceded (%+d)\n> *Per match*: %.2f scored, %.2f conceded",
		stats.TotalMatches,
		stats.Wins,
		stats.Draws,
		stats.Losses,
		stats.Points,
		stats.WinRate*100,
		stats.GoalsScored,
		stats.GoalsConceded,
		stats.GoalDifference,
		stats.AverageGoalsScored,
		stats.AverageGoalsConceded,
	)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", playerText, false, false), nil, nil))

	var rivals []string
	if stats.HighestWinsAgainst != nil {
		rivals = append(rivals, fmt.Sprintf("Most wins against %s (%d)", stats.HighestWinsAgainst.Name, stats.HighestWinsAgainst.Count))
	}
	if stats.HighestLossesAgainst != nil {
		rivals = append(rivals, fmt.Sprintf("Most losses against %s (%d)", stats.HighestLossesAgainst.Name, stats.HighestLossesAgainst.Count))
	}
	if len(rivals) > 0 {
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", strings.Join(rivals, " | "), true, false)))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatHeadToHead creates a Slack message for the record between two players.
func (s *Notifier) formatHeadToHead(stats *model.HeadToHeadStats) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := fmt.Sprintf("⚔️ %s vs %s ⚔️", stats.Player1Name, stats.Player2Name)
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", headerText, true, false)))

	if stats.TotalMatches == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No matches between these two yet.", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*%s*\n%d wins | %d goals | %.2f per match", stats.Player1Name, stats.Player1Wins, stats.Player1Goals, stats.Player1AvgGoals), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*%s*\n%d wins | %d goals | %.2f per match", stats.Player2Name, stats.Player2Wins, stats.Player2Goals, stats.Player2AvgGoals), false, false),
	}
	summary := fmt.Sprintf("%d matches, %d draws", stats.TotalMatches, stats.Draws)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", summary, true, false), fields, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerNotFound creates a Slack message for when a player can't be resolved.
func (s *Notifier) formatPlayerNotFound(query string) slack.Message {
	text := fmt.Sprintf("Sorry, I couldn't find a player matching *%s*. Try a different name.", query)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
