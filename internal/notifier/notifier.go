package notifier

import (
	"github.com/mauv0809/fifa-rivalry/internal/model"
	"github.com/mauv0809/fifa-rivalry/internal/pubsub"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For recorded, corrected and deleted matches
	SendMatchEvent(event *pubsub.MatchEvent, dryRun bool) error
	// For scheduled or on-demand table posts
	SendStandings(players []model.Player, dryRun bool) error

	// For formatting responses for slash commands
	FormatStandingsResponse(players []model.Player) (any, error)
	FormatPlayerStatsResponse(stats *model.PlayerDetailedStats, query string) (any, error)
	FormatPlayerNotFoundResponse(query string) (any, error)
	FormatHeadToHeadResponse(stats *model.HeadToHeadStats) (any, error)
}
