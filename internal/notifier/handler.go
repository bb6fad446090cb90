package notifier

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/mauv0809/fifa-rivalry/internal/pubsub"
)

// EventHandler decodes a match event with decoder and forwards it to n.
// The same handler serves in-process subscriptions and Pub/Sub pushes.
func EventHandler(n Notifier, decoder pubsub.PubSubClient, dryRun bool) pubsub.Handler {
	return func(data []byte) error {
		var event pubsub.MatchEvent
		if err := decoder.ProcessMessage(data, &event); err != nil {
			return fmt.Errorf("decode match event: %w", err)
		}
		log.Debug("Handling match event", "type", event.Type, "matchID", event.Match.ID)
		return n.SendMatchEvent(&event, dryRun)
	}
}
