package pubsub

import (
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/mauv0809/fifa-rivalry/internal/model"
)

type client struct {
	client *pubsub.Client
}

// Handler consumes the raw msgpack payload of one message.
type Handler func(data []byte) error

// LocalClient delivers messages to in-process subscribers, synchronously by
// default or from a single background worker after WithAsyncDelivery.
type LocalClient struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	queue    chan localMessage
	done     chan struct{}
	closed   bool
}

type localMessage struct {
	topic    EventType
	data     []byte
	handlers []Handler
}

// EventType represents the type of event/message sent via pubsub. It doubles
// as the topic name.
type EventType string

const (
	EventMatchResult    EventType = "match-result"
	EventMatchCorrected EventType = "match-corrected"
	EventMatchDeleted   EventType = "match-deleted"
)

// Topics lists every event type the service publishes.
var Topics = []EventType{EventMatchResult, EventMatchCorrected, EventMatchDeleted}

// MatchEvent is published after every successful match write.
// Previous goals are only set for corrections.
type MatchEvent struct {
	Type                 EventType       `msgpack:"type"`
	Match                model.MatchView `msgpack:"match"`
	PreviousPlayer1Goals int             `msgpack:"previous_player1_goals"`
	PreviousPlayer2Goals int             `msgpack:"previous_player2_goals"`
	OccurredAt           time.Time       `msgpack:"occurred_at"`
}
