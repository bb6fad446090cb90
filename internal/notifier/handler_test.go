package notifier_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/mauv0809/fifa-rivalry/internal/model"
	"github.com/mauv0809/fifa-rivalry/internal/notifier"
	"github.com/mauv0809/fifa-rivalry/internal/pubsub"
)

func TestEventHandlerForwardsDecodedEvent(t *testing.T) {
	n := notifier.NewMock()
	local := pubsub.NewLocal()
	local.Subscribe(pubsub.EventMatchResult, notifier.EventHandler(n, local, true))

	event := &pubsub.MatchEvent{
		Type:  pubsub.EventMatchResult,
		Match: model.MatchView{ID: "m1", Player1Name: "Alice", Player2Name: "Bob", Player1Goals: 2},
	}
	require.NoError(t, local.SendMessage(pubsub.EventMatchResult, event))

	require.Len(t, n.SendMatchEventCalls, 1)
	call := n.SendMatchEventCalls[0]
	assert.True(t, call.DryRun)
	assert.Equal(t, "m1", call.Event.Match.ID)
	assert.Equal(t, 2, call.Event.Match.Player1Goals)
}

func TestEventHandlerReportsFailures(t *testing.T) {
	n := notifier.NewMock()
	n.SendMatchEventFunc = func(event *pubsub.MatchEvent, dryRun bool) error {
		return errors.New("slack down")
	}
	handler := notifier.EventHandler(n, pubsub.NewMock(), false)

	data, err := msgpack.Marshal(&pubsub.MatchEvent{Type: pubsub.EventMatchDeleted})
	require.NoError(t, err)
	assert.Error(t, handler(data))

	assert.Error(t, handler([]byte{0xc1}), "invalid msgpack must not reach the notifier")
	assert.Len(t, n.SendMatchEventCalls, 1)
}
