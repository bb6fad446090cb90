package handlers

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/mauv0809/fifa-rivalry/internal/pubsub"
)

// pushEnvelope is the body Pub/Sub push subscriptions deliver.
type pushEnvelope struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data       string            `json:"data"`
		Attributes map[string]string `json:"attributes"`
		MessageID  string            `json:"messageId"`
	} `json:"message"`
}

// MatchEventPushHandler unwraps a push delivery and passes the msgpack
// payload to handle. A failing handler answers 500 so Pub/Sub redelivers.
func MatchEventPushHandler(handle pubsub.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received match event push", "body", string(bodyBytes))

		var envelope pushEnvelope
		if err := json.Unmarshal(bodyBytes, &envelope); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		rawData, err := base64.StdEncoding.DecodeString(envelope.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		if err := handle(rawData); err != nil {
			log.Error("Failed to handle match event", "error", err, "messageID", envelope.Message.MessageID)
			http.Error(w, "Failed to handle event", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}
