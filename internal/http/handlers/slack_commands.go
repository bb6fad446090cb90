package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"

	"github.com/mauv0809/fifa-rivalry/internal/league"
	"github.com/mauv0809/fifa-rivalry/internal/model"
	"github.com/mauv0809/fifa-rivalry/internal/notifier"
)

var (
	versusSeparator = regexp.MustCompile(`(?i)\s+(?:vs\.?|v)\s+`)
	versusWord      = regexp.MustCompile(`(?i)^(?:vs\.?|v)$`)
)

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// respondWithFormatted checks the notifier output is a Slack message before writing it.
func respondWithFormatted(w http.ResponseWriter, msg any, err error) {
	if err != nil {
		http.Error(w, "Failed to format response", http.StatusInternalServerError)
		log.Error("Failed to format slack response", "error", err)
		return
	}
	slackMsg, ok := msg.(slack.Message)
	if !ok {
		http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
		log.Error("Failed to cast message to slack.Message")
		return
	}
	respondWithSlackMsg(w, slackMsg)
}

// parseHeadToHeadText splits "Alice vs Bob" into both names. Two bare
// single-word names are accepted too.
func parseHeadToHeadText(text string) (string, string, bool) {
	text = strings.TrimSpace(text)
	if parts := versusSeparator.Split(text, 2); len(parts) == 2 {
		a, b := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		return a, b, a != "" && b != ""
	}
	if fields := strings.Fields(text); len(fields) == 2 && !versusWord.MatchString(fields[0]) && !versusWord.MatchString(fields[1]) {
		return fields[0], fields[1], true
	}
	return "", "", false
}

func StandingsCommandHandler(svc *league.Service, notifier notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := svc.Standings(r.Context())
		if err != nil {
			http.Error(w, "Failed to get standings", http.StatusInternalServerError)
			log.Error("Failed to get standings", "error", err)
			return
		}
		msg, err := notifier.FormatStandingsResponse(players)
		respondWithFormatted(w, msg, err)
	}
}

func PlayerStatsCommandHandler(svc *league.Service, notifier notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		playerName := strings.TrimSpace(r.FormValue("text"))
		if playerName == "" {
			http.Error(w, "Player name is required.", http.StatusBadRequest)
			return
		}

		log.Info("Received player stats command", "player", playerName)
		stats, err := svc.PlayerStatsByName(r.Context(), playerName)
		var msg any
		switch {
		case errors.Is(err, model.ErrNotFound):
			log.Warn("Could not find player stats", "player", playerName)
			msg, err = notifier.FormatPlayerNotFoundResponse(playerName)
		case err != nil:
			http.Error(w, "Failed to get player stats", http.StatusInternalServerError)
			log.Error("Failed to get player stats", "error", err)
			return
		default:
			msg, err = notifier.FormatPlayerStatsResponse(stats, playerName)
		}
		respondWithFormatted(w, msg, err)
	}
}

func HeadToHeadCommandHandler(svc *league.Service, notifier notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		nameA, nameB, ok := parseHeadToHeadText(r.FormValue("text"))
		if !ok {
			http.Error(w, "Usage: /head-to-head <player> vs <player>", http.StatusBadRequest)
			return
		}

		log.Info("Received head-to-head command", "player1", nameA, "player2", nameB)
		var ids [2]string
		for i, name := range []string{nameA, nameB} {
			p, err := svc.FindPlayerByName(r.Context(), name)
			if errors.Is(err, model.ErrNotFound) {
				msg, err := notifier.FormatPlayerNotFoundResponse(name)
				respondWithFormatted(w, msg, err)
				return
			}
			if err != nil {
				http.Error(w, "Failed to look up player", http.StatusInternalServerError)
				log.Error("Failed to look up player", "player", name, "error", err)
				return
			}
			ids[i] = p.ID
		}

		stats, err := svc.HeadToHead(r.Context(), ids[0], ids[1])
		if err != nil {
			http.Error(w, "Failed to get head-to-head stats", http.StatusInternalServerError)
			log.Error("Failed to get head-to-head stats", "error", err)
			return
		}
		msg, err := notifier.FormatHeadToHeadResponse(stats)
		respondWithFormatted(w, msg, err)
	}
}
