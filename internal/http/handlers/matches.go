package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/mauv0809/fifa-rivalry/internal/league"
	"github.com/mauv0809/fifa-rivalry/internal/model"
)

type scoreRequest struct {
	Player1Goals *int `json:"player1_goals"`
	Player2Goals *int `json:"player2_goals"`
}

func RecordMatchHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in league.MatchInput
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err)
			return
		}
		match, err := svc.RecordMatch(r.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, match)
	}
}

func ListMatchesHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		matches, err := svc.ListMatches(r.Context(), model.MatchFilter{
			PlayerID:     q.Get("player_id"),
			TournamentID: q.Get("tournament_id"),
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

func GetMatchHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		match, err := svc.GetMatch(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, match)
	}
}

// UpdateMatchHandler corrects the score of a match. Both goal counts are
// required so a partial body cannot silently zero one side.
func UpdateMatchHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scoreRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.Player1Goals == nil || req.Player2Goals == nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "player1_goals and player2_goals are required"})
			return
		}
		match, err := svc.UpdateMatchScore(r.Context(), mux.Vars(r)["id"], *req.Player1Goals, *req.Player2Goals)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, match)
	}
}

func DeleteMatchHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		log.Info("Received request to delete match", "matchID", id)
		if err := svc.DeleteMatch(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Match deleted successfully"})
	}
}

func HeadToHeadHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		stats, err := svc.HeadToHead(r.Context(), vars["player1"], vars["player2"])
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}
