package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/mauv0809/fifa-rivalry/internal/league"
)

type playerRequest struct {
	Name string `json:"name"`
}

func RegisterPlayerHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req playerRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		player, err := svc.RegisterPlayer(r.Context(), req.Name)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, player)
	}
}

func ListPlayersHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := svc.ListPlayers(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func StandingsHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := svc.Standings(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func RenamePlayerHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req playerRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		player, err := svc.RenamePlayer(r.Context(), mux.Vars(r)["id"], req.Name)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, player)
	}
}

func DeletePlayerHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		log.Info("Received request to delete player", "playerID", id)
		result, err := svc.DeletePlayer(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			messageResponse
			*league.DeletePlayerResult
		}{messageResponse{"Player and associated matches deleted successfully"}, result})
	}
}

func PlayerMatchesHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := svc.PlayerMatches(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

func PlayerStatsHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.PlayerDetailedStats(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}
