package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mauv0809/fifa-rivalry/internal/league"
)

func CreateTournamentHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in league.TournamentInput
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err)
			return
		}
		t, err := svc.CreateTournament(r.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func ListTournamentsHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts, err := svc.ListTournaments(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ts)
	}
}

func TournamentMatchesHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := svc.TournamentMatches(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

func TournamentStandingsHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table, err := svc.TournamentStandings(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, table)
	}
}
