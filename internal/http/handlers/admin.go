package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/mauv0809/fifa-rivalry/internal/league"
)

// ReconcileHandler audits every player aggregate against the match log.
// Repairs only happen with repair=true and never on a dry run.
func ReconcileHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		repair := r.URL.Query().Get("repair") == "true" && !IsDryRunFromContext(r)
		log.Info("Received reconcile request", "repair", repair)
		report, err := svc.Reconcile(r.Context(), repair)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}
