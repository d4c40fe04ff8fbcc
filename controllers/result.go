package controllers

import (
	"net/http"

	"race-events/export"
	"race-events/models"
	"race-events/results"
	"race-events/store"
	"race-events/utils"
)

type ResultController struct{}

// GetResultEvents lists the events that can have standings.
func (rc ResultController) GetResultEvents(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := s.Events(r.Context(), models.EventInProgress, models.EventCompleted)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		utils.ResponseJSON(w, events)
	}
}

func (rc ResultController) GetStandings(engine *results.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, err := pathID(r, "id")
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		st, err := engine.Standings(r.Context(), eventID)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		utils.ResponseJSON(w, st)
	}
}

// ExportCSV sends the standings as a CSV attachment.
func (rc ResultController) ExportCSV(engine *results.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, err := pathID(r, "id")
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		st, err := engine.Standings(r.Context(), eventID)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+export.CSVFilename(st)+`"`)
		if err := export.WriteCSV(w, st); err != nil {
			logger(r).WithError(err).Error("write csv export")
		}
	}
}
