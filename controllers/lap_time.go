package controllers

import (
	"net/http"

	"race-events/models"
	"race-events/results"
	"race-events/utils"
)

type RaceController struct{}

type manualPositionsRequest struct {
	Positions []results.ManualPosition `json:"positions" validate:"required"`
}

func (rc RaceController) RecordLap(engine *results.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, err := pathID(r, "id")
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		var req results.RecordLapRequest
		if err := decode(r, &req); err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		lap, err := engine.RecordLap(r.Context(), callerFrom(r), eventID, req)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		utils.ResponseJSONStatus(w, http.StatusCreated, lap)
	}
}

func (rc RaceController) LapSheet(engine *results.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, err := pathID(r, "id")
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		sheet, err := engine.LapSheet(r.Context(), callerFrom(r), eventID)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		utils.ResponseJSON(w, sheet)
	}
}

// CalculateResults ranks the event from recorded laps.
func (rc RaceController) CalculateResults(engine *results.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, err := pathID(r, "id")
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		list, err := engine.CalculateResults(r.Context(), callerFrom(r), eventID)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		utils.ResponseJSON(w, list)
	}
}

func (rc RaceController) ManualPositionsForm(engine *results.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, err := pathID(r, "id")
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		form, err := engine.ManualPositionsForm(r.Context(), callerFrom(r), eventID)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		utils.ResponseJSON(w, form)
	}
}

func (rc RaceController) SetManualPositions(engine *results.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, err := pathID(r, "id")
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		var req manualPositionsRequest
		if err := decode(r, &req); err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		if len(req.Positions) == 0 {
			respondWithServiceError(w, r, &models.FieldError{Field: "positions", Message: "No positions given."})
			return
		}
		list, err := engine.SetManualPositions(r.Context(), callerFrom(r), eventID, req.Positions)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		utils.ResponseJSON(w, list)
	}
}
