package controllers

import (
	"net/http"

	"race-events/eligibility"
	"race-events/models"
	"race-events/store"
	"race-events/utils"
)

type ProfileController struct{}

type profile struct {
	Participant  models.Participant   `json:"participant"`
	Cars         []models.Car         `json:"cars"`
	Applications []models.Application `json:"applications"`
	Podiums      int                  `json:"podiums"`
	BestLapTime  string               `json:"best_lap_time,omitempty"`
}

// GetProfile assembles the caller's participant profile.
func (pc ProfileController) GetProfile(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := callerFrom(r)
		if err := requireParticipant(caller); err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		ctx := r.Context()

		p, err := s.Participant(ctx, caller.UserID)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		cars, err := s.CarsByParticipant(ctx, caller.UserID)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		apps, err := s.ApplicationsByParticipant(ctx, caller.UserID)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		out := profile{
			Participant:  p,
			Cars:         cars,
			Applications: apps,
			Podiums:      eligibility.CountPodiums(apps),
		}
		if p.BestLapTime != nil {
			out.BestLapTime = utils.FormatLapTime(*p.BestLapTime)
		}
		utils.ResponseJSON(w, out)
	}
}
