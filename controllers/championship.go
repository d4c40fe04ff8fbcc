package controllers

import (
	"net/http"

	"race-events/models"
	"race-events/store"
	"race-events/utils"
)

type ChampionshipController struct{}

func (cc ChampionshipController) GetChampionships(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.Championships(r.Context())
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		utils.ResponseJSON(w, list)
	}
}

func (cc ChampionshipController) GetChampionship(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		c, err := s.Championship(r.Context(), id)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		utils.ResponseJSON(w, c)
	}
}

func (cc ChampionshipController) CreateChampionship(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := callerFrom(r)
		if err := requireAdmin(caller); err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		var c models.Championship
		if err := decode(r, &c); err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		c.ID = 0
		c.AdministratorID = caller.UserID
		c.Events = nil
		if err := s.CreateChampionship(r.Context(), &c); err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		utils.ResponseJSONStatus(w, http.StatusCreated, c)
	}
}

func (cc ChampionshipController) UpdateChampionship(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := callerFrom(r)
		if err := requireAdmin(caller); err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		id, err := pathID(r, "id")
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		var c models.Championship
		if err := decode(r, &c); err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		c.ID = id
		c.AdministratorID = caller.UserID
		if c.MinPodiumsRequired == 0 {
			c.MinPodiumsRequired = models.DefaultMinPodiumsRequired
		}
		if err := s.UpdateChampionship(r.Context(), c); err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		updated, err := s.Championship(r.Context(), id)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		utils.ResponseJSON(w, updated)
	}
}

// DeleteChampionship removes a championship owned by the caller. Its events
// are kept.
func (cc ChampionshipController) DeleteChampionship(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := callerFrom(r)
		if err := requireAdmin(caller); err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		id, err := pathID(r, "id")
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		if err := s.DeleteChampionship(r.Context(), id, caller.UserID); err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		utils.ResponseJSON(w, map[string]string{"message": "Championship deleted."})
	}
}
