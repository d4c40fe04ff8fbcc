package controllers

import (
	"net/http"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"race-events/models"
	"race-events/store"
	"race-events/utils"
)

type EventController struct{}

type eventStatusRequest struct {
	Status models.EventStatus `json:"status" validate:"required"`
}

// GetEvents lists events, optionally filtered by ?status=.
func (ec EventController) GetEvents(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var statuses []models.EventStatus
		if raw := r.URL.Query().Get("status"); raw != "" {
			st := models.EventStatus(raw)
			if !st.Valid() {
				respondWithServiceError(w, r, &models.FieldError{Field: "status", Message: "Unknown event status."})
				return
			}
			statuses = append(statuses, st)
		}
		events, err := s.Events(r.Context(), statuses...)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		utils.ResponseJSON(w, events)
	}
}

// GetMyEvents lists the events the calling administrator created.
func (ec EventController) GetMyEvents(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := callerFrom(r)
		if err := requireAdmin(caller); err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		events, err := s.EventsByAdministrator(r.Context(), caller.UserID)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		utils.ResponseJSON(w, events)
	}
}

func (ec EventController) GetEvent(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		event, err := s.Event(r.Context(), id)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		approved, err := s.CountApproved(r.Context(), id)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		utils.ResponseJSON(w, map[string]interface{}{
			"event":          event,
			"approved_count": approved,
		})
	}
}

func (ec EventController) CreateEvent(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := callerFrom(r)
		if err := requireAdmin(caller); err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		var event models.Event
		if err := decodeEvent(r, s, &event); err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		event.ID = 0
		event.AdministratorID = caller.UserID
		event.Status = models.EventUpcoming
		if err := s.CreateEvent(r.Context(), &event); err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		logger(r).WithField("event_id", event.ID).Info("event created")
		utils.ResponseJSONStatus(w, http.StatusCreated, event)
	}
}

// UpdateEvent edits an event owned by the caller. The status is changed
// through UpdateEventStatus.
func (ec EventController) UpdateEvent(s *store.Store) http.HandlerFunc {
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
		var event models.Event
		if err := decodeEvent(r, s, &event); err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		event.ID = id
		event.AdministratorID = caller.UserID
		if err := s.UpdateEvent(r.Context(), event); err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		updated, err := s.Event(r.Context(), id)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		utils.ResponseJSON(w, updated)
	}
}

// UpdateEventStatus moves an event along its lifecycle.
func (ec EventController) UpdateEventStatus(s *store.Store) http.HandlerFunc {
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
		var req eventStatusRequest
		if err := decode(r, &req); err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		err = s.WithTx(r.Context(), func(tx *store.Store) error {
			if err := tx.LockEvent(r.Context(), id); err != nil {
				return err
			}
			event, err := tx.Event(r.Context(), id)
			if err != nil {
				return err
			}
			if event.AdministratorID != caller.UserID {
				return errors.Wrapf(models.ErrForbidden, "event %d", id)
			}
			if !event.Status.CanTransitionTo(req.Status) {
				return models.Invalid("event status cannot change from " + string(event.Status) + " to " + string(req.Status))
			}
			return tx.SetEventStatus(r.Context(), id, req.Status)
		})
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		logger(r).WithFields(log.Fields{"event_id": id, "status": req.Status}).Info("event status changed")
		utils.ResponseJSON(w, map[string]string{"message": "Event status updated.", "status": string(req.Status)})
	}
}

// decodeEvent reads an event payload and checks that a referenced
// championship exists.
func decodeEvent(r *http.Request, s *store.Store, event *models.Event) error {
	if err := decode(r, event); err != nil {
		return err
	}
	if event.ChampionshipID != nil {
		if _, err := s.Championship(r.Context(), *event.ChampionshipID); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return &models.FieldError{Field: "championship_id", Message: "Championship not found."}
			}
			return err
		}
	}
	return nil
}
