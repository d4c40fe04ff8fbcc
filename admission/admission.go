// Package admission runs the entry protocol around the eligibility rules:
// participants submit and withdraw applications, administrators approve and
// reject them.
package admission

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"race-events/eligibility"
	"race-events/models"
	"race-events/notify"
	"race-events/store"
)

type Service struct {
	store    *store.Store
	notifier notify.Notifier
}

func New(s *store.Store, n notify.Notifier) *Service {
	if n == nil {
		n = notify.Nop{}
	}
	return &Service{store: s, notifier: n}
}

type SubmitRequest struct {
	EventID    int64             `json:"event_id" validate:"required"`
	CarID      int64             `json:"car_id" validate:"required"`
	HelmetType models.HelmetType `json:"helmet_type" validate:"required,oneof=OWN RENTAL"`
	TimerType  models.TimerType  `json:"timer_type" validate:"required,oneof=NONE RENTAL"`
}

// Review is the administrator's view of one application.
type Review struct {
	Application     models.Application `json:"application"`
	CarEligible     bool               `json:"car_eligible"`
	CarReason       string             `json:"car_reason,omitempty"`
	ApprovedCount   int                `json:"approved_count"`
	MaxParticipants int                `json:"max_participants"`
	CanApprove      bool               `json:"can_approve"`
}

// Submit enters the caller's car into an event as a pending application.
func (s *Service) Submit(ctx context.Context, caller models.Caller, req SubmitRequest) (models.Application, error) {
	if !caller.IsParticipant() {
		return models.Application{}, models.ErrForbidden
	}

	app := models.Application{
		ParticipantID: caller.UserID,
		EventID:       req.EventID,
		CarID:         req.CarID,
		HelmetType:    req.HelmetType,
		TimerType:     req.TimerType,
		Status:        models.ApplicationPending,
	}
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.LockEvent(ctx, req.EventID); err != nil {
			return err
		}
		event, err := tx.Event(ctx, req.EventID)
		if err != nil {
			return err
		}
		car, err := tx.Car(ctx, req.CarID)
		if err != nil {
			return err
		}
		if car.ParticipantID != caller.UserID {
			return errors.Wrapf(models.ErrNotFound, "car %d", req.CarID)
		}
		if event.Status != models.EventRegistrationOpen {
			return models.Invalid("registration for this event is not open")
		}
		if err := checkEntry(ctx, tx, caller.UserID, car, event); err != nil {
			return err
		}
		active, err := tx.HasActiveApplication(ctx, caller.UserID, event.ID)
		if err != nil {
			return err
		}
		if active {
			return models.Invalid("you already have an application for this event")
		}
		return tx.CreateApplication(ctx, &app)
	})
	if err != nil {
		return models.Application{}, err
	}

	log.WithFields(log.Fields{
		"application_id": app.ID,
		"event_id":       app.EventID,
		"participant_id": app.ParticipantID,
	}).Info("application submitted")
	s.notify(ctx, app.ID)
	return app, nil
}

// Approve re-validates a pending application against the current event,
// car and championship state and admits it if capacity allows.
func (s *Service) Approve(ctx context.Context, caller models.Caller, applicationID int64) error {
	if !caller.IsAdmin() {
		return models.ErrForbidden
	}
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		app, err := tx.Application(ctx, applicationID)
		if err != nil {
			return err
		}
		if err := tx.LockEvent(ctx, app.EventID); err != nil {
			return err
		}
		// reread under the event lock
		if app, err = tx.Application(ctx, applicationID); err != nil {
			return err
		}
		if app.Status != models.ApplicationPending {
			return models.Invalid("only pending applications can be approved")
		}
		event, err := tx.Event(ctx, app.EventID)
		if err != nil {
			return err
		}
		car, err := tx.Car(ctx, app.CarID)
		if err != nil {
			return err
		}
		if err := checkEntry(ctx, tx, app.ParticipantID, car, event); err != nil {
			return err
		}
		return tx.SetApplicationStatus(ctx, app.ID, app.Version, models.ApplicationApproved)
	})
	if err != nil {
		return err
	}
	s.logDecision(applicationID, caller, models.ApplicationApproved)
	s.notify(ctx, applicationID)
	return nil
}

func (s *Service) Reject(ctx context.Context, caller models.Caller, applicationID int64) error {
	if !caller.IsAdmin() {
		return models.ErrForbidden
	}
	app, err := s.store.Application(ctx, applicationID)
	if err != nil {
		return err
	}
	if app.Status != models.ApplicationPending {
		return models.Invalid("only pending applications can be rejected")
	}
	if err := s.store.SetApplicationStatus(ctx, app.ID, app.Version, models.ApplicationRejected); err != nil {
		return err
	}
	s.logDecision(applicationID, caller, models.ApplicationRejected)
	s.notify(ctx, applicationID)
	return nil
}

// Withdraw cancels the caller's own pending or approved application.
// Cancelled applications never reach ranking.
func (s *Service) Withdraw(ctx context.Context, caller models.Caller, applicationID int64) error {
	if !caller.IsParticipant() {
		return models.ErrForbidden
	}
	app, err := s.store.ApplicationDetail(ctx, applicationID)
	if err != nil {
		return err
	}
	if app.ParticipantID != caller.UserID {
		return errors.Wrapf(models.ErrNotFound, "application %d", applicationID)
	}
	if app.Status != models.ApplicationPending && app.Status != models.ApplicationApproved {
		return models.Invalid("only pending or approved applications can be withdrawn")
	}
	if app.FinalResult != nil {
		return models.Invalid("application already has a final result")
	}
	if err := s.store.SetApplicationStatus(ctx, app.ID, app.Version, models.ApplicationCancelled); err != nil {
		return err
	}
	s.logDecision(applicationID, caller, models.ApplicationCancelled)
	return nil
}

// Review loads an application with its current car validation outcome and
// the event's capacity.
func (s *Service) Review(ctx context.Context, caller models.Caller, applicationID int64) (Review, error) {
	if !caller.IsAdmin() {
		return Review{}, models.ErrForbidden
	}
	app, err := s.store.ApplicationDetail(ctx, applicationID)
	if err != nil {
		return Review{}, err
	}
	approved, err := s.store.CountApproved(ctx, app.EventID)
	if err != nil {
		return Review{}, err
	}
	ok, reason := eligibility.ValidateCarForEvent(*app.Car, *app.Event)
	return Review{
		Application:     app,
		CarEligible:     ok,
		CarReason:       reason,
		ApprovedCount:   approved,
		MaxParticipants: app.Event.MaxParticipants,
		CanApprove:      app.Status == models.ApplicationPending && ok && approved < app.Event.MaxParticipants,
	}, nil
}

// List returns the admin queue filtered by status with per-status counts.
// An empty status lists everything.
func (s *Service) List(ctx context.Context, caller models.Caller, status models.ApplicationStatus) ([]models.Application, models.ApplicationCounts, error) {
	if !caller.IsAdmin() {
		return nil, models.ApplicationCounts{}, models.ErrForbidden
	}
	apps, err := s.store.ApplicationsByStatus(ctx, status)
	if err != nil {
		return nil, models.ApplicationCounts{}, err
	}
	counts, err := s.store.CountApplications(ctx)
	if err != nil {
		return nil, models.ApplicationCounts{}, err
	}
	return apps, counts, nil
}

// checkEntry applies the car, championship and capacity rules. It must run
// inside the transaction holding the event lock.
func checkEntry(ctx context.Context, tx *store.Store, participantID int64, car models.Car, event models.Event) error {
	if ok, reason := eligibility.ValidateCarForEvent(car, event); !ok {
		return models.Invalid(reason)
	}
	if event.Championship != nil {
		if _, err := tx.Participant(ctx, participantID); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return models.Invalid("participant not found")
			}
			return err
		}
		apps, err := tx.ApplicationsByParticipant(ctx, participantID)
		if err != nil {
			return err
		}
		if ok, reason := eligibility.ValidateChampionshipRequirements(participantID, *event.Championship, apps); !ok {
			return models.Invalid(reason)
		}
	}
	approved, err := tx.CountApproved(ctx, event.ID)
	if err != nil {
		return err
	}
	if approved >= event.MaxParticipants {
		return models.Invalid(fmt.Sprintf("event is full: %d of %d places taken", approved, event.MaxParticipants))
	}
	return nil
}

func (s *Service) logDecision(applicationID int64, caller models.Caller, status models.ApplicationStatus) {
	log.WithFields(log.Fields{
		"application_id": applicationID,
		"user_id":        caller.UserID,
		"status":         status,
	}).Info("application status changed")
}

func (s *Service) notify(ctx context.Context, applicationID int64) {
	app, err := s.store.ApplicationDetail(ctx, applicationID)
	if err == nil {
		err = s.notifier.ApplicationChanged(ctx, app)
	}
	if err != nil {
		log.WithError(err).WithField("application_id", applicationID).Warn("application notification failed")
	}
}
