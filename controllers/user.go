package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"race-events/models"
	"race-events/store"
	"race-events/utils"
)

type signupRequest struct {
	Email         string    `json:"email" validate:"required,email,max=255"`
	Password      string    `json:"password" validate:"required,min=6,max=72"`
	FirstName     string    `json:"first_name" validate:"required,max=100"`
	LastName      string    `json:"last_name" validate:"required,max=100"`
	DriverLicense string    `json:"driver_license" validate:"required,max=50"`
	DateOfBirth   time.Time `json:"date_of_birth" validate:"required"`
	Phone         string    `json:"phone" validate:"max=20"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Signup registers a participant. Administrators are never self-registered.
func (c Controller) Signup(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if err := decode(r, &req); err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		p := models.Participant{
			User: models.User{
				Email:        strings.ToLower(strings.TrimSpace(req.Email)),
				PasswordHash: hash,
				FirstName:    req.FirstName,
				LastName:     req.LastName,
			},
			DriverLicense: req.DriverLicense,
			DateOfBirth:   req.DateOfBirth.UTC(),
			Phone:         req.Phone,
		}
		if err := s.CreateParticipant(r.Context(), &p); err != nil {
			if errors.Is(err, models.ErrDuplicate) {
				utils.RespondWithError(w, http.StatusConflict, models.Error{Message: "Email already exists.", Field: "email"})
				return
			}
			respondWithServiceError(w, r, err)
			return
		}

		logger(r).WithField("user_id", p.ID).Info("participant registered")
		utils.ResponseJSONStatus(w, http.StatusCreated, p)
	}
}

func (c Controller) Login(s *store.Store, secret string, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decode(r, &req); err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		user, err := s.UserByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
		if errors.Is(err, models.ErrNotFound) || (err == nil && !utils.ComparePasswords(user.PasswordHash, []byte(req.Password))) {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Invalid email or password."})
			return
		}
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		token, err := utils.GenerateToken(secret, user, ttl)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		utils.ResponseJSON(w, models.JWT{Token: token})
	}
}

// GetMe returns the caller's account, with participant data for participants.
func (c Controller) GetMe(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := callerFrom(r)
		if caller.IsParticipant() {
			p, err := s.Participant(r.Context(), caller.UserID)
			if err != nil {
				respondWithServiceError(w, r, err)
				return
			}
			utils.ResponseJSON(w, p)
			return
		}
		user, err := s.UserByID(r.Context(), caller.UserID)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		utils.ResponseJSON(w, user)
	}
}

// BootstrapAdministrator creates the administrator account for email unless
// a user with that email already exists.
func BootstrapAdministrator(ctx context.Context, s *store.Store, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := s.UserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	a := models.Administrator{User: models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Race",
		LastName:     "Control",
	}}
	if err := s.CreateAdministrator(ctx, &a); err != nil {
		return errors.Wrap(err, "create administrator")
	}
	log.WithField("user_id", a.ID).Info("administrator account created")
	return nil
}
