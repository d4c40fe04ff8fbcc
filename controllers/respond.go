package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"race-events/models"
	"race-events/store"
	"race-events/utils"
)

// respondWithServiceError answers err with the status of its class.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *models.ValidationError
	var fe *models.FieldError
	switch {
	case errors.As(err, &ve):
		utils.RespondWithError(w, http.StatusUnprocessableEntity, models.Error{Message: ve.Reason})
	case errors.As(err, &fe):
		utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: fe.Message, Field: fe.Field})
	case errors.Is(err, models.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Not found."})
	case errors.Is(err, models.ErrForbidden):
		utils.RespondWithError(w, http.StatusForbidden, models.Error{Message: "Access denied."})
	case errors.Is(err, models.ErrConflict):
		utils.RespondWithError(w, http.StatusConflict, models.Error{Message: models.ErrConflict.Error()})
	case errors.Is(err, store.ErrInUse):
		utils.RespondWithError(w, http.StatusConflict, models.Error{Message: "The record is still in use."})
	case errors.Is(err, models.ErrDuplicate):
		utils.RespondWithError(w, http.StatusConflict, models.Error{Message: "The record already exists."})
	default:
		logger(r).WithError(err).Error("request failed")
		utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Server error."})
	}
}

// decode reads a JSON body into v and checks its validate tags.
func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &models.FieldError{Field: "body", Message: "Invalid request body."}
	}
	return utils.ValidateStruct(v)
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, &models.FieldError{Field: name, Message: "Invalid " + name + "."}
	}
	return id, nil
}

func requireAdmin(caller models.Caller) error {
	if !caller.IsAdmin() {
		return models.ErrForbidden
	}
	return nil
}

func requireParticipant(caller models.Caller) error {
	if !caller.IsParticipant() {
		return models.ErrForbidden
	}
	return nil
}
