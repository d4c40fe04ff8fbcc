package controllers

import (
	"net/http"
	"strings"

	"race-events/admission"
	"race-events/models"
	"race-events/utils"
)

type ApplicationController struct{}

type applicationList struct {
	Status       string                   `json:"status"`
	Applications []models.Application     `json:"applications"`
	Counts       models.ApplicationCounts `json:"counts"`
}

func (ac ApplicationController) Submit(svc *admission.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req admission.SubmitRequest
		if err := decode(r, &req); err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		app, err := svc.Submit(r.Context(), callerFrom(r), req)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		utils.ResponseJSONStatus(w, http.StatusCreated, app)
	}
}

func (ac ApplicationController) Withdraw(svc *admission.Service) http.HandlerFunc {
	return ac.decide(func(r *http.Request, id int64) error {
		return svc.Withdraw(r.Context(), callerFrom(r), id)
	}, "Application withdrawn.")
}

func (ac ApplicationController) Approve(svc *admission.Service) http.HandlerFunc {
	return ac.decide(func(r *http.Request, id int64) error {
		return svc.Approve(r.Context(), callerFrom(r), id)
	}, "Application approved.")
}

func (ac ApplicationController) Reject(svc *admission.Service) http.HandlerFunc {
	return ac.decide(func(r *http.Request, id int64) error {
		return svc.Reject(r.Context(), callerFrom(r), id)
	}, "Application rejected.")
}

func (ac ApplicationController) decide(fn func(r *http.Request, id int64) error, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		if err := fn(r, id); err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		utils.ResponseJSON(w, map[string]string{"message": message})
	}
}

func (ac ApplicationController) Review(svc *admission.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		review, err := svc.Review(r.Context(), callerFrom(r), id)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		utils.ResponseJSON(w, review)
	}
}

// List serves the admin queue. ?status= defaults to PENDING; ALL lists
// every application.
func (ac ApplicationController) List(svc *admission.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.ToUpper(r.URL.Query().Get("status"))
		if raw == "" {
			raw = string(models.ApplicationPending)
		}
		var status models.ApplicationStatus
		if raw != "ALL" {
			status = models.ApplicationStatus(raw)
			if !status.Valid() {
				respondWithServiceError(w, r, &models.FieldError{Field: "status", Message: "Unknown application status."})
				return
			}
		}

		apps, counts, err := svc.List(r.Context(), callerFrom(r), status)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		utils.ResponseJSON(w, applicationList{Status: raw, Applications: apps, Counts: counts})
	}
}
