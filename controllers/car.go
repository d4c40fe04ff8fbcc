package controllers

import (
	"net/http"

	"github.com/pkg/errors"

	"race-events/models"
	"race-events/store"
	"race-events/utils"
)

type CarController struct{}

func (cc CarController) GetMyCars(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := callerFrom(r)
		if err := requireParticipant(caller); err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		cars, err := s.CarsByParticipant(r.Context(), caller.UserID)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		utils.ResponseJSON(w, cars)
	}
}

func (cc CarController) CreateCar(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := callerFrom(r)
		if err := requireParticipant(caller); err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		var car models.Car
		if err := decode(r, &car); err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		car.ID = 0
		car.ParticipantID = caller.UserID
		if err := checkPlate(r, s, car); err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		if err := s.CreateCar(r.Context(), &car); err != nil {
			respondWithServiceError(w, r, plateError(err))
			return
		}
		utils.ResponseJSONStatus(w, http.StatusCreated, car)
	}
}

func (cc CarController) UpdateCar(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := callerFrom(r)
		if err := requireParticipant(caller); err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		id, err := pathID(r, "id")
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		var car models.Car
		if err := decode(r, &car); err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		car.ID = id
		car.ParticipantID = caller.UserID
		if err := checkPlate(r, s, car); err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		if err := s.UpdateCar(r.Context(), car); err != nil {
			respondWithServiceError(w, r, plateError(err))
			return
		}
		utils.ResponseJSON(w, car)
	}
}

// DeleteCar removes an own car that was never entered into an event.
func (cc CarController) DeleteCar(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := callerFrom(r)
		if err := requireParticipant(caller); err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		id, err := pathID(r, "id")
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		if err := s.DeleteCar(r.Context(), id, caller.UserID); err != nil {
			if errors.Is(err, store.ErrInUse) {
				err = models.Invalid("the car is entered into an event and cannot be deleted")
			}
			respondWithServiceError(w, r, err)
			return
		}
		utils.ResponseJSON(w, map[string]string{"message": "Car deleted."})
	}
}

func checkPlate(r *http.Request, s *store.Store, car models.Car) error {
	taken, err := s.LicensePlateTaken(r.Context(), car.LicensePlate, car.ID)
	if err != nil {
		return err
	}
	if taken {
		return plateError(models.ErrDuplicate)
	}
	return nil
}

// plateError reports a unique violation on cars as the plate rule.
func plateError(err error) error {
	if errors.Is(err, models.ErrDuplicate) {
		return models.Invalid("a car with this license plate already exists")
	}
	return err
}
