package results

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"race-events/models"
	"race-events/utils"
)

type RecordLapRequest struct {
	ApplicationID int64  `json:"application_id" validate:"required"`
	LapNumber     int    `json:"lap_number" validate:"required,min=1"`
	Time          string `json:"time" validate:"required"`
}

// RecordLap stores one lap of an approved entry of the event. The time is
// operator input in any format ParseLapTime accepts.
func (e *Engine) RecordLap(ctx context.Context, caller models.Caller, eventID int64, req RecordLapRequest) (models.LapTime, error) {
	if !caller.IsAdmin() {
		return models.LapTime{}, models.ErrForbidden
	}
	d, err := utils.ParseLapTime(req.Time)
	if err != nil || d <= 0 {
		return models.LapTime{}, &models.FieldError{Field: "time", Message: utils.ErrInvalidLapTime.Error()}
	}
	if req.LapNumber < 1 {
		return models.LapTime{}, &models.FieldError{Field: "lap_number", Message: "must be at least 1"}
	}

	app, err := e.store.Application(ctx, req.ApplicationID)
	if err != nil {
		return models.LapTime{}, err
	}
	if app.EventID != eventID || app.Status != models.ApplicationApproved {
		return models.LapTime{}, models.Invalid("application is not an approved entry of this event")
	}

	lap := models.LapTime{ApplicationID: app.ID, LapNumber: req.LapNumber, Time: d}
	if err := e.store.CreateLapTime(ctx, &lap); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return models.LapTime{}, &models.FieldError{
				Field:   "lap_number",
				Message: fmt.Sprintf("lap %d is already recorded", req.LapNumber),
			}
		}
		return models.LapTime{}, err
	}
	return lap, nil
}

// LapSheet lists the event's approved entries with their laps and the next
// lap number to record for each.
func (e *Engine) LapSheet(ctx context.Context, caller models.Caller, eventID int64) ([]models.LapSheetEntry, error) {
	if !caller.IsAdmin() {
		return nil, models.ErrForbidden
	}
	if _, err := e.store.Event(ctx, eventID); err != nil {
		return nil, err
	}
	apps, err := e.store.ApprovedApplications(ctx, eventID)
	if err != nil {
		return nil, err
	}
	sheet := make([]models.LapSheetEntry, 0, len(apps))
	for _, app := range apps {
		next := 1
		for _, l := range app.LapTimes {
			if l.LapNumber >= next {
				next = l.LapNumber + 1
			}
		}
		sheet = append(sheet, models.LapSheetEntry{Application: app, NextLapNumber: next})
	}
	return sheet, nil
}
