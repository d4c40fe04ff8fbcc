package models

import "time"

type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "PENDING"
	ApplicationApproved  ApplicationStatus = "APPROVED"
	ApplicationRejected  ApplicationStatus = "REJECTED"
	ApplicationCancelled ApplicationStatus = "CANCELLED"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationApproved, ApplicationRejected, ApplicationCancelled:
		return true
	}
	return false
}

type HelmetType string

const (
	HelmetOwn    HelmetType = "OWN"
	HelmetRental HelmetType = "RENTAL"
)

type TimerType string

const (
	TimerNone   TimerType = "NONE"
	TimerRental TimerType = "RENTAL"
)

// Application is a participant's entry of one car into one event.
// Relations are only populated by store queries that load them.
type Application struct {
	ID              int64             `json:"id"`
	ParticipantID   int64             `json:"participant_id"`
	EventID         int64             `json:"event_id"`
	CarID           int64             `json:"car_id"`
	HelmetType      HelmetType        `json:"helmet_type"`
	TimerType       TimerType         `json:"timer_type"`
	Status          ApplicationStatus `json:"status"`
	ApplicationDate time.Time         `json:"application_date"`
	Version         int64             `json:"version"`

	Participant *Participant `json:"participant,omitempty"`
	Event       *Event       `json:"event,omitempty"`
	Car         *Car         `json:"car,omitempty"`
	LapTimes    []LapTime    `json:"lap_times,omitempty"`
	FinalResult *FinalResult `json:"final_result,omitempty"`
}

// ApplicationCounts is the per-status tally shown on the admin list.
type ApplicationCounts struct {
	Pending   int `json:"pending"`
	Approved  int `json:"approved"`
	Rejected  int `json:"rejected"`
	Cancelled int `json:"cancelled"`
}
