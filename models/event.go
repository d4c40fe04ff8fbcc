package models

import "time"

type EventStatus string

const (
	EventUpcoming         EventStatus = "UPCOMING"
	EventRegistrationOpen EventStatus = "REGISTRATION_OPEN"
	EventInProgress       EventStatus = "IN_PROGRESS"
	EventCompleted        EventStatus = "COMPLETED"
	EventCancelled        EventStatus = "CANCELLED"
)

var eventTransitions = map[EventStatus][]EventStatus{
	EventUpcoming:         {EventRegistrationOpen, EventCancelled},
	EventRegistrationOpen: {EventInProgress, EventCancelled},
	EventInProgress:       {EventCompleted, EventCancelled},
}

func (s EventStatus) Valid() bool {
	switch s {
	case EventUpcoming, EventRegistrationOpen, EventInProgress, EventCompleted, EventCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
// COMPLETED and CANCELLED are terminal.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	for _, allowed := range eventTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type EventType string

const (
	EventTypeWinter   EventType = "WINTER"
	EventTypeSummer   EventType = "SUMMER"
	EventTypeTrackDay EventType = "TRACK_DAY"
)

type CarTypeRequirement string

const (
	CarTypeAny           CarTypeRequirement = "ANY"
	CarTypeSpecificClass CarTypeRequirement = "SPECIFIC_CLASS"
)

type Event struct {
	ID                 int64              `json:"id"`
	Title              string             `json:"title" validate:"required,max=200"`
	Description        string             `json:"description,omitempty" validate:"max=2000"`
	Date               time.Time          `json:"date" validate:"required"`
	Location           string             `json:"location" validate:"required,max=200"`
	TrackType          string             `json:"track_type" validate:"required,max=50"`
	Type               EventType          `json:"type" validate:"required,oneof=WINTER SUMMER TRACK_DAY"`
	MaxParticipants    int                `json:"max_participants" validate:"required,min=1"`
	Status             EventStatus        `json:"status"`
	CarTypeRequirement CarTypeRequirement `json:"car_type_requirement" validate:"required,oneof=ANY SPECIFIC_CLASS"`
	RequiredCarClass   string             `json:"required_car_class,omitempty" validate:"max=50"`
	MaxHorsepower      *int               `json:"max_horsepower,omitempty" validate:"omitempty,min=0"`
	RequiredDriveType  string             `json:"required_drive_type,omitempty" validate:"max=20"`
	AdministratorID    int64              `json:"administrator_id"`
	ChampionshipID     *int64             `json:"championship_id,omitempty"`
	Version            int64              `json:"version"`

	Championship *Championship `json:"championship,omitempty"`
}
