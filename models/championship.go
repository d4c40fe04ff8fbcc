package models

import "time"

const DefaultMinPodiumsRequired = 3

type Championship struct {
	ID                 int64     `json:"id"`
	Title              string    `json:"title" validate:"required,max=200"`
	Description        string    `json:"description,omitempty" validate:"max=2000"`
	StartDate          time.Time `json:"start_date" validate:"required"`
	EndDate            time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	RequiredCarClass   string    `json:"required_car_class" validate:"required,max=50"`
	MinPodiumsRequired int       `json:"min_podiums_required" validate:"omitempty,min=1,max=100"`
	AdministratorID    int64     `json:"administrator_id"`

	Events []Event `json:"events,omitempty"`
}
