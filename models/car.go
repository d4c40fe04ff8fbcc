package models

type Car struct {
	ID            int64  `json:"id"`
	ParticipantID int64  `json:"participant_id"`
	Brand         string `json:"brand" validate:"required,max=50"`
	Model         string `json:"model" validate:"required,max=50"`
	CarClass      string `json:"car_class" validate:"required,max=50"`
	Year          int    `json:"year" validate:"required,min=1900,max=2100"`
	Color         string `json:"color,omitempty" validate:"max=30"`
	LicensePlate  string `json:"license_plate" validate:"required,max=20"`
	Horsepower    *int   `json:"horsepower,omitempty" validate:"omitempty,min=0,max=10000"`
	DriveType     string `json:"drive_type,omitempty" validate:"max=20"`
}

// Label is the short human description used in result tables.
func (c Car) Label() string {
	return c.Brand + " " + c.Model + " (" + c.LicensePlate + ")"
}
