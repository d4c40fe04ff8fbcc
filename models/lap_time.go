package models

import "time"

type LapTime struct {
	ID            int64         `json:"id"`
	ApplicationID int64         `json:"application_id"`
	LapNumber     int           `json:"lap_number"`
	Time          time.Duration `json:"time_ms"`
	RecordedAt    time.Time     `json:"recorded_at"`
}

// LapSheetEntry is one approved entry of an event with its recorded laps.
type LapSheetEntry struct {
	Application   Application `json:"application"`
	NextLapNumber int         `json:"next_lap_number"`
}
