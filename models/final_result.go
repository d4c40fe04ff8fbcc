package models

import "time"

const PodiumPositions = 3

type FinalResult struct {
	ID             int64         `json:"id"`
	ApplicationID  int64         `json:"application_id"`
	Position       int           `json:"position"`
	TotalLaps      int           `json:"total_laps"`
	BestLapTime    time.Duration `json:"best_lap_ms"`
	AverageLapTime time.Duration `json:"average_lap_ms"`
	TotalTime      time.Duration `json:"total_time_ms"`
}

func (r FinalResult) IsPodium() bool {
	return r.Position > 0 && r.Position <= PodiumPositions
}

// Standing is a display row of an event's final classification.
type Standing struct {
	ResultID        int64  `json:"result_id"`
	ApplicationID   int64  `json:"application_id"`
	ParticipantID   int64  `json:"participant_id"`
	Position        int    `json:"position"`
	ParticipantName string `json:"participant_name"`
	CarInfo         string `json:"car_info"`
	BestLapTime     string `json:"best_lap_time"`
	AverageLapTime  string `json:"average_lap_time"`
	TotalTime       string `json:"total_time"`
	TotalLaps       int    `json:"total_laps"`
}

type EventStandings struct {
	EventID       int64      `json:"event_id"`
	EventTitle    string     `json:"event_title"`
	EventDate     time.Time  `json:"event_date"`
	EventLocation string     `json:"event_location"`
	Results       []Standing `json:"results"`
	Podium        []Standing `json:"podium"`
}
