package store

import (
	"context"

	"race-events/models"
)

// CreateLapTime records one lap. A lap number already recorded for the
// application yields models.ErrDuplicate.
func (s *Store) CreateLapTime(ctx context.Context, l *models.LapTime) error {
	if l.RecordedAt.IsZero() {
		l.RecordedAt = s.Now()
	}
	id, err := s.insert(ctx, "insert lap time", `
		INSERT INTO lap_times (application_id, lap_number, time_ms, recorded_at) VALUES (?, ?, ?, ?)`,
		l.ApplicationID, l.LapNumber, ms(l.Time), l.RecordedAt)
	if err != nil {
		return err
	}
	l.ID = id
	return nil
}

// lapTimesByEvent groups every lap of an event by application, each group
// ordered by lap number.
func (s *Store) lapTimesByEvent(ctx context.Context, eventID int64) (map[int64][]models.LapTime, error) {
	laps := map[int64][]models.LapTime{}
	err := s.scanLapTimes(ctx, "lap times by event", `
		SELECT l.id, l.application_id, l.lap_number, l.time_ms, l.recorded_at
		FROM lap_times l JOIN applications a ON a.id = l.application_id
		WHERE a.event_id = ? ORDER BY l.application_id, l.lap_number`,
		[]interface{}{eventID}, func(l models.LapTime) {
			laps[l.ApplicationID] = append(laps[l.ApplicationID], l)
		})
	if err != nil {
		return nil, err
	}
	return laps, nil
}

func (s *Store) scanLapTimes(ctx context.Context, op, query string, args []interface{}, fn func(models.LapTime)) error {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return classify(err, op)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			l      models.LapTime
			timeMS int64
		)
		if err := rows.Scan(&l.ID, &l.ApplicationID, &l.LapNumber, &timeMS, &l.RecordedAt); err != nil {
			return classify(err, "scan lap time")
		}
		l.Time = fromMS(timeMS)
		fn(l)
	}
	return classify(rows.Err(), op)
}
