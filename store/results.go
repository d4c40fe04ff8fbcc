package store

import (
	"context"

	"github.com/pkg/errors"

	"race-events/models"
)

// UpsertFinalResult writes r as the one final result of its application and
// reports whether a new row was inserted. Updating an existing row is not an
// insert, which keeps podium accounting idempotent across recalculations.
// An insert that loses a race against a concurrent writer returns
// models.ErrConflict.
func (s *Store) UpsertFinalResult(ctx context.Context, r *models.FinalResult) (inserted bool, err error) {
	n, err := s.exec(ctx, "update final result", `
		UPDATE final_results SET position = ?, total_laps = ?, best_lap_ms = ?, average_lap_ms = ?, total_time_ms = ?
		WHERE application_id = ?`,
		r.Position, r.TotalLaps, ms(r.BestLapTime), ms(r.AverageLapTime), ms(r.TotalTime), r.ApplicationID)
	if err != nil {
		return false, err
	}
	if n > 0 {
		err := s.q.QueryRowContext(ctx,
			`SELECT id FROM final_results WHERE application_id = ?`, r.ApplicationID).Scan(&r.ID)
		return false, classify(err, "final result id")
	}

	id, err := s.insert(ctx, "insert final result", `
		INSERT INTO final_results (application_id, position, total_laps, best_lap_ms, average_lap_ms, total_time_ms)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ApplicationID, r.Position, r.TotalLaps, ms(r.BestLapTime), ms(r.AverageLapTime), ms(r.TotalTime))
	if errors.Is(err, models.ErrDuplicate) {
		return false, errors.Wrapf(models.ErrConflict, "final result of application %d", r.ApplicationID)
	}
	if err != nil {
		return false, err
	}
	r.ID = id
	return true, nil
}

// FinalResultsByEvent lists an event's classified applications by position.
func (s *Store) FinalResultsByEvent(ctx context.Context, eventID int64) ([]models.Application, error) {
	return s.applications(ctx, "final results by event",
		applicationDetail+` WHERE a.event_id = ? AND fr.id IS NOT NULL ORDER BY fr.position, a.id`, eventID)
}
