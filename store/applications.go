package store

import (
	"context"
	"database/sql"

	"race-events/models"
)

const applicationColumns = `a.id, a.participant_id, a.event_id, a.car_id, a.helmet_type, a.timer_type, a.status,
	a.application_date, a.version`

const finalResultColumns = `fr.id, fr.position, fr.total_laps, fr.best_lap_ms, fr.average_lap_ms, fr.total_time_ms`

// applicationDetail selects an application with its participant, car, event
// and final result, if one exists.
const applicationDetail = `SELECT ` + applicationColumns + `, ` + participantColumns + `,
	` + carColumns + `, ` + eventColumns + `, ` + finalResultColumns + `
	FROM applications a
	JOIN participants p ON p.user_id = a.participant_id
	JOIN users u ON u.id = p.user_id
	JOIN cars c ON c.id = a.car_id
	JOIN events e ON e.id = a.event_id
	LEFT JOIN final_results fr ON fr.application_id = a.id`

func applicationDest(a *models.Application) []interface{} {
	return []interface{}{
		&a.ID, &a.ParticipantID, &a.EventID, &a.CarID, &a.HelmetType, &a.TimerType, &a.Status,
		&a.ApplicationDate, &a.Version,
	}
}

type finalResultRow struct {
	id, position, totalLaps, bestLap, averageLap, totalTime sql.NullInt64
}

func (r *finalResultRow) dest() []interface{} {
	return []interface{}{&r.id, &r.position, &r.totalLaps, &r.bestLap, &r.averageLap, &r.totalTime}
}

func (r *finalResultRow) result(applicationID int64) *models.FinalResult {
	if !r.id.Valid {
		return nil
	}
	return &models.FinalResult{
		ID:             r.id.Int64,
		ApplicationID:  applicationID,
		Position:       int(r.position.Int64),
		TotalLaps:      int(r.totalLaps.Int64),
		BestLapTime:    fromMS(r.bestLap.Int64),
		AverageLapTime: fromMS(r.averageLap.Int64),
		TotalTime:      fromMS(r.totalTime.Int64),
	}
}

type applicationDetailRow struct {
	a  models.Application
	p  participantRow
	c  carRow
	e  eventRow
	fr finalResultRow
}

func (r *applicationDetailRow) dest() []interface{} {
	dest := applicationDest(&r.a)
	dest = append(dest, r.p.dest()...)
	dest = append(dest, r.c.dest()...)
	dest = append(dest, r.e.dest()...)
	return append(dest, r.fr.dest()...)
}

func (r *applicationDetailRow) application() models.Application {
	a := r.a
	p, c, e := r.p.participant(), r.c.car(), r.e.event()
	a.Participant, a.Car, a.Event = &p, &c, &e
	a.FinalResult = r.fr.result(a.ID)
	return a
}

// CreateApplication inserts an application and fills its id. ApplicationDate
// defaults to the store clock.
func (s *Store) CreateApplication(ctx context.Context, a *models.Application) error {
	if a.ApplicationDate.IsZero() {
		a.ApplicationDate = s.Now()
	}
	id, err := s.insert(ctx, "insert application", `
		INSERT INTO applications (participant_id, event_id, car_id, helmet_type, timer_type, status,
			application_date, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0)`,
		a.ParticipantID, a.EventID, a.CarID, a.HelmetType, a.TimerType, a.Status, a.ApplicationDate)
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}

// Application loads the bare application row.
func (s *Store) Application(ctx context.Context, id int64) (models.Application, error) {
	var a models.Application
	err := s.q.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications a WHERE a.id = ?`, id).
		Scan(applicationDest(&a)...)
	if err != nil {
		return models.Application{}, classify(err, "application")
	}
	return a, nil
}

// ApplicationDetail loads an application with participant, car, event and
// final result.
func (s *Store) ApplicationDetail(ctx context.Context, id int64) (models.Application, error) {
	var r applicationDetailRow
	if err := s.q.QueryRowContext(ctx, applicationDetail+` WHERE a.id = ?`, id).Scan(r.dest()...); err != nil {
		return models.Application{}, classify(err, "application detail")
	}
	return r.application(), nil
}

func (s *Store) ApplicationsByParticipant(ctx context.Context, participantID int64) ([]models.Application, error) {
	return s.applications(ctx, "applications by participant",
		applicationDetail+` WHERE a.participant_id = ? ORDER BY e.date DESC, a.id DESC`, participantID)
}

// ApplicationsByStatus lists applications for the admin queue, newest first.
// An empty status lists every application.
func (s *Store) ApplicationsByStatus(ctx context.Context, status models.ApplicationStatus) ([]models.Application, error) {
	if status == "" {
		return s.applications(ctx, "applications",
			applicationDetail+` ORDER BY a.application_date DESC, a.id DESC`)
	}
	return s.applications(ctx, "applications by status",
		applicationDetail+` WHERE a.status = ? ORDER BY a.application_date DESC, a.id DESC`, status)
}

// ApprovedApplications lists the approved entries of an event by driver
// name with their lap times attached.
func (s *Store) ApprovedApplications(ctx context.Context, eventID int64) ([]models.Application, error) {
	apps, err := s.applications(ctx, "approved applications",
		applicationDetail+` WHERE a.event_id = ? AND a.status = ? ORDER BY u.last_name, u.first_name, a.id`,
		eventID, models.ApplicationApproved)
	if err != nil {
		return nil, err
	}
	laps, err := s.lapTimesByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	for i := range apps {
		apps[i].LapTimes = laps[apps[i].ID]
	}
	return apps, nil
}

func (s *Store) applications(ctx context.Context, op, query string, args ...interface{}) ([]models.Application, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err, op)
	}
	defer rows.Close()

	apps := []models.Application{}
	for rows.Next() {
		var r applicationDetailRow
		if err := rows.Scan(r.dest()...); err != nil {
			return nil, classify(err, "scan application")
		}
		apps = append(apps, r.application())
	}
	return apps, classify(rows.Err(), op)
}

func (s *Store) CountApplications(ctx context.Context) (models.ApplicationCounts, error) {
	var counts models.ApplicationCounts
	rows, err := s.q.QueryContext(ctx, `SELECT status, COUNT(*) FROM applications GROUP BY status`)
	if err != nil {
		return counts, classify(err, "count applications")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status models.ApplicationStatus
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return counts, classify(err, "scan application count")
		}
		switch status {
		case models.ApplicationPending:
			counts.Pending = n
		case models.ApplicationApproved:
			counts.Approved = n
		case models.ApplicationRejected:
			counts.Rejected = n
		case models.ApplicationCancelled:
			counts.Cancelled = n
		}
	}
	return counts, classify(rows.Err(), "count applications")
}

func (s *Store) CountApproved(ctx context.Context, eventID int64) (int, error) {
	return s.count(ctx, "count approved",
		`SELECT COUNT(*) FROM applications WHERE event_id = ? AND status = ?`, eventID, models.ApplicationApproved)
}

// HasActiveApplication reports whether the participant already holds a
// non-cancelled application for the event.
func (s *Store) HasActiveApplication(ctx context.Context, participantID, eventID int64) (bool, error) {
	n, err := s.count(ctx, "active application", `
		SELECT COUNT(*) FROM applications
		WHERE participant_id = ? AND event_id = ? AND status <> ?`,
		participantID, eventID, models.ApplicationCancelled)
	return n > 0, err
}

// SetApplicationStatus moves an application to status if it is still at
// version. A stale version yields models.ErrConflict.
func (s *Store) SetApplicationStatus(ctx context.Context, id, version int64, status models.ApplicationStatus) error {
	n, err := s.exec(ctx, "set application status", `
		UPDATE applications SET status = ?, version = version + 1 WHERE id = ? AND version = ?`,
		status, id, version)
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := s.Application(ctx, id); err != nil {
			return err
		}
		return models.ErrConflict
	}
	return nil
}
