package store

import (
	"context"
	"database/sql"

	"race-events/models"
)

const eventColumns = `e.id, e.title, e.description, e.date, e.location, e.track_type, e.type, e.max_participants,
	e.status, e.car_type_requirement, e.required_car_class, e.max_horsepower, e.required_drive_type,
	e.administrator_id, e.championship_id, e.version`

type eventRow struct {
	e                 models.Event
	description       sql.NullString
	requiredCarClass  sql.NullString
	maxHorsepower     sql.NullInt64
	requiredDriveType sql.NullString
	championshipID    sql.NullInt64
}

func (r *eventRow) dest() []interface{} {
	return []interface{}{
		&r.e.ID, &r.e.Title, &r.description, &r.e.Date, &r.e.Location, &r.e.TrackType, &r.e.Type,
		&r.e.MaxParticipants, &r.e.Status, &r.e.CarTypeRequirement, &r.requiredCarClass,
		&r.maxHorsepower, &r.requiredDriveType, &r.e.AdministratorID, &r.championshipID, &r.e.Version,
	}
}

func (r *eventRow) event() models.Event {
	e := r.e
	e.Description = r.description.String
	e.RequiredCarClass = r.requiredCarClass.String
	e.MaxHorsepower = intPtr(r.maxHorsepower)
	e.RequiredDriveType = r.requiredDriveType.String
	e.ChampionshipID = int64Ptr(r.championshipID)
	return e
}

func (s *Store) CreateEvent(ctx context.Context, e *models.Event) error {
	if e.Status == "" {
		e.Status = models.EventUpcoming
	}
	id, err := s.insert(ctx, "insert event", `
		INSERT INTO events (title, description, date, location, track_type, type, max_participants, status,
			car_type_requirement, required_car_class, max_horsepower, required_drive_type,
			administrator_id, championship_id, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)`,
		e.Title, nullString(e.Description), e.Date.UTC(), e.Location, e.TrackType, e.Type, e.MaxParticipants,
		e.Status, e.CarTypeRequirement, nullString(e.RequiredCarClass), nullInt(e.MaxHorsepower),
		nullString(e.RequiredDriveType), e.AdministratorID, nullInt64(e.ChampionshipID))
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// UpdateEvent rewrites the editable fields of an event owned by
// e.AdministratorID. Status moves through SetEventStatus only.
func (s *Store) UpdateEvent(ctx context.Context, e models.Event) error {
	n, err := s.exec(ctx, "update event", `
		UPDATE events SET title = ?, description = ?, date = ?, location = ?, track_type = ?, type = ?,
			max_participants = ?, car_type_requirement = ?, required_car_class = ?, max_horsepower = ?,
			required_drive_type = ?, championship_id = ?, version = version + 1
		WHERE id = ? AND administrator_id = ?`,
		e.Title, nullString(e.Description), e.Date.UTC(), e.Location, e.TrackType, e.Type,
		e.MaxParticipants, e.CarTypeRequirement, nullString(e.RequiredCarClass), nullInt(e.MaxHorsepower),
		nullString(e.RequiredDriveType), nullInt64(e.ChampionshipID),
		e.ID, e.AdministratorID)
	if err != nil {
		return err
	}
	if n == 0 {
		return classify(sql.ErrNoRows, "update event")
	}
	return nil
}

func (s *Store) SetEventStatus(ctx context.Context, id int64, status models.EventStatus) error {
	n, err := s.exec(ctx, "set event status",
		`UPDATE events SET status = ?, version = version + 1 WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return classify(sql.ErrNoRows, "set event status")
	}
	return nil
}

// LockEvent bumps the event's version so that concurrent transactions
// touching the same event serialize on its row. Call it first inside WithTx.
func (s *Store) LockEvent(ctx context.Context, id int64) error {
	n, err := s.exec(ctx, "lock event", `UPDATE events SET version = version + 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return classify(sql.ErrNoRows, "lock event")
	}
	return nil
}

// Event loads an event together with its championship, if any.
func (s *Store) Event(ctx context.Context, id int64) (models.Event, error) {
	var r eventRow
	err := s.q.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events e WHERE e.id = ?`, id).Scan(r.dest()...)
	if err != nil {
		return models.Event{}, classify(err, "event")
	}
	e := r.event()
	if e.ChampionshipID != nil {
		c, err := s.championship(ctx, *e.ChampionshipID)
		if err != nil {
			return models.Event{}, err
		}
		e.Championship = &c
	}
	return e, nil
}

// Events lists events ordered by date, optionally restricted to statuses.
func (s *Store) Events(ctx context.Context, statuses ...models.EventStatus) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e`
	args := make([]interface{}, 0, len(statuses))
	if len(statuses) > 0 {
		query += ` WHERE e.status IN (` + placeholders(len(statuses)) + `)`
		for _, st := range statuses {
			args = append(args, st)
		}
	}
	query += ` ORDER BY e.date, e.id`
	return s.events(ctx, "events", query, args...)
}

func (s *Store) EventsByAdministrator(ctx context.Context, adminID int64) ([]models.Event, error) {
	return s.events(ctx, "events by administrator",
		`SELECT `+eventColumns+` FROM events e WHERE e.administrator_id = ? ORDER BY e.date DESC, e.id`, adminID)
}

func (s *Store) events(ctx context.Context, op, query string, args ...interface{}) ([]models.Event, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err, op)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var r eventRow
		if err := rows.Scan(r.dest()...); err != nil {
			return nil, classify(err, "scan event")
		}
		events = append(events, r.event())
	}
	return events, classify(rows.Err(), op)
}
