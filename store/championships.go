package store

import (
	"context"
	"database/sql"

	"race-events/models"
)

const championshipColumns = `c.id, c.title, c.description, c.start_date, c.end_date, c.required_car_class,
	c.min_podiums_required, c.administrator_id`

type championshipRow struct {
	c           models.Championship
	description sql.NullString
}

func (r *championshipRow) dest() []interface{} {
	return []interface{}{
		&r.c.ID, &r.c.Title, &r.description, &r.c.StartDate, &r.c.EndDate, &r.c.RequiredCarClass,
		&r.c.MinPodiumsRequired, &r.c.AdministratorID,
	}
}

func (r *championshipRow) championship() models.Championship {
	c := r.c
	c.Description = r.description.String
	return c
}

func (s *Store) CreateChampionship(ctx context.Context, c *models.Championship) error {
	if c.MinPodiumsRequired == 0 {
		c.MinPodiumsRequired = models.DefaultMinPodiumsRequired
	}
	id, err := s.insert(ctx, "insert championship", `
		INSERT INTO championships (title, description, start_date, end_date, required_car_class,
			min_podiums_required, administrator_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.Title, nullString(c.Description), c.StartDate.UTC(), c.EndDate.UTC(), c.RequiredCarClass,
		c.MinPodiumsRequired, c.AdministratorID)
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

func (s *Store) UpdateChampionship(ctx context.Context, c models.Championship) error {
	n, err := s.exec(ctx, "update championship", `
		UPDATE championships SET title = ?, description = ?, start_date = ?, end_date = ?,
			required_car_class = ?, min_podiums_required = ?
		WHERE id = ? AND administrator_id = ?`,
		c.Title, nullString(c.Description), c.StartDate.UTC(), c.EndDate.UTC(),
		c.RequiredCarClass, c.MinPodiumsRequired, c.ID, c.AdministratorID)
	if err != nil {
		return err
	}
	if n == 0 {
		return classify(sql.ErrNoRows, "update championship")
	}
	return nil
}

// DeleteChampionship removes a championship; its events stay and lose the link.
func (s *Store) DeleteChampionship(ctx context.Context, id, adminID int64) error {
	return s.WithTx(ctx, func(tx *Store) error {
		if _, err := tx.exec(ctx, "unlink championship events",
			`UPDATE events SET championship_id = NULL WHERE championship_id = ?`, id); err != nil {
			return err
		}
		n, err := tx.exec(ctx, "delete championship",
			`DELETE FROM championships WHERE id = ? AND administrator_id = ?`, id, adminID)
		if err != nil {
			return err
		}
		if n == 0 {
			return classify(sql.ErrNoRows, "delete championship")
		}
		return nil
	})
}

// Championship loads a championship with its events.
func (s *Store) Championship(ctx context.Context, id int64) (models.Championship, error) {
	c, err := s.championship(ctx, id)
	if err != nil {
		return models.Championship{}, err
	}
	c.Events, err = s.events(ctx, "championship events",
		`SELECT `+eventColumns+` FROM events e WHERE e.championship_id = ? ORDER BY e.date, e.id`, id)
	if err != nil {
		return models.Championship{}, err
	}
	return c, nil
}

func (s *Store) championship(ctx context.Context, id int64) (models.Championship, error) {
	var r championshipRow
	err := s.q.QueryRowContext(ctx, `SELECT `+championshipColumns+` FROM championships c WHERE c.id = ?`, id).
		Scan(r.dest()...)
	if err != nil {
		return models.Championship{}, classify(err, "championship")
	}
	return r.championship(), nil
}

func (s *Store) Championships(ctx context.Context) ([]models.Championship, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+championshipColumns+` FROM championships c ORDER BY c.start_date DESC, c.id`)
	if err != nil {
		return nil, classify(err, "championships")
	}
	defer rows.Close()

	list := []models.Championship{}
	for rows.Next() {
		var r championshipRow
		if err := rows.Scan(r.dest()...); err != nil {
			return nil, classify(err, "scan championship")
		}
		list = append(list, r.championship())
	}
	return list, classify(rows.Err(), "championships")
}
