package store

import (
	"context"
	"database/sql"

	"race-events/models"
)

const carColumns = `c.id, c.participant_id, c.brand, c.model, c.car_class, c.year, c.color, c.license_plate, c.horsepower, c.drive_type`

type carRow struct {
	c          models.Car
	color      sql.NullString
	horsepower sql.NullInt64
	driveType  sql.NullString
}

func (r *carRow) dest() []interface{} {
	return []interface{}{
		&r.c.ID, &r.c.ParticipantID, &r.c.Brand, &r.c.Model, &r.c.CarClass, &r.c.Year,
		&r.color, &r.c.LicensePlate, &r.horsepower, &r.driveType,
	}
}

func (r *carRow) car() models.Car {
	c := r.c
	c.Color = r.color.String
	c.Horsepower = intPtr(r.horsepower)
	c.DriveType = r.driveType.String
	return c
}

func (s *Store) CreateCar(ctx context.Context, c *models.Car) error {
	id, err := s.insert(ctx, "insert car", `
		INSERT INTO cars (participant_id, brand, model, car_class, year, color, license_plate, horsepower, drive_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ParticipantID, c.Brand, c.Model, c.CarClass, c.Year, nullString(c.Color),
		c.LicensePlate, nullInt(c.Horsepower), nullString(c.DriveType))
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

// UpdateCar overwrites a car owned by c.ParticipantID.
func (s *Store) UpdateCar(ctx context.Context, c models.Car) error {
	n, err := s.exec(ctx, "update car", `
		UPDATE cars SET brand = ?, model = ?, car_class = ?, year = ?, color = ?,
			license_plate = ?, horsepower = ?, drive_type = ?
		WHERE id = ? AND participant_id = ?`,
		c.Brand, c.Model, c.CarClass, c.Year, nullString(c.Color),
		c.LicensePlate, nullInt(c.Horsepower), nullString(c.DriveType),
		c.ID, c.ParticipantID)
	if err != nil {
		return err
	}
	if n == 0 {
		return classify(sql.ErrNoRows, "update car")
	}
	return nil
}

func (s *Store) DeleteCar(ctx context.Context, id, participantID int64) error {
	n, err := s.exec(ctx, "delete car", `DELETE FROM cars WHERE id = ? AND participant_id = ?`, id, participantID)
	if err != nil {
		return err
	}
	if n == 0 {
		return classify(sql.ErrNoRows, "delete car")
	}
	return nil
}

func (s *Store) Car(ctx context.Context, id int64) (models.Car, error) {
	var r carRow
	err := s.q.QueryRowContext(ctx, `SELECT `+carColumns+` FROM cars c WHERE c.id = ?`, id).Scan(r.dest()...)
	if err != nil {
		return models.Car{}, classify(err, "car")
	}
	return r.car(), nil
}

func (s *Store) CarsByParticipant(ctx context.Context, participantID int64) ([]models.Car, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT `+carColumns+` FROM cars c WHERE c.participant_id = ? ORDER BY c.brand, c.model, c.id`, participantID)
	if err != nil {
		return nil, classify(err, "cars by participant")
	}
	defer rows.Close()

	cars := []models.Car{}
	for rows.Next() {
		var r carRow
		if err := rows.Scan(r.dest()...); err != nil {
			return nil, classify(err, "scan car")
		}
		cars = append(cars, r.car())
	}
	return cars, classify(rows.Err(), "cars by participant")
}

// LicensePlateTaken reports whether another car already uses plate.
func (s *Store) LicensePlateTaken(ctx context.Context, plate string, exceptID int64) (bool, error) {
	n, err := s.count(ctx, "license plate taken",
		`SELECT COUNT(*) FROM cars WHERE license_plate = ? AND id <> ?`, plate, exceptID)
	return n > 0, err
}
