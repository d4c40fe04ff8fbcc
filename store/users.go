package store

import (
	"context"
	"database/sql"
	"time"

	"race-events/models"
)

const userColumns = `u.id, u.email, u.password_hash, u.first_name, u.last_name, u.role`

const participantColumns = userColumns + `,
	p.driver_license, p.date_of_birth, p.phone, p.registration_date, p.best_lap_ms, p.podium_count`

type participantRow struct {
	p       models.Participant
	phone   sql.NullString
	bestLap sql.NullInt64
}

func (r *participantRow) dest() []interface{} {
	return []interface{}{
		&r.p.ID, &r.p.Email, &r.p.PasswordHash, &r.p.FirstName, &r.p.LastName, &r.p.Role,
		&r.p.DriverLicense, &r.p.DateOfBirth, &r.phone, &r.p.RegistrationDate, &r.bestLap, &r.p.PodiumCount,
	}
}

func (r *participantRow) participant() models.Participant {
	p := r.p
	p.Phone = r.phone.String
	if r.bestLap.Valid {
		d := fromMS(r.bestLap.Int64)
		p.BestLapTime = &d
	}
	return p
}

// CreateParticipant inserts the shared identity row and the participant
// extension in one transaction and fills p.ID.
func (s *Store) CreateParticipant(ctx context.Context, p *models.Participant) error {
	return s.WithTx(ctx, func(tx *Store) error {
		p.Role = models.RoleParticipant
		id, err := tx.insertUser(ctx, p.User)
		if err != nil {
			return err
		}
		if p.RegistrationDate.IsZero() {
			p.RegistrationDate = tx.Now()
		}
		_, err = tx.insert(ctx, "insert participant", `
			INSERT INTO participants (user_id, driver_license, date_of_birth, phone, registration_date, podium_count)
			VALUES (?, ?, ?, ?, ?, 0)`,
			id, p.DriverLicense, p.DateOfBirth, nullString(p.Phone), p.RegistrationDate)
		if err != nil {
			return err
		}
		p.ID = id
		return nil
	})
}

func (s *Store) CreateAdministrator(ctx context.Context, a *models.Administrator) error {
	return s.WithTx(ctx, func(tx *Store) error {
		a.Role = models.RoleAdministrator
		id, err := tx.insertUser(ctx, a.User)
		if err != nil {
			return err
		}
		if a.HireDate.IsZero() {
			a.HireDate = tx.Now()
		}
		_, err = tx.insert(ctx, "insert administrator", `
			INSERT INTO administrators (user_id, department, hire_date) VALUES (?, ?, ?)`,
			id, nullString(a.Department), a.HireDate)
		if err != nil {
			return err
		}
		a.ID = id
		return nil
	})
}

func (s *Store) insertUser(ctx context.Context, u models.User) (int64, error) {
	return s.insert(ctx, "insert user", `
		INSERT INTO users (email, password_hash, first_name, last_name, role) VALUES (?, ?, ?, ?, ?)`,
		u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Role)
}

func (s *Store) UserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.user(ctx, "user by email", `SELECT `+userColumns+` FROM users u WHERE u.email = ?`, email)
}

func (s *Store) UserByID(ctx context.Context, id int64) (models.User, error) {
	return s.user(ctx, "user by id", `SELECT `+userColumns+` FROM users u WHERE u.id = ?`, id)
}

func (s *Store) user(ctx context.Context, op, query string, arg interface{}) (models.User, error) {
	var u models.User
	err := s.q.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role)
	if err != nil {
		return models.User{}, classify(err, op)
	}
	return u, nil
}

func (s *Store) Participant(ctx context.Context, id int64) (models.Participant, error) {
	var r participantRow
	err := s.q.QueryRowContext(ctx, `
		SELECT `+participantColumns+`
		FROM participants p JOIN users u ON u.id = p.user_id
		WHERE p.user_id = ?`, id).Scan(r.dest()...)
	if err != nil {
		return models.Participant{}, classify(err, "participant")
	}
	return r.participant(), nil
}

// IncrementPodiumCount adds one podium to the participant's career tally.
func (s *Store) IncrementPodiumCount(ctx context.Context, participantID int64) error {
	n, err := s.exec(ctx, "increment podium count",
		`UPDATE participants SET podium_count = podium_count + 1 WHERE user_id = ?`, participantID)
	if err != nil {
		return err
	}
	if n == 0 {
		return classify(sql.ErrNoRows, "increment podium count")
	}
	return nil
}

// ImproveBestLap stores lap as the participant's career best when none is
// set or lap is strictly faster. It reports whether the value changed.
func (s *Store) ImproveBestLap(ctx context.Context, participantID int64, lap time.Duration) (bool, error) {
	n, err := s.exec(ctx, "improve best lap", `
		UPDATE participants SET best_lap_ms = ?
		WHERE user_id = ? AND (best_lap_ms IS NULL OR best_lap_ms > ?)`,
		ms(lap), participantID, ms(lap))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
