// Package store is the relational persistence of the race-events domain.
// It speaks plain SQL through database/sql and runs unchanged on MySQL and
// SQLite.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type Store struct {
	db *sql.DB
	tx *sql.Tx
	q  querier
	// now is replaced in tests.
	now func() time.Time
}

func New(db *sql.DB) *Store {
	return &Store{db: db, q: db, now: time.Now}
}

// WithTx runs fn against a transactional view of the store. Everything fn
// writes is committed together or not at all. Nested calls join the
// enclosing transaction.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.tx != nil {
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback()

	if err := fn(&Store{db: s.db, tx: tx, q: tx, now: s.now}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return classify(err, "commit transaction")
	}
	return nil
}

func (s *Store) Now() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

func (s *Store) insert(ctx context.Context, op, query string, args ...interface{}) (int64, error) {
	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, classify(err, op)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrapf(err, "%s: last insert id", op)
	}
	return id, nil
}

// exec runs a write and returns how many rows it matched.
func (s *Store) exec(ctx context.Context, op, query string, args ...interface{}) (int64, error) {
	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, classify(err, op)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrapf(err, "%s: rows affected", op)
	}
	return n, nil
}

func (s *Store) count(ctx context.Context, op, query string, args ...interface{}) (int, error) {
	var n int
	if err := s.q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, classify(err, op)
	}
	return n, nil
}

func ms(d time.Duration) int64 {
	return d.Milliseconds()
}

func fromMS(v int64) time.Duration {
	return time.Duration(v) * time.Millisecond
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func nullInt64(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, 0, 2*n)
	for i := 0; i < n; i++ {
		if i > 0 {
			b = append(b, ',', ' ')
		}
		b = append(b, '?')
	}
	return string(b)
}
