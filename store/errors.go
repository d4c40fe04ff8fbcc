package store

import (
	"database/sql"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"race-events/models"
)

const (
	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
	mysqlLockDeadlock    = 1213
	mysqlLockWaitTimeout = 1205
)

// ErrInUse is returned when a delete is blocked by a referencing row.
var ErrInUse = errors.New("row is still referenced")

// classify maps driver errors onto the domain taxonomy and wraps everything
// else with op.
func classify(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Wrap(models.ErrNotFound, op)
	}

	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlDuplicateEntry:
			return errors.Wrapf(models.ErrDuplicate, "%s: %s", op, me.Message)
		case mysqlRowIsReferenced:
			return errors.Wrapf(ErrInUse, "%s: %s", op, me.Message)
		case mysqlLockDeadlock, mysqlLockWaitTimeout:
			return errors.Wrapf(models.ErrConflict, "%s: %s", op, me.Message)
		}
	}

	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return errors.Wrapf(models.ErrDuplicate, "%s: %s", op, se.Error())
		case sqlite3.ErrConstraintForeignKey:
			return errors.Wrapf(ErrInUse, "%s: %s", op, se.Error())
		}
		if se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked {
			return errors.Wrapf(models.ErrConflict, "%s: %s", op, se.Error())
		}
	}
	return errors.Wrap(err, op)
}
