package driver

import (
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"race-events/config"
)

//go:embed migrations
var migrations embed.FS

// Migrate applies every pending migration for the configured dialect.
func Migrate(cfg config.Config) error {
	src, err := iofs.New(migrations, "migrations/"+cfg.DBDriver)
	if err != nil {
		return errors.Wrap(err, "load migrations")
	}
	url, err := migrationURL(cfg)
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return errors.Wrap(err, "init migrations")
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "apply migrations")
	}
	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return errors.Wrap(err, "read migration version")
	}
	log.WithFields(log.Fields{"version": version, "dirty": dirty}).Info("database migrated")
	return nil
}

func migrationURL(cfg config.Config) (string, error) {
	switch cfg.DBDriver {
	case config.DriverMySQL:
		mc := mysqlConfig(cfg)
		// migration files hold several statements each
		mc.MultiStatements = true
		return "mysql://" + mc.FormatDSN(), nil
	case config.DriverSQLite:
		return "sqlite3://" + cfg.SQLitePath, nil
	}
	return "", fmt.Errorf("unknown database driver %q", cfg.DBDriver)
}
