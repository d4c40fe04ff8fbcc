package driver

import (
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"race-events/config"
)

// ConnectDB opens and pings the database selected by cfg.DBDriver.
func ConnectDB(cfg config.Config) (*sql.DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(cfg.DBDriver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", cfg.DBDriver)
	}
	if cfg.DBDriver == config.DriverMySQL {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "ping %s", cfg.DBDriver)
	}
	log.WithField("driver", cfg.DBDriver).Info("database connected")
	return db, nil
}

// DSN builds the driver-specific data source name.
func DSN(cfg config.Config) (string, error) {
	switch cfg.DBDriver {
	case config.DriverMySQL:
		return mysqlConfig(cfg).FormatDSN(), nil
	case config.DriverSQLite:
		return SQLiteDSN(cfg.SQLitePath), nil
	}
	return "", fmt.Errorf("unknown database driver %q", cfg.DBDriver)
}

// SQLiteDSN enables foreign keys and waits on locks instead of failing fast.
func SQLiteDSN(path string) string {
	return "file:" + path + "?_foreign_keys=on&_busy_timeout=5000"
}

func mysqlConfig(cfg config.Config) *mysql.Config {
	mc := mysql.NewConfig()
	mc.User = cfg.DBUser
	mc.Passwd = cfg.DBPassword
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.DBHost, strconv.Itoa(cfg.DBPort))
	mc.DBName = cfg.DBName
	mc.ParseTime = true
	mc.Loc = time.UTC
	// UPDATE reports matched rather than changed rows, which the result
	// upsert relies on to tell an existing row from a missing one.
	mc.ClientFoundRows = true
	return mc
}
