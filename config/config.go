package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"
)

type Config struct {
	HTTPAddr string

	Secret   string
	TokenTTL time.Duration

	// AdminEmail and AdminPassword seed the first administrator account.
	AdminEmail    string
	AdminPassword string

	DBDriver   string
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	SQLitePath string

	LogLevel  string
	LogFormat string

	TelegramToken  string
	TelegramChatID int64

	GoogleServiceAccountJSON string
	SpreadsheetID            string
	ResultsSheet             string
}

// TelegramEnabled reports whether race-control notifications are configured.
func (c Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

// SheetsEnabled reports whether standings are published to Google Sheets.
func (c Config) SheetsEnabled() bool {
	return c.GoogleServiceAccountJSON != "" && c.SpreadsheetID != ""
}

// FromEnv reads the configuration from the environment and reports every
// missing or malformed variable at once.
func FromEnv() (Config, error) {
	var c Config
	var result *multierror.Error

	c.HTTPAddr = getenv("HTTP_ADDR", ":8000")

	c.Secret = getenv("SECRET", "")
	if c.Secret == "" {
		result = multierror.Append(result, fmt.Errorf("SECRET is empty"))
	}

	ttl, err := time.ParseDuration(getenv("TOKEN_TTL", "24h"))
	if err != nil || ttl <= 0 {
		result = multierror.Append(result, fmt.Errorf("TOKEN_TTL: invalid duration %q", os.Getenv("TOKEN_TTL")))
	}
	c.TokenTTL = ttl

	c.AdminEmail = getenv("ADMIN_EMAIL", "")
	c.AdminPassword = getenv("ADMIN_PASSWORD", "")
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		result = multierror.Append(result, fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together"))
	}

	c.DBDriver = getenv("DB_DRIVER", DriverMySQL)
	switch c.DBDriver {
	case DriverMySQL:
		c.DBHost = getenv("DB_HOST", "127.0.0.1")
		c.DBUser = getenv("DB_USER", "root")
		c.DBPassword = getenv("DB_PASSWORD", "")
		c.DBName = getenv("DB_NAME", "race_events")
		port, err := strconv.Atoi(getenv("DB_PORT", "3306"))
		if err != nil || port <= 0 {
			result = multierror.Append(result, fmt.Errorf("DB_PORT: invalid port %q", os.Getenv("DB_PORT")))
		}
		c.DBPort = port
	case DriverSQLite:
		c.SQLitePath = getenv("SQLITE_PATH", "race-events.db")
	default:
		result = multierror.Append(result, fmt.Errorf("DB_DRIVER: unknown driver %q", c.DBDriver))
	}

	c.LogLevel = getenv("LOG_LEVEL", "info")
	c.LogFormat = getenv("LOG_FORMAT", "json")

	c.TelegramToken = getenv("TELEGRAM_BOT_TOKEN", "")
	if raw := getenv("TELEGRAM_CHAT_ID", ""); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("TELEGRAM_CHAT_ID: invalid chat id %q", raw))
		}
		c.TelegramChatID = id
	}

	c.GoogleServiceAccountJSON = getenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	c.SpreadsheetID = getenv("GOOGLE_SHEETS_SPREADSHEET_ID", "")
	c.ResultsSheet = getenv("GOOGLE_SHEETS_RESULTS_SHEET", "Results")

	return c, result.ErrorOrNil()
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}
