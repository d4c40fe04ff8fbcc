package config

import (
	"strings"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("ADMIN_PASSWORD", "")

	c, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if c.HTTPAddr != ":8000" {
		t.Errorf("HTTPAddr = %q", c.HTTPAddr)
	}
	if c.DBDriver != DriverMySQL || c.DBPort != 3306 {
		t.Errorf("db = %s:%d", c.DBDriver, c.DBPort)
	}
	if c.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %v", c.TokenTTL)
	}
	if c.TelegramEnabled() || c.SheetsEnabled() {
		t.Error("optional integrations should be off by default")
	}
}

func TestFromEnvCollectsAllErrors(t *testing.T) {
	t.Setenv("SECRET", "")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("TELEGRAM_CHAT_ID", "not-a-number")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD", "")

	_, err := FromEnv()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"SECRET", "DB_DRIVER", "TELEGRAM_CHAT_ID", "ADMIN_PASSWORD"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestFromEnvSQLite(t *testing.T) {
	t.Setenv("SECRET", "x")
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("SQLITE_PATH", "/tmp/race.db")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "-1001")

	c, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if c.SQLitePath != "/tmp/race.db" {
		t.Errorf("SQLitePath = %q", c.SQLitePath)
	}
	if !c.TelegramEnabled() || c.TelegramChatID != -1001 {
		t.Errorf("telegram = %v %d", c.TelegramEnabled(), c.TelegramChatID)
	}
}
