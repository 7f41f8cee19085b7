package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "visatrack.db", cfg.Database.Database)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "https://api.resend.com", cfg.Mail.APIBaseURL)
	assert.Equal(t, "https://api.telegram.org", cfg.Telegram.APIBaseURL)
	assert.True(t, cfg.Security.RateLimitEnabled)
	assert.Empty(t, cfg.Security.DispatchToken)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "visatrack")
	t.Setenv("DB_USERNAME", "app")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DISPATCH_TOKEN", "scheduler-token")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "scheduler-token", cfg.Security.DispatchToken)
	assert.False(t, cfg.Security.RateLimitEnabled)

	dsn := cfg.Database.GetDSN()
	assert.Contains(t, dsn, "host=db.internal")
	assert.Contains(t, dsn, "dbname=visatrack")
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_DRIVER", "oracle")

	_, err := Load()
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestLoadWeChatPartialCredentials(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("WECHAT_APP_ID", "app-id")

	_, err := Load()
	assert.ErrorContains(t, err, "must be set together")
}

func TestGetServerAddr(t *testing.T) {
	cfg := ServerConfig{Host: "0.0.0.0", Port: 8081}
	assert.Equal(t, "0.0.0.0:8081", cfg.GetServerAddr())
}

func TestGetDSNSqlite(t *testing.T) {
	cfg := DatabaseConfig{Driver: "sqlite", Database: "test.db"}
	assert.Equal(t, "test.db", cfg.GetDSN())
}
