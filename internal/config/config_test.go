package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
[database]
host = "db"
user = "bikes"
dbname = "bikes"

[admin]
token = "from-file"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "Europe/Copenhagen", cfg.Booking.TimeZone)
	assert.Equal(t, 62, cfg.Booking.MaxRangeDays)
	assert.Equal(t, 3, cfg.Booking.AssignAttempts)
	assert.Equal(t, "dkk", cfg.Booking.Currency)
	assert.False(t, cfg.Payments.Enabled)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "Europe/Copenhagen", cfg.Booking.Location().String())
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	t.Setenv("DB_PASSWORD", "p@ss word")
	t.Setenv("ADMIN_TOKEN", "from-env")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_123")

	cfg, err := Load(writeConfig(t, minimalConfig+`
[payments]
enabled = true
success_url = "https://bikefix.dk/booking/success"
cancel_url = "https://bikefix.dk/booking/cancel"
`))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Admin.Token)
	assert.Equal(t, "sk_test_123", cfg.Payments.SecretKey)
	assert.Equal(t, "whsec_123", cfg.Payments.WebhookSecret)
	assert.Equal(t, "postgres://bikes:p%40ss%20word@db:5432/bikes?sslmode=disable", cfg.Database.DSN())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown time zone", content: minimalConfig + "[booking]\ntime_zone = \"Mars/Olympus\"\n"},
		{name: "zero attempts", content: minimalConfig + "[booking]\nassign_attempts = 0\n"},
		{name: "payments without secrets", content: minimalConfig + "[payments]\nenabled = true\n"},
		{name: "no admin token", content: "[database]\nhost = \"db\"\nuser = \"u\"\ndbname = \"d\"\n"},
		{name: "bad port", content: minimalConfig + "[server]\nhttp_port = 70000\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
