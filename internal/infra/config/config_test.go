package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := fromEnv(envMap(map[string]string{
		"TELEGRAM_TOKEN": "token",
		"AUTH_USERS":     "11, 22",
	}))
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, defaultSQLitePath, cfg.DatabaseURL)
	assert.Equal(t, []int64{11, 22}, cfg.AuthUsers)
	assert.Equal(t, defaultPromptQuestion, cfg.PromptQuestion)
	assert.Len(t, cfg.PromptOptions, 5)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestFromEnv_Postgres(t *testing.T) {
	cfg, err := fromEnv(envMap(map[string]string{
		"TELEGRAM_TOKEN":   "token",
		"AUTH_USERS":       "1",
		"DATABASE_DRIVER":  "Postgres",
		"DATABASE_URL":     "postgres://localhost/reminders",
		"PROMPT_OPTIONS":   "bad, ok ,good,",
		"SHUTDOWN_TIMEOUT": "3s",
	}))
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, []string{"bad", "ok", "good"}, cfg.PromptOptions)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestFromEnv_Errors(t *testing.T) {
	cases := map[string]map[string]string{
		"missing token":        {"AUTH_USERS": "1"},
		"missing auth users":   {"TELEGRAM_TOKEN": "t"},
		"bad auth user":        {"TELEGRAM_TOKEN": "t", "AUTH_USERS": "1,abc"},
		"postgres without url": {"TELEGRAM_TOKEN": "t", "AUTH_USERS": "1", "DATABASE_DRIVER": "postgres"},
		"unknown driver":       {"TELEGRAM_TOKEN": "t", "AUTH_USERS": "1", "DATABASE_DRIVER": "mysql"},
		"bad timeout":          {"TELEGRAM_TOKEN": "t", "AUTH_USERS": "1", "SHUTDOWN_TIMEOUT": "soon"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := fromEnv(envMap(env))
			assert.Error(t, err)
		})
	}
}
