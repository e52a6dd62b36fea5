package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	defaultSQLitePath      = "./data/reminders.db"
	defaultPromptQuestion  = "How are you today?"
	defaultPromptOptions   = "😫,🙁,😐,🙂,😄"
	defaultShutdownTimeout = 10 * time.Second
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken   string
	DatabaseDriver  string // sqlite or postgres
	DatabaseURL     string // file path for sqlite, DSN for postgres
	AuthUsers       []int64
	PromptQuestion  string
	PromptOptions   []string
	LogLevel        string
	Environment     string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables; a missing file is fine.
	_ = godotenv.Load()
	return fromEnv(os.Getenv)
}

func fromEnv(getenv func(string) string) (*AppConfig, error) {
	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(getenv("DATABASE_DRIVER")))
	if cfg.DatabaseDriver == "" {
		cfg.DatabaseDriver = DriverSQLite
	}
	cfg.DatabaseURL = getenv("DATABASE_URL")
	switch cfg.DatabaseDriver {
	case DriverSQLite:
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = defaultSQLitePath
		}
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is not set")
		}
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}

	cfg.AuthUsers, err = parseIDList(getenv("AUTH_USERS"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_USERS: %w", err)
	}
	if len(cfg.AuthUsers) == 0 {
		return nil, fmt.Errorf("AUTH_USERS is not set")
	}

	cfg.PromptQuestion = strings.TrimSpace(getenv("PROMPT_QUESTION"))
	if cfg.PromptQuestion == "" {
		cfg.PromptQuestion = defaultPromptQuestion
	}

	options := getenv("PROMPT_OPTIONS")
	if strings.TrimSpace(options) == "" {
		options = defaultPromptOptions
	}
	cfg.PromptOptions = splitList(options)

	cfg.LogLevel = strings.ToLower(getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	cfg.ShutdownTimeout = defaultShutdownTimeout
	if raw := getenv("SHUTDOWN_TIMEOUT"); raw != "" {
		cfg.ShutdownTimeout, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
		}
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseIDList(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range splitList(raw) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("user id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
