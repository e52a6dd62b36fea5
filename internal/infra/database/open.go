package database

import (
	"context"
	"database/sql"
	"fmt"

	"daily_reminder_bot/internal/domain/measurement"
	"daily_reminder_bot/internal/domain/reminder"
	"daily_reminder_bot/internal/infra/config"
)

// Stores bundles the repositories backed by one database handle.
type Stores struct {
	DB        *sql.DB
	Schedules reminder.Repository
	Values    measurement.Repository
}

func (s *Stores) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// Open connects to the configured driver, applies migrations and builds the repositories.
func Open(ctx context.Context, driver, url string) (*Stores, error) {
	var (
		db  *sql.DB
		err error
	)
	switch driver {
	case config.DriverPostgres:
		db, err = NewPostgresConnection(url)
	case config.DriverSQLite:
		db, err = NewSQLiteConnection(ctx, url)
	default:
		return nil, fmt.Errorf("unknown database driver: %s", driver)
	}
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db, driver); err != nil {
		db.Close()
		return nil, err
	}

	if driver == config.DriverPostgres {
		return &Stores{
			DB:        db,
			Schedules: NewPostgresScheduleRepository(db),
			Values:    NewPostgresValueRepository(db),
		}, nil
	}
	return &Stores{
		DB:        db,
		Schedules: NewSQLiteScheduleRepository(db),
		Values:    NewSQLiteValueRepository(db),
	}, nil
}
