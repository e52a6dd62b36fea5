package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"daily_reminder_bot/internal/domain/measurement"
)

type PostgresValueRepository struct {
	db *sql.DB
}

func NewPostgresValueRepository(db *sql.DB) *PostgresValueRepository {
	return &PostgresValueRepository{db: db}
}

func (r *PostgresValueRepository) Save(ctx context.Context, v *measurement.Value) error {
	query := `INSERT INTO prompt_values (user_id, value_date, recorded_at, option)
               VALUES ($1, $2, $3, $4)
               RETURNING id`
	date := time.Date(v.Date.Year(), v.Date.Month(), v.Date.Day(), 0, 0, 0, 0, time.UTC)
	if err := r.db.QueryRowContext(ctx, query, v.UserID, date, v.RecordedAt, v.Option).Scan(&v.ID); err != nil {
		return fmt.Errorf("error saving prompt value: %w", err)
	}
	return nil
}

type SQLiteValueRepository struct {
	db *sql.DB
}

func NewSQLiteValueRepository(db *sql.DB) *SQLiteValueRepository {
	return &SQLiteValueRepository{db: db}
}

func (r *SQLiteValueRepository) Save(ctx context.Context, v *measurement.Value) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO prompt_values (user_id, value_date, recorded_at, option)
		VALUES (?, ?, ?, ?)`,
		v.UserID, v.Date.Format("2006-01-02"), v.RecordedAt.UTC().Unix(), v.Option,
	)
	if err != nil {
		return fmt.Errorf("error saving prompt value: %w", err)
	}
	if v.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("error reading prompt value id: %w", err)
	}
	return nil
}
