package database

import (
	"context"
	"database/sql"
	"daily_reminder_bot/internal/domain/reminder"
)

type PostgresScheduleRepository struct {
	db *sql.DB
}

func NewPostgresScheduleRepository(db *sql.DB) *PostgresScheduleRepository {
	return &PostgresScheduleRepository{db: db}
}

func (r *PostgresScheduleRepository) Create(ctx context.Context, conversationID, ownerID int64, hour, minute int) (*reminder.Schedule, error) {
	if err := reminder.ValidateTimeOfDay(hour, minute); err != nil {
		return nil, err
	}

	query := `INSERT INTO schedules (conversation_id, owner_id, hour, minute)
               VALUES ($1, $2, $3, $4)
               RETURNING id, created_at`
	s := &reminder.Schedule{
		ConversationID: conversationID,
		OwnerID:        ownerID,
		Hour:           hour,
		Minute:         minute,
	}
	err := r.db.QueryRowContext(ctx, query, conversationID, ownerID, hour, minute).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return nil, &reminder.StoreError{Op: "create", Err: err}
	}
	return s, nil
}

func (r *PostgresScheduleRepository) ListByConversation(ctx context.Context, conversationID int64) ([]*reminder.Schedule, error) {
	query := `SELECT id, conversation_id, owner_id, hour, minute, created_at
               FROM schedules WHERE conversation_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, &reminder.StoreError{Op: "list by conversation", Err: err}
	}
	defer rows.Close()
	return scanPostgresSchedules(rows)
}

func (r *PostgresScheduleRepository) ListAll(ctx context.Context) ([]*reminder.Schedule, error) {
	query := `SELECT id, conversation_id, owner_id, hour, minute, created_at
               FROM schedules ORDER BY conversation_id, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &reminder.StoreError{Op: "list all", Err: err}
	}
	defer rows.Close()
	return scanPostgresSchedules(rows)
}

// Delete is idempotent: zero affected rows is not an error.
func (r *PostgresScheduleRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id); err != nil {
		return &reminder.StoreError{Op: "delete", Err: err}
	}
	return nil
}

func scanPostgresSchedules(rows *sql.Rows) ([]*reminder.Schedule, error) {
	schedules := make([]*reminder.Schedule, 0)
	for rows.Next() {
		s := &reminder.Schedule{}
		if err := rows.Scan(&s.ID, &s.ConversationID, &s.OwnerID, &s.Hour, &s.Minute, &s.CreatedAt); err != nil {
			return nil, &reminder.StoreError{Op: "scan", Err: err}
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, &reminder.StoreError{Op: "iterate", Err: err}
	}
	return schedules, nil
}
