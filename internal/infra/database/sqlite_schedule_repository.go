package database

import (
	"context"
	"database/sql"
	"time"

	"daily_reminder_bot/internal/domain/reminder"
)

// SQLiteScheduleRepository stores schedules in an embedded SQLite database.
// Timestamps are stored as unix seconds.
type SQLiteScheduleRepository struct {
	db *sql.DB
}

func NewSQLiteScheduleRepository(db *sql.DB) *SQLiteScheduleRepository {
	return &SQLiteScheduleRepository{db: db}
}

func (r *SQLiteScheduleRepository) Create(ctx context.Context, conversationID, ownerID int64, hour, minute int) (*reminder.Schedule, error) {
	if err := reminder.ValidateTimeOfDay(hour, minute); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Second)
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO schedules (conversation_id, owner_id, hour, minute, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		conversationID, ownerID, hour, minute, now.Unix(),
	)
	if err != nil {
		return nil, &reminder.StoreError{Op: "create", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, &reminder.StoreError{Op: "create", Err: err}
	}

	return &reminder.Schedule{
		ID:             id,
		ConversationID: conversationID,
		OwnerID:        ownerID,
		Hour:           hour,
		Minute:         minute,
		CreatedAt:      now,
	}, nil
}

func (r *SQLiteScheduleRepository) ListByConversation(ctx context.Context, conversationID int64) ([]*reminder.Schedule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, conversation_id, owner_id, hour, minute, created_at
		FROM schedules
		WHERE conversation_id = ?
		ORDER BY id`,
		conversationID,
	)
	if err != nil {
		return nil, &reminder.StoreError{Op: "list by conversation", Err: err}
	}
	defer rows.Close()
	return scanSQLiteSchedules(rows)
}

func (r *SQLiteScheduleRepository) ListAll(ctx context.Context) ([]*reminder.Schedule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, conversation_id, owner_id, hour, minute, created_at
		FROM schedules
		ORDER BY conversation_id, id`)
	if err != nil {
		return nil, &reminder.StoreError{Op: "list all", Err: err}
	}
	defer rows.Close()
	return scanSQLiteSchedules(rows)
}

func (r *SQLiteScheduleRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id); err != nil {
		return &reminder.StoreError{Op: "delete", Err: err}
	}
	return nil
}

func scanSQLiteSchedules(rows *sql.Rows) ([]*reminder.Schedule, error) {
	schedules := make([]*reminder.Schedule, 0)
	for rows.Next() {
		var (
			s         reminder.Schedule
			createdAt int64
		)
		if err := rows.Scan(&s.ID, &s.ConversationID, &s.OwnerID, &s.Hour, &s.Minute, &createdAt); err != nil {
			return nil, &reminder.StoreError{Op: "scan", Err: err}
		}
		s.CreatedAt = time.Unix(createdAt, 0).UTC()
		schedules = append(schedules, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, &reminder.StoreError{Op: "iterate", Err: err}
	}
	return schedules, nil
}
