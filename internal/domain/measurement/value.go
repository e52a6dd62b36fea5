package measurement

import (
	"context"
	"time"
)

// Value is one answer to the daily prompt.
type Value struct {
	ID         int64
	UserID     int64
	Date       time.Time // calendar day the answer belongs to
	RecordedAt time.Time
	Option     int // index into the configured prompt options
}

// Repository persists prompt answers.
type Repository interface {
	// Save inserts v and sets v.ID.
	Save(ctx context.Context, v *Value) error
}
