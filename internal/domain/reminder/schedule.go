package reminder

import (
	"fmt"
	"time"
)

// Schedule is a persisted daily reminder for one conversation.
// Records are never updated: a reminder is changed by deleting it and creating a new one.
type Schedule struct {
	ID             int64
	ConversationID int64 // chat the reminder fires into
	OwnerID        int64 // user who created it
	Hour           int   // 0..23, local clock
	Minute         int   // 0..59, local clock
	CreatedAt      time.Time
}

// Validate checks that Hour and Minute form a valid time of day.
func (s Schedule) Validate() error {
	return ValidateTimeOfDay(s.Hour, s.Minute)
}

// Clock returns the trigger time formatted as HH:MM.
func (s Schedule) Clock() string {
	return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
}

// MinutesOfDay is used to order schedules by trigger time.
func (s Schedule) MinutesOfDay() int {
	return s.Hour*60 + s.Minute
}

// ValidateTimeOfDay returns a *ValidationError when hour or minute is out of range.
func ValidateTimeOfDay(hour, minute int) error {
	if hour < 0 || hour > 23 {
		return &ValidationError{Field: "hour", Value: hour}
	}
	if minute < 0 || minute > 59 {
		return &ValidationError{Field: "minute", Value: minute}
	}
	return nil
}
