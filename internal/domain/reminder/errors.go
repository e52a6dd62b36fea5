package reminder

import (
	"errors"
	"fmt"
)

// ErrAlreadyReconciled is returned when startup reconciliation is attempted twice.
var ErrAlreadyReconciled = errors.New("reminders already reconciled")

// ValidationError reports an out-of-range time of day.
type ValidationError struct {
	Field string
	Value int
}

func (e *ValidationError) Error() string {
	switch e.Field {
	case "hour":
		return fmt.Sprintf("invalid hour %d: must be between 0 and 23", e.Value)
	case "minute":
		return fmt.Sprintf("invalid minute %d: must be between 0 and 59", e.Value)
	default:
		return fmt.Sprintf("invalid %s %d", e.Field, e.Value)
	}
}

// StoreError wraps a persistence backend failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("schedule store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// DeliveryError is returned by a fire callback that could not deliver a reminder.
// It is logged by the scheduler and never reaches a caller.
type DeliveryError struct {
	ConversationID int64
	Err            error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver reminder to conversation %d: %v", e.ConversationID, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
