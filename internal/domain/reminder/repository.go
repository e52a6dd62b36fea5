package reminder

import "context"

// Repository is the durable store for schedules. It is the only source of truth;
// implementations must be safe for concurrent use.
type Repository interface {
	// Create validates hour/minute, persists a new schedule and returns it with its ID set.
	Create(ctx context.Context, conversationID, ownerID int64, hour, minute int) (*Schedule, error)
	ListByConversation(ctx context.Context, conversationID int64) ([]*Schedule, error)
	// ListAll is used by startup reconciliation.
	ListAll(ctx context.Context) ([]*Schedule, error)
	// Delete removes a schedule. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id int64) error
}
