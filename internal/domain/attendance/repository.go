package attendance

import "context"

// PunchJournal records every punch attempt for supervisor review. Writes
// are best-effort: a journal failure must never fail the punch itself.
type PunchJournal interface {
	// Record inserts a punch event and returns it with ID and timestamps set.
	Record(ctx context.Context, event PunchEvent) (PunchEvent, error)

	// List retrieves punch events with filters and pagination.
	List(ctx context.Context, filter PunchFilter) ([]PunchEvent, int64, error)
}
