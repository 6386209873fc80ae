package matchevent

import "context"

// Ledger is the append-only event store. Append inserts the event and
// recomputes the match score in the same atomic unit, serialized per match.
type Ledger interface {
	Append(ctx context.Context, event Event) (Event, Score, error)
	// ListByMatch returns events ordered by minute, then insertion sequence.
	ListByMatch(ctx context.Context, matchID string) ([]Event, error)
}
