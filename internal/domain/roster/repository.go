package roster

import "context"

// Repository exposes roster persistence operations. Every multi-row method is
// applied as a single all-or-nothing unit.
type Repository interface {
	Get(ctx context.Context, matchID, userID string) (Entry, bool, error)
	ListByMatch(ctx context.Context, matchID string) ([]Entry, error)
	// Create returns ErrDuplicateEntry when the player already has an entry.
	Create(ctx context.Context, entry Entry) (Entry, error)
	UpdateStatus(ctx context.Context, matchID, userID string, status Status) (Entry, bool, error)
	// ApplyAssignments returns ErrEntryNotFound, and changes nothing, when any
	// user has no entry for the match.
	ApplyAssignments(ctx context.Context, matchID string, assignments []Assignment) error
	// Redistribute hands the current roster to plan and applies the returned
	// assignments in the same unit, so no entry can be added in between. An
	// error from plan is returned as is and nothing changes.
	Redistribute(ctx context.Context, matchID string, plan func(entries []Entry) ([]Assignment, error)) ([]Assignment, error)
	ClearAssignments(ctx context.Context, matchID string) (int64, error)
	// UpsertSides creates confirmed entries for unknown users and only moves the
	// side of existing ones. It returns ErrEntryNotFound when a user is not in
	// the user directory.
	UpsertSides(ctx context.Context, matchID string, assignments []Assignment) error
}
