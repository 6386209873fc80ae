package match

import (
	"context"
	"time"
)

// Repository exposes match persistence operations.
type Repository interface {
	Create(ctx context.Context, item Match) (Match, error)
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	List(ctx context.Context) ([]Match, error)
	ListByTeam(ctx context.Context, teamID string) ([]Match, error)
	// TransitionStatus moves the match to `to` only when its current status is
	// one of `from`. An empty `from` applies the change unconditionally. The
	// boolean is false when no row matched.
	TransitionStatus(ctx context.Context, matchID string, from []Status, to Status, at time.Time) (Match, bool, error)
}
