package location

import "context"

// Repository exposes location lookups.
type Repository interface {
	GetByID(ctx context.Context, locationID string) (Location, bool, error)
}
