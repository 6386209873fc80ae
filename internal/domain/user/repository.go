package user

import "context"

// Repository is the read-only user directory.
type Repository interface {
	GetByID(ctx context.Context, userID string) (Profile, bool, error)
	GetByEmail(ctx context.Context, email string) (Profile, bool, error)
}
