package team

import "context"

// Repository is the read-only team directory the match engine consumes.
type Repository interface {
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	ListMembers(ctx context.Context, teamID string) ([]Member, error)
}
