package memory

import (
	"context"
	"strings"

	"github.com/riskibarqy/futplan/internal/domain/location"
	"github.com/riskibarqy/futplan/internal/domain/team"
	"github.com/riskibarqy/futplan/internal/domain/user"
)

type TeamRepository struct {
	store *Store
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.teams[teamID]
	return item, ok, nil
}

func (r *TeamRepository) ListMembers(_ context.Context, teamID string) ([]team.Member, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return append([]team.Member(nil), r.store.members[teamID]...), nil
}

type LocationRepository struct {
	store *Store
}

func (r *LocationRepository) GetByID(_ context.Context, locationID string) (location.Location, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.locations[locationID]
	return item, ok, nil
}

type UserRepository struct {
	store *Store
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (user.Profile, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.users[userID]
	return item, ok, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (user.Profile, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, item := range r.store.users {
		if strings.ToLower(item.Email) == email {
			return item, true, nil
		}
	}
	return user.Profile{}, false, nil
}
