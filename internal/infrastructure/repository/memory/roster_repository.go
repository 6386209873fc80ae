package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/futplan/internal/domain/roster"
)

type RosterRepository struct {
	store *Store
}

func (r *RosterRepository) Get(_ context.Context, matchID, userID string) (roster.Entry, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	entry, ok := r.store.roster[matchID][userID]
	if !ok {
		return roster.Entry{}, false, nil
	}
	return r.store.withPlayer(entry), true, nil
}

func (r *RosterRepository) ListByMatch(_ context.Context, matchID string) ([]roster.Entry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	entries := r.store.roster[matchID]
	out := make([]roster.Entry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, r.store.withPlayer(entry))
	}
	roster.SortEntries(out)
	return out, nil
}

func (r *RosterRepository) Create(_ context.Context, entry roster.Entry) (roster.Entry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	entries := r.store.roster[entry.MatchID]
	if entries == nil {
		entries = make(map[string]roster.Entry)
		r.store.roster[entry.MatchID] = entries
	}
	if _, exists := entries[entry.UserID]; exists {
		return roster.Entry{}, fmt.Errorf("%w: match=%s user=%s", roster.ErrDuplicateEntry, entry.MatchID, entry.UserID)
	}

	entry.Side = roster.NormalizeSide(entry.Side)
	entries[entry.UserID] = entry
	return r.store.withPlayer(entry), nil
}

func (r *RosterRepository) UpdateStatus(_ context.Context, matchID, userID string, status roster.Status) (roster.Entry, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	entry, ok := r.store.roster[matchID][userID]
	if !ok {
		return roster.Entry{}, false, nil
	}
	entry.Status = status
	entry.UpdatedAt = time.Now().UTC()
	r.store.roster[matchID][userID] = entry
	return r.store.withPlayer(entry), true, nil
}

func (r *RosterRepository) ApplyAssignments(_ context.Context, matchID string, assignments []roster.Assignment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.applyAssignments(matchID, assignments)
}

func (r *RosterRepository) Redistribute(_ context.Context, matchID string, plan func([]roster.Entry) ([]roster.Assignment, error)) ([]roster.Assignment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	entries := r.store.roster[matchID]
	current := make([]roster.Entry, 0, len(entries))
	for _, entry := range entries {
		current = append(current, r.store.withPlayer(entry))
	}
	roster.SortEntries(current)

	assignments, err := plan(current)
	if err != nil {
		return nil, err
	}
	if err := r.store.applyAssignments(matchID, assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *RosterRepository) ClearAssignments(_ context.Context, matchID string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	entries := r.store.roster[matchID]
	now := time.Now().UTC()
	for userID, entry := range entries {
		entry.Side = roster.SideUnassigned
		entry.UpdatedAt = now
		entries[userID] = entry
	}
	return int64(len(entries)), nil
}

func (r *RosterRepository) UpsertSides(_ context.Context, matchID string, assignments []roster.Assignment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, a := range assignments {
		if _, ok := r.store.users[a.UserID]; !ok {
			return fmt.Errorf("%w: unknown user=%s", roster.ErrEntryNotFound, a.UserID)
		}
	}

	entries := r.store.roster[matchID]
	if entries == nil {
		entries = make(map[string]roster.Entry)
		r.store.roster[matchID] = entries
	}

	now := time.Now().UTC()
	for _, a := range assignments {
		entry, exists := entries[a.UserID]
		if !exists {
			entry = roster.Entry{
				MatchID:   matchID,
				UserID:    a.UserID,
				Status:    roster.StatusConfirmed,
				CreatedAt: now,
			}
		}
		entry.Side = a.Side
		entry.UpdatedAt = now
		entries[a.UserID] = entry
	}
	return nil
}

// applyAssignments checks every user before writing any. Callers hold the lock.
func (s *Store) applyAssignments(matchID string, assignments []roster.Assignment) error {
	entries := s.roster[matchID]
	for _, a := range assignments {
		if _, ok := entries[a.UserID]; !ok {
			return fmt.Errorf("%w: match=%s user=%s", roster.ErrEntryNotFound, matchID, a.UserID)
		}
	}

	now := time.Now().UTC()
	for _, a := range assignments {
		entry := entries[a.UserID]
		entry.Side = a.Side
		if a.Confirm {
			entry.Status = roster.StatusConfirmed
		}
		entry.UpdatedAt = now
		entries[a.UserID] = entry
	}
	return nil
}
