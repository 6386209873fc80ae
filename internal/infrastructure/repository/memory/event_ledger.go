package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/futplan/internal/domain/matchevent"
	"github.com/riskibarqy/futplan/internal/domain/roster"
)

type EventLedger struct {
	store *Store
}

func (l *EventLedger) Append(_ context.Context, event matchevent.Event) (matchevent.Event, matchevent.Score, error) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	item, ok := l.store.matches[event.MatchID]
	if !ok {
		return matchevent.Event{}, matchevent.Score{}, fmt.Errorf("%w: match=%s", matchevent.ErrMatchNotFound, event.MatchID)
	}
	if item.Status.IsTerminal() {
		return matchevent.Event{}, matchevent.Score{}, fmt.Errorf("%w: match=%s status=%s", matchevent.ErrMatchClosed, item.ID, item.Status)
	}

	side := roster.SideUnassigned
	if entry, ok := l.store.roster[item.ID][event.PlayerID]; ok {
		side = roster.NormalizeSide(entry.Side)
	}

	l.store.sequence++
	event.Sequence = l.store.sequence
	l.store.events[item.ID] = append(l.store.events[item.ID], event)

	score := matchevent.ApplyScore(matchevent.Score{Home: item.HomeScore, Away: item.AwayScore}, event.Kind, side)
	item.HomeScore = score.Home
	item.AwayScore = score.Away
	if !event.CreatedAt.IsZero() {
		item.UpdatedAt = event.CreatedAt
	}
	l.store.matches[item.ID] = item

	if profile, ok := l.store.users[event.PlayerID]; ok {
		event.PlayerName = profile.Name
	}
	return event, score, nil
}

func (l *EventLedger) ListByMatch(_ context.Context, matchID string) ([]matchevent.Event, error) {
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()

	events := l.store.events[matchID]
	out := make([]matchevent.Event, 0, len(events))
	for _, event := range events {
		if profile, ok := l.store.users[event.PlayerID]; ok {
			event.PlayerName = profile.Name
		}
		out = append(out, event)
	}
	matchevent.SortChronological(out)
	return out, nil
}
