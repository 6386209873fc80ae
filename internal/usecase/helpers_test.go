package usecase

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/futplan/internal/domain/match"
	"github.com/riskibarqy/futplan/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/futplan/internal/platform/random"
)

var testNow = time.Date(2026, 5, 9, 19, 0, 0, 0, time.UTC)

type sequenceIDs struct {
	prefix string
	next   atomic.Int64
}

func (g *sequenceIDs) NewID() (string, error) {
	return fmt.Sprintf("%s-%d", g.prefix, g.next.Add(1)), nil
}

// reverseShuffler reverses the slice, giving tests a known permutation.
type reverseShuffler struct{}

func (reverseShuffler) Shuffle(n int, swap func(i, j int)) {
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		swap(i, j)
	}
}

type testEnv struct {
	store     *memory.Store
	matches   *MatchService
	rosters   *RosterService
	events    *EventService
	dashboard *DashboardService
}

func newTestEnv(t *testing.T, shuffler random.Shuffler) *testEnv {
	t.Helper()

	store := memory.NewStore()
	memory.Seed(store)
	if shuffler == nil {
		shuffler = reverseShuffler{}
	}

	env := &testEnv{
		store:     store,
		matches:   NewMatchService(store.Matches(), store.Locations(), store.Teams(), &sequenceIDs{prefix: "match"}, nil),
		rosters:   NewRosterService(store.Matches(), store.Roster(), store.Teams(), store.Users(), shuffler, nil),
		events:    NewEventService(store.Events(), &sequenceIDs{prefix: "event"}, nil),
		dashboard: NewDashboardService(store.Matches(), store.Locations(), store.Teams(), store.Events(), nil),
	}
	clock := func() time.Time { return testNow }
	env.matches.now = clock
	env.rosters.now = clock
	env.events.now = clock
	return env
}

// pickupMatch creates a match without an away team, scheduled an hour ago.
func (e *testEnv) pickupMatch(t *testing.T) match.Match {
	t.Helper()

	created, err := e.matches.Create(t.Context(), CreateMatchInput{
		LocationID:  memory.LocationIDArenaCentral,
		HomeTeamID:  memory.TeamIDGarudaFC,
		ScheduledAt: testNow.Add(-time.Hour),
		CreatedBy:   memory.UserIDOrganizer,
	})
	if err != nil {
		t.Fatalf("create pickup match: %v", err)
	}
	return created
}

// fixedMatch creates Garuda FC vs Rajawali FC, scheduled an hour ago.
func (e *testEnv) fixedMatch(t *testing.T) match.Match {
	t.Helper()

	created, err := e.matches.Create(t.Context(), CreateMatchInput{
		LocationID:  memory.LocationIDArenaCentral,
		HomeTeamID:  memory.TeamIDGarudaFC,
		AwayTeamID:  memory.TeamIDRajawaliFC,
		ScheduledAt: testNow.Add(-time.Hour),
		CreatedBy:   memory.UserIDOrganizer,
	})
	if err != nil {
		t.Fatalf("create fixed match: %v", err)
	}
	return created
}

func (e *testEnv) addPlayers(t *testing.T, matchID string, userIDs ...string) {
	t.Helper()

	for _, userID := range userIDs {
		if _, err := e.rosters.AddPlayer(t.Context(), AddPlayerInput{MatchID: matchID, UserID: userID}); err != nil {
			t.Fatalf("add player %s: %v", userID, err)
		}
	}
}
