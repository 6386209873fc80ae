package usecase

import (
	"errors"
	"sync"
	"testing"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/futplan/internal/domain/matchevent"
)

func TestEventService_RecordEvent_ScoresBySide(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	created := env.pickupMatch(t)
	env.addPlayers(t, created.ID, "user-adi", "user-bima", "user-citra")
	if _, err := env.rosters.AssignManually(t.Context(), created.ID, []ManualAssignment{
		{UserID: "user-adi", Side: "home"},
		{UserID: "user-bima", Side: "away"},
	}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	steps := []struct {
		input RecordEventInput
		want  matchevent.Score
	}{
		{input: RecordEventInput{PlayerID: "user-adi", Kind: "goal", Minute: 5}, want: matchevent.Score{Home: 1}},
		{input: RecordEventInput{PlayerID: "user-bima", Kind: "own_goal", Minute: 12}, want: matchevent.Score{Home: 2}},
		{input: RecordEventInput{PlayerID: "user-bima", Kind: "yellow_card", Minute: 30}, want: matchevent.Score{Home: 2}},
		{input: RecordEventInput{PlayerID: "user-citra", Kind: "goal", Minute: 33}, want: matchevent.Score{Home: 2}},
		{input: RecordEventInput{PlayerID: "user-bima", AssistPlayerID: "user-citra", Kind: "goal", Minute: 60}, want: matchevent.Score{Home: 2, Away: 1}},
	}
	for i, step := range steps {
		step.input.MatchID = created.ID
		got, err := env.events.RecordEvent(t.Context(), step.input)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if got.Score != step.want {
			t.Fatalf("step %d: score got=%+v want=%+v", i, got.Score, step.want)
		}
		if got.Event.ID == "" || got.Event.Sequence == 0 {
			t.Fatalf("step %d: event not stored: %+v", i, got.Event)
		}
	}

	stored, _, _ := env.store.Matches().GetByID(t.Context(), created.ID)
	if stored.ScoreSummary() != "2 x 1" {
		t.Fatalf("match score not persisted: %s", stored.ScoreSummary())
	}
}

func TestEventService_RecordEvent_InvalidInput(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	created := env.pickupMatch(t)

	cases := map[string]RecordEventInput{
		"missing player":  {MatchID: created.ID, Kind: "goal"},
		"unknown kind":    {MatchID: created.ID, PlayerID: "user-adi", Kind: "header"},
		"negative minute": {MatchID: created.ID, PlayerID: "user-adi", Kind: "goal", Minute: -1},
		"self assist":     {MatchID: created.ID, PlayerID: "user-adi", AssistPlayerID: "user-adi", Kind: "goal"},
	}
	for name, input := range cases {
		if _, err := env.events.RecordEvent(t.Context(), input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestEventService_RecordEvent_ClosedMatch(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	created := env.pickupMatch(t)
	if _, err := env.matches.Finish(t.Context(), created.ID); err != nil {
		t.Fatalf("finish: %v", err)
	}

	_, err := env.events.RecordEvent(t.Context(), RecordEventInput{MatchID: created.ID, PlayerID: "user-adi", Kind: "goal", Minute: 90})
	if !errors.Is(err, ErrMatchClosed) {
		t.Fatalf("expected ErrMatchClosed, got %v", err)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("closed match error must also be an invalid state: %v", err)
	}
	if details := crerr.GetAllDetails(err); len(details) == 0 {
		t.Fatalf("expected a user-facing detail on %v", err)
	}

	_, err = env.events.RecordEvent(t.Context(), RecordEventInput{MatchID: "missing", PlayerID: "user-adi", Kind: "goal"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEventService_RecordEvent_ConcurrentGoalsAreNotLost(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	created := env.pickupMatch(t)
	env.addPlayers(t, created.ID, "user-adi", "user-bima")
	if _, err := env.rosters.AssignManually(t.Context(), created.ID, []ManualAssignment{
		{UserID: "user-adi", Side: "home"},
		{UserID: "user-bima", Side: "home"},
	}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, playerID := range []string{"user-adi", "user-bima"} {
		wg.Add(1)
		go func(i int, playerID string) {
			defer wg.Done()
			_, errs[i] = env.events.RecordEvent(t.Context(), RecordEventInput{MatchID: created.ID, PlayerID: playerID, Kind: "goal", Minute: 10})
		}(i, playerID)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	stored, _, _ := env.store.Matches().GetByID(t.Context(), created.ID)
	if stored.HomeScore != 2 {
		t.Fatalf("expected home score 2, got %d", stored.HomeScore)
	}
}
