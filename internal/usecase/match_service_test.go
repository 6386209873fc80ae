package usecase

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/futplan/internal/domain/match"
	"github.com/riskibarqy/futplan/internal/infrastructure/repository/memory"
)

func TestMatchService_Create_InitialStatus(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	pickup := env.pickupMatch(t)
	if pickup.Status != match.StatusScheduled {
		t.Fatalf("pickup match status: got=%s want=%s", pickup.Status, match.StatusScheduled)
	}

	fixed := env.fixedMatch(t)
	if fixed.Status != match.StatusPendingApproval {
		t.Fatalf("fixed match status: got=%s want=%s", fixed.Status, match.StatusPendingApproval)
	}
	if fixed.HomeScore != 0 || fixed.AwayScore != 0 {
		t.Fatalf("new match should start 0 x 0, got %s", fixed.ScoreSummary())
	}
}

func TestMatchService_Create_InvalidInput(t *testing.T) {
	t.Parallel()

	valid := CreateMatchInput{
		LocationID:  memory.LocationIDArenaCentral,
		HomeTeamID:  memory.TeamIDGarudaFC,
		AwayTeamID:  memory.TeamIDRajawaliFC,
		ScheduledAt: testNow,
		CreatedBy:   memory.UserIDOrganizer,
	}

	cases := map[string]func(in *CreateMatchInput){
		"missing location":  func(in *CreateMatchInput) { in.LocationID = "" },
		"unknown location":  func(in *CreateMatchInput) { in.LocationID = "loc-missing" },
		"missing home team": func(in *CreateMatchInput) { in.HomeTeamID = " " },
		"unknown away team": func(in *CreateMatchInput) { in.AwayTeamID = "team-missing" },
		"same teams":        func(in *CreateMatchInput) { in.AwayTeamID = in.HomeTeamID },
		"zero time":         func(in *CreateMatchInput) { in.ScheduledAt = time.Time{} },
		"missing creator":   func(in *CreateMatchInput) { in.CreatedBy = "" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			input := valid
			mutate(&input)

			_, err := env.matches.Create(t.Context(), input)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}

			all, _ := env.matches.List(t.Context())
			if len(all) != 0 {
				t.Fatalf("invalid input must not persist a match, found %d", len(all))
			}
		})
	}
}

func TestMatchService_RespondToInvite(t *testing.T) {
	t.Parallel()

	const awayOwner = "user-dewi"

	t.Run("accept schedules the match", func(t *testing.T) {
		env := newTestEnv(t, nil)
		created := env.fixedMatch(t)

		got, err := env.matches.RespondToInvite(t.Context(), RespondInviteInput{MatchID: created.ID, UserID: awayOwner, Action: "accept"})
		if err != nil {
			t.Fatalf("respond: %v", err)
		}
		if got.Status != match.StatusScheduled {
			t.Fatalf("status: got=%s want=%s", got.Status, match.StatusScheduled)
		}
	})

	t.Run("reject cancels the match", func(t *testing.T) {
		env := newTestEnv(t, nil)
		created := env.fixedMatch(t)

		got, err := env.matches.RespondToInvite(t.Context(), RespondInviteInput{MatchID: created.ID, UserID: awayOwner, Action: "REJECT"})
		if err != nil {
			t.Fatalf("respond: %v", err)
		}
		if got.Status != match.StatusCanceled {
			t.Fatalf("status: got=%s want=%s", got.Status, match.StatusCanceled)
		}
	})

	t.Run("errors", func(t *testing.T) {
		env := newTestEnv(t, nil)
		fixed := env.fixedMatch(t)
		pickup := env.pickupMatch(t)

		cases := []struct {
			name  string
			input RespondInviteInput
			want  error
		}{
			{name: "unknown action", input: RespondInviteInput{MatchID: "missing", UserID: awayOwner, Action: "maybe"}, want: ErrInvalidInput},
			{name: "missing match", input: RespondInviteInput{MatchID: "missing", UserID: awayOwner, Action: "accept"}, want: ErrNotFound},
			{name: "not the away owner", input: RespondInviteInput{MatchID: fixed.ID, UserID: memory.UserIDOrganizer, Action: "accept"}, want: ErrForbidden},
			{name: "no away team", input: RespondInviteInput{MatchID: pickup.ID, UserID: awayOwner, Action: "accept"}, want: ErrForbidden},
		}
		for _, tc := range cases {
			_, err := env.matches.RespondToInvite(t.Context(), tc.input)
			if !errors.Is(err, tc.want) {
				t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
			}
		}

		if _, err := env.matches.RespondToInvite(t.Context(), RespondInviteInput{MatchID: fixed.ID, UserID: awayOwner, Action: "accept"}); err != nil {
			t.Fatalf("first response: %v", err)
		}
		_, err := env.matches.RespondToInvite(t.Context(), RespondInviteInput{MatchID: fixed.ID, UserID: awayOwner, Action: "reject"})
		if !errors.Is(err, ErrInvalidState) {
			t.Fatalf("second response: expected ErrInvalidState, got %v", err)
		}
	})
}

func TestMatchService_Start(t *testing.T) {
	t.Parallel()

	t.Run("too early wins over actor and status checks", func(t *testing.T) {
		env := newTestEnv(t, nil)
		created, err := env.matches.Create(t.Context(), CreateMatchInput{
			LocationID:  memory.LocationIDArenaCentral,
			HomeTeamID:  memory.TeamIDGarudaFC,
			ScheduledAt: testNow.Add(30 * time.Minute),
			CreatedBy:   memory.UserIDOrganizer,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		_, err = env.matches.Start(t.Context(), created.ID, "someone-else")
		if !errors.Is(err, ErrPrecondition) {
			t.Fatalf("expected ErrPrecondition, got %v", err)
		}

		stored, _, _ := env.store.Matches().GetByID(t.Context(), created.ID)
		if stored.Status != match.StatusScheduled {
			t.Fatalf("status must not change, got %s", stored.Status)
		}
	})

	t.Run("only the creator can start", func(t *testing.T) {
		env := newTestEnv(t, nil)
		created := env.pickupMatch(t)

		_, err := env.matches.Start(t.Context(), created.ID, "user-adi")
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("pending approval can be started", func(t *testing.T) {
		env := newTestEnv(t, nil)
		created := env.fixedMatch(t)

		got, err := env.matches.Start(t.Context(), created.ID, memory.UserIDOrganizer)
		if err != nil {
			t.Fatalf("start: %v", err)
		}
		if got.Status != match.StatusInProgress {
			t.Fatalf("status: got=%s want=%s", got.Status, match.StatusInProgress)
		}

		_, err = env.matches.Start(t.Context(), created.ID, memory.UserIDOrganizer)
		if !errors.Is(err, ErrInvalidState) {
			t.Fatalf("restart: expected ErrInvalidState, got %v", err)
		}
	})

	t.Run("missing match", func(t *testing.T) {
		env := newTestEnv(t, nil)
		_, err := env.matches.Start(t.Context(), "missing", memory.UserIDOrganizer)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestMatchService_Start_ConcurrentCallsOneWins(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	created := env.pickupMatch(t)

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.matches.Start(t.Context(), created.ID, memory.UserIDOrganizer)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrInvalidState):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one successful start, got %d", wins)
	}
}

func TestMatchService_Finish(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	created := env.pickupMatch(t)
	env.addPlayers(t, created.ID, "user-adi", "user-bima")
	if _, err := env.rosters.AssignManually(t.Context(), created.ID, []ManualAssignment{
		{UserID: "user-adi", Side: "home"},
		{UserID: "user-bima", Side: "away"},
	}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	for _, in := range []RecordEventInput{
		{MatchID: created.ID, PlayerID: "user-adi", Kind: "goal", Minute: 3},
		{MatchID: created.ID, PlayerID: "user-adi", Kind: "goal", Minute: 20},
		{MatchID: created.ID, PlayerID: "user-bima", Kind: "goal", Minute: 41},
	} {
		if _, err := env.events.RecordEvent(t.Context(), in); err != nil {
			t.Fatalf("record event: %v", err)
		}
	}

	// No actor or status check: a scheduled match can be finished directly.
	got, err := env.matches.Finish(t.Context(), created.ID)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if got.Match.Status != match.StatusFinished {
		t.Fatalf("status: got=%s want=%s", got.Match.Status, match.StatusFinished)
	}
	if got.Summary != "2 x 1" {
		t.Fatalf("summary: got=%q want=%q", got.Summary, "2 x 1")
	}

	if _, err := env.matches.Finish(t.Context(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMatchService_ListByTeam_NewestFirst(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	for _, offset := range []time.Duration{-48 * time.Hour, 24 * time.Hour, -time.Hour} {
		if _, err := env.matches.Create(t.Context(), CreateMatchInput{
			LocationID:  memory.LocationIDArenaCentral,
			HomeTeamID:  memory.TeamIDRajawaliFC,
			ScheduledAt: testNow.Add(offset),
			CreatedBy:   memory.UserIDOrganizer,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	env.pickupMatch(t)

	got, err := env.matches.ListByTeam(t.Context(), memory.TeamIDRajawaliFC)
	if err != nil {
		t.Fatalf("list by team: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].ScheduledAt.After(got[i-1].ScheduledAt) {
			t.Fatalf("matches not newest first at %d", i)
		}
	}

	all, err := env.matches.List(t.Context())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i := 1; i < len(all); i++ {
		if all[i].ScheduledAt.Before(all[i-1].ScheduledAt) {
			t.Fatalf("matches not oldest first at %d", i)
		}
	}
}
