package usecase

import (
	"errors"
	"testing"

	"github.com/riskibarqy/futplan/internal/domain/roster"
	"github.com/riskibarqy/futplan/internal/domain/team"
	"github.com/riskibarqy/futplan/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/futplan/internal/platform/random"
)

func TestRosterService_AddPlayer(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	created := env.pickupMatch(t)

	entry, err := env.rosters.AddPlayer(t.Context(), AddPlayerInput{MatchID: created.ID, Email: " ADI@futplan.local "})
	if err != nil {
		t.Fatalf("add player by email: %v", err)
	}
	if entry.UserID != "user-adi" || entry.Status != roster.StatusPending || entry.Side != roster.SideUnassigned {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.PlayerName != "Adi Nugroho" {
		t.Fatalf("expected display name, got %q", entry.PlayerName)
	}

	_, err = env.rosters.AddPlayer(t.Context(), AddPlayerInput{MatchID: created.ID, UserID: "user-adi"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate add: expected ErrConflict, got %v", err)
	}
}

func TestRosterService_AddPlayer_Errors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	pickup := env.pickupMatch(t)
	fixed := env.fixedMatch(t)

	cases := []struct {
		name  string
		input AddPlayerInput
		want  error
	}{
		{name: "no identifier", input: AddPlayerInput{MatchID: pickup.ID}, want: ErrInvalidInput},
		{name: "missing match", input: AddPlayerInput{MatchID: "missing", UserID: "user-adi"}, want: ErrNotFound},
		{name: "fixed teams", input: AddPlayerInput{MatchID: fixed.ID, UserID: "user-adi"}, want: ErrConflict},
		{name: "unknown user", input: AddPlayerInput{MatchID: pickup.ID, Email: "ghost@futplan.local"}, want: ErrNotFound},
	}
	for _, tc := range cases {
		_, err := env.rosters.AddPlayer(t.Context(), tc.input)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestRosterService_DistributeRandomly_SplitsCeilHome(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, random.NewSeededShuffler(42))
	created := env.pickupMatch(t)
	env.addPlayers(t, created.ID, "user-adi", "user-bima", "user-citra", "user-dewi", "user-eko")

	assignments, err := env.rosters.DistributeRandomly(t.Context(), created.ID)
	if err != nil {
		t.Fatalf("distribute: %v", err)
	}
	if len(assignments) != 5 {
		t.Fatalf("expected 5 assignments, got %d", len(assignments))
	}

	entries, err := env.rosters.ListRoster(t.Context(), created.ID)
	if err != nil {
		t.Fatalf("list roster: %v", err)
	}
	home, away := 0, 0
	for _, entry := range entries {
		switch entry.Side {
		case roster.SideHome:
			home++
		case roster.SideAway:
			away++
		default:
			t.Fatalf("player %s left unassigned", entry.UserID)
		}
		if entry.Status != roster.StatusPending {
			t.Fatalf("random distribution must not change attendance, got %s", entry.Status)
		}
	}
	if home != 3 || away != 2 {
		t.Fatalf("expected 3 home / 2 away, got %d / %d", home, away)
	}
}

func TestRosterService_DistributeRandomly_UsesShuffler(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, reverseShuffler{})
	created := env.pickupMatch(t)
	env.addPlayers(t, created.ID, "user-adi", "user-bima", "user-citra", "user-dewi")

	entries, err := env.store.Roster().ListByMatch(t.Context(), created.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// Reversing the listed order puts the last two listed players at home.
	wantHome := map[string]bool{entries[3].UserID: true, entries[2].UserID: true}

	if _, err := env.rosters.DistributeRandomly(t.Context(), created.ID); err != nil {
		t.Fatalf("distribute: %v", err)
	}
	for _, userID := range []string{"user-adi", "user-bima", "user-citra", "user-dewi"} {
		entry, _, _ := env.store.Roster().Get(t.Context(), created.ID, userID)
		if (entry.Side == roster.SideHome) != wantHome[userID] {
			t.Fatalf("user %s on unexpected side %s", userID, entry.Side)
		}
	}
}

func TestRosterService_DistributeRandomly_RepeatedCallsStayBalanced(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, random.NewSeededShuffler(7))
	created := env.pickupMatch(t)
	players := []string{"user-adi", "user-bima", "user-citra", "user-dewi", "user-eko"}
	env.addPlayers(t, created.ID, players...)

	// Start from a lopsided roster so every run has to overwrite it.
	stacked := make([]ManualAssignment, 0, len(players))
	for _, userID := range players {
		stacked = append(stacked, ManualAssignment{UserID: userID, Side: "home"})
	}
	if _, err := env.rosters.AssignManually(t.Context(), created.ID, stacked); err != nil {
		t.Fatalf("stack home: %v", err)
	}

	for run := 0; run < 4; run++ {
		assignments, err := env.rosters.DistributeRandomly(t.Context(), created.ID)
		if err != nil {
			t.Fatalf("distribute #%d: %v", run, err)
		}
		want := make(map[string]roster.Side, len(assignments))
		for _, a := range assignments {
			want[a.UserID] = a.Side
		}
		if len(want) != len(players) {
			t.Fatalf("distribute #%d: expected %d players, got %d", run, len(players), len(want))
		}

		entries, err := env.rosters.ListRoster(t.Context(), created.ID)
		if err != nil {
			t.Fatalf("list roster #%d: %v", run, err)
		}
		home, away := 0, 0
		for _, entry := range entries {
			if entry.Side != want[entry.UserID] {
				t.Fatalf("distribute #%d: %s stored on %s, returned %s", run, entry.UserID, entry.Side, want[entry.UserID])
			}
			switch entry.Side {
			case roster.SideHome:
				home++
			case roster.SideAway:
				away++
			}
		}
		if home != 3 || away != 2 {
			t.Fatalf("distribute #%d: expected 3 home / 2 away, got %d / %d", run, home, away)
		}
	}
}

func TestRosterService_DistributeRandomly_Errors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	pickup := env.pickupMatch(t)
	fixed := env.fixedMatch(t)

	if _, err := env.rosters.DistributeRandomly(t.Context(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := env.rosters.DistributeRandomly(t.Context(), fixed.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if _, err := env.rosters.DistributeRandomly(t.Context(), pickup.ID); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty roster, got %v", err)
	}
}

func TestRosterService_ClearAssignments_Idempotent(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	created := env.pickupMatch(t)
	env.addPlayers(t, created.ID, "user-adi", "user-bima", "user-citra")
	if _, err := env.rosters.DistributeRandomly(t.Context(), created.ID); err != nil {
		t.Fatalf("distribute: %v", err)
	}

	for i := 0; i < 2; i++ {
		affected, err := env.rosters.ClearAssignments(t.Context(), created.ID)
		if err != nil {
			t.Fatalf("clear #%d: %v", i, err)
		}
		if affected != 3 {
			t.Fatalf("clear #%d: expected 3 affected, got %d", i, affected)
		}
	}

	entries, _ := env.rosters.ListRoster(t.Context(), created.ID)
	for _, entry := range entries {
		if entry.Side != roster.SideUnassigned {
			t.Fatalf("player %s still on %s", entry.UserID, entry.Side)
		}
	}

	if _, err := env.rosters.ClearAssignments(t.Context(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRosterService_AssignManually_InvalidPairLeavesRosterUnchanged(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	created := env.pickupMatch(t)
	players := []string{"user-adi", "user-bima", "user-citra", "user-dewi", "user-eko"}
	env.addPlayers(t, created.ID, players...)

	_, err := env.rosters.AssignManually(t.Context(), created.ID, []ManualAssignment{
		{UserID: "user-adi", Side: "home"},
		{UserID: "user-bima", Side: "away"},
		{UserID: "user-citra", Side: "home"},
		{UserID: "user-dewi", Side: "bench"},
		{UserID: "user-eko", Side: "away"},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	for _, userID := range players {
		entry, _, _ := env.store.Roster().Get(t.Context(), created.ID, userID)
		if entry.Side != roster.SideUnassigned || entry.Status != roster.StatusPending {
			t.Fatalf("player %s changed: side=%s status=%s", userID, entry.Side, entry.Status)
		}
	}
}

func TestRosterService_AssignManually_AppliesAndConfirms(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	created := env.pickupMatch(t)
	env.addPlayers(t, created.ID, "user-adi", "user-bima", "user-citra")

	n, err := env.rosters.AssignManually(t.Context(), created.ID, []ManualAssignment{
		{UserID: "user-adi", Side: "HOME"},
		{UserID: "user-bima", Side: "away"},
	})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 applied, got %d", n)
	}

	adi, _, _ := env.store.Roster().Get(t.Context(), created.ID, "user-adi")
	if adi.Side != roster.SideHome || adi.Status != roster.StatusConfirmed {
		t.Fatalf("unexpected adi entry: %+v", adi)
	}
	citra, _, _ := env.store.Roster().Get(t.Context(), created.ID, "user-citra")
	if citra.Side != roster.SideUnassigned || citra.Status != roster.StatusPending {
		t.Fatalf("unlisted player must be untouched: %+v", citra)
	}

	if err := env.rosters.AssignPlayer(t.Context(), created.ID, "user-citra", "away"); err != nil {
		t.Fatalf("assign single: %v", err)
	}
	citra, _, _ = env.store.Roster().Get(t.Context(), created.ID, "user-citra")
	if citra.Side != roster.SideAway {
		t.Fatalf("expected citra away, got %s", citra.Side)
	}
}

func TestRosterService_AssignManually_Errors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	created := env.pickupMatch(t)
	env.addPlayers(t, created.ID, "user-adi", "user-bima")

	cases := []struct {
		name  string
		pairs []ManualAssignment
		want  error
	}{
		{name: "empty batch", pairs: nil, want: ErrInvalidInput},
		{name: "missing user", pairs: []ManualAssignment{{Side: "home"}}, want: ErrInvalidInput},
		{name: "unassigned is not a side", pairs: []ManualAssignment{{UserID: "user-adi", Side: "unassigned"}}, want: ErrInvalidInput},
		{name: "duplicate user", pairs: []ManualAssignment{{UserID: "user-adi", Side: "home"}, {UserID: "user-adi", Side: "away"}}, want: ErrInvalidInput},
		{name: "player not in roster", pairs: []ManualAssignment{{UserID: "user-adi", Side: "home"}, {UserID: "user-eko", Side: "away"}}, want: ErrNotFound},
	}
	for _, tc := range cases {
		_, err := env.rosters.AssignManually(t.Context(), created.ID, tc.pairs)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	adi, _, _ := env.store.Roster().Get(t.Context(), created.ID, "user-adi")
	if adi.Side != roster.SideUnassigned {
		t.Fatalf("failed batches must not assign, adi is %s", adi.Side)
	}
}

func TestRosterService_AssignManually_RejectsFixedTeams(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	fixed := env.fixedMatch(t)
	if _, err := env.rosters.SyncFromTeams(t.Context(), fixed.ID); err != nil {
		t.Fatalf("sync: %v", err)
	}

	_, err := env.rosters.AssignManually(t.Context(), fixed.ID, []ManualAssignment{{UserID: "user-adi", Side: "away"}})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err := env.rosters.AssignPlayer(t.Context(), fixed.ID, "user-adi", "away"); !errors.Is(err, ErrConflict) {
		t.Fatalf("single assign: expected ErrConflict, got %v", err)
	}

	adi, _, _ := env.store.Roster().Get(t.Context(), fixed.ID, "user-adi")
	if adi.Side != roster.SideHome {
		t.Fatalf("synced player must stay on home, got %s", adi.Side)
	}
}

func TestRosterService_SyncFromTeams(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	created := env.fixedMatch(t)

	for run := 0; run < 2; run++ {
		got, err := env.rosters.SyncFromTeams(t.Context(), created.ID)
		if err != nil {
			t.Fatalf("sync #%d: %v", run, err)
		}
		if got.Home != 3 || got.Away != 2 {
			t.Fatalf("sync #%d: expected 3/2, got %d/%d", run, got.Home, got.Away)
		}
	}

	entries, err := env.rosters.ListRoster(t.Context(), created.ID)
	if err != nil {
		t.Fatalf("list roster: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries without duplicates, got %d", len(entries))
	}
	for _, entry := range entries {
		if entry.Status != roster.StatusConfirmed {
			t.Fatalf("synced player %s not confirmed: %s", entry.UserID, entry.Status)
		}
	}
	if entries[0].Side != roster.SideHome || entries[len(entries)-1].Side != roster.SideAway {
		t.Fatalf("roster not ordered by side: %+v", entries)
	}
}

func TestRosterService_SyncFromTeams_KeepsAttendanceAndPrefersHome(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	created := env.fixedMatch(t)
	// user-eko also plays for the home team.
	env.store.PutTeam(team.Team{ID: memory.TeamIDGarudaFC, Name: "Garuda FC", OwnerID: memory.UserIDOrganizer},
		team.Member{UserID: "user-adi"}, team.Member{UserID: "user-eko"})

	if _, err := env.rosters.SyncFromTeams(t.Context(), created.ID); err != nil {
		t.Fatalf("sync: %v", err)
	}
	eko, _, _ := env.store.Roster().Get(t.Context(), created.ID, "user-eko")
	if eko.Side != roster.SideHome {
		t.Fatalf("expected dual member on home, got %s", eko.Side)
	}

	if _, err := env.rosters.UpdateAttendance(t.Context(), created.ID, "user-adi", "waiting_list"); err != nil {
		t.Fatalf("update attendance: %v", err)
	}
	if _, err := env.rosters.SyncFromTeams(t.Context(), created.ID); err != nil {
		t.Fatalf("resync: %v", err)
	}
	adi, _, _ := env.store.Roster().Get(t.Context(), created.ID, "user-adi")
	if adi.Status != roster.StatusWaitingList {
		t.Fatalf("resync must keep existing attendance, got %s", adi.Status)
	}
}

func TestRosterService_SyncFromTeams_Errors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	pickup := env.pickupMatch(t)
	fixed := env.fixedMatch(t)

	if _, err := env.rosters.SyncFromTeams(t.Context(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := env.rosters.SyncFromTeams(t.Context(), pickup.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	env.store.PutTeam(team.Team{ID: memory.TeamIDGarudaFC, Name: "Garuda FC", OwnerID: memory.UserIDOrganizer})
	env.store.PutTeam(team.Team{ID: memory.TeamIDRajawaliFC, Name: "Rajawali FC", OwnerID: "user-dewi"})
	if _, err := env.rosters.SyncFromTeams(t.Context(), fixed.ID); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty teams, got %v", err)
	}

	env.store.PutTeam(team.Team{ID: memory.TeamIDRajawaliFC, Name: "Rajawali FC", OwnerID: "user-dewi"},
		team.Member{UserID: "user-dewi"}, team.Member{UserID: "user-ghost"})
	if _, err := env.rosters.SyncFromTeams(t.Context(), fixed.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a member outside the user directory, got %v", err)
	}
	entries, _ := env.rosters.ListRoster(t.Context(), fixed.ID)
	if len(entries) != 0 {
		t.Fatalf("failed sync must not write, got %+v", entries)
	}
}

func TestRosterService_UpdateAttendance(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	created := env.pickupMatch(t)
	env.addPlayers(t, created.ID, "user-adi")

	entry, err := env.rosters.UpdateAttendance(t.Context(), created.ID, "user-adi", "confirmed")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if entry.Status != roster.StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", entry.Status)
	}

	if _, err := env.rosters.UpdateAttendance(t.Context(), created.ID, "user-adi", "maybe"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := env.rosters.UpdateAttendance(t.Context(), created.ID, "user-bima", "confirmed"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
