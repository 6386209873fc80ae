package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/futplan/internal/domain/match"
	"github.com/riskibarqy/futplan/internal/domain/roster"
	"github.com/riskibarqy/futplan/internal/domain/team"
	"github.com/riskibarqy/futplan/internal/domain/user"
	"github.com/riskibarqy/futplan/internal/platform/logging"
	"github.com/riskibarqy/futplan/internal/platform/random"
)

// AddPlayerInput identifies the player by id or, when the id is empty, by email.
type AddPlayerInput struct {
	MatchID string
	UserID  string
	Email   string
}

// ManualAssignment is one requested (player, side) pair.
type ManualAssignment struct {
	UserID string
	Side   string
}

// TeamSyncResult counts the players placed on each side by a team sync.
type TeamSyncResult struct {
	Home int
	Away int
}

type RosterService struct {
	matchRepo  match.Repository
	rosterRepo roster.Repository
	teamRepo   team.Repository
	userRepo   user.Repository
	shuffler   random.Shuffler
	logger     *logging.Logger
	now        func() time.Time
}

func NewRosterService(
	matchRepo match.Repository,
	rosterRepo roster.Repository,
	teamRepo team.Repository,
	userRepo user.Repository,
	shuffler random.Shuffler,
	logger *logging.Logger,
) *RosterService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RosterService{
		matchRepo:  matchRepo,
		rosterRepo: rosterRepo,
		teamRepo:   teamRepo,
		userRepo:   userRepo,
		shuffler:   shuffler,
		logger:     logger.Named("usecase.roster"),
		now:        time.Now,
	}
}

// AddPlayer registers an individual player on a pickup match.
func (s *RosterService) AddPlayer(ctx context.Context, input AddPlayerInput) (roster.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.AddPlayer", matchAttr(input.MatchID))
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.UserID == "" && input.Email == "" {
		return roster.Entry{}, fmt.Errorf("%w: user id or email is required", ErrInvalidInput)
	}

	current, err := loadMatch(ctx, s.matchRepo, input.MatchID)
	if err != nil {
		return roster.Entry{}, err
	}
	if current.HasFixedTeams() {
		return roster.Entry{}, fmt.Errorf("%w: match has fixed teams, sync the rosters instead", ErrConflict)
	}

	profile, err := s.lookupUser(ctx, input.UserID, input.Email)
	if err != nil {
		return roster.Entry{}, err
	}

	now := s.now().UTC()
	entry, err := s.rosterRepo.Create(ctx, roster.Entry{
		MatchID:     current.ID,
		UserID:      profile.ID,
		Status:      roster.StatusPending,
		Side:        roster.SideUnassigned,
		PlayerName:  profile.Name,
		PlayerEmail: profile.Email,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		if errors.Is(err, roster.ErrDuplicateEntry) {
			return roster.Entry{}, fmt.Errorf("%w: player is already in this match", ErrConflict)
		}
		return roster.Entry{}, fmt.Errorf("create roster entry: %w", err)
	}

	s.logger.InfoContext(ctx, "player added to roster", "match_id", current.ID, "user_id", profile.ID)
	return entry, nil
}

// DistributeRandomly shuffles the roster and splits it into two halves,
// home taking the extra player on odd counts.
func (s *RosterService) DistributeRandomly(ctx context.Context, matchID string) ([]roster.Assignment, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.DistributeRandomly", matchAttr(matchID))
	defer span.End()

	current, err := loadMatch(ctx, s.matchRepo, matchID)
	if err != nil {
		return nil, err
	}
	if current.HasFixedTeams() {
		return nil, fmt.Errorf("%w: match has fixed teams", ErrConflict)
	}

	assignments, err := s.rosterRepo.Redistribute(ctx, current.ID, func(entries []roster.Entry) ([]roster.Assignment, error) {
		if len(entries) == 0 {
			return nil, fmt.Errorf("%w: roster is empty", ErrInvalidInput)
		}
		userIDs := make([]string, 0, len(entries))
		for _, entry := range entries {
			userIDs = append(userIDs, entry.UserID)
		}
		s.shuffler.Shuffle(len(userIDs), func(i, j int) {
			userIDs[i], userIDs[j] = userIDs[j], userIDs[i]
		})
		return roster.SplitSides(userIDs), nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return nil, err
		}
		return nil, s.mapAssignmentError(err)
	}

	s.logger.InfoContext(ctx, "roster distributed", "match_id", current.ID, "players", len(assignments))
	return assignments, nil
}

// ClearAssignments moves every player back to unassigned.
func (s *RosterService) ClearAssignments(ctx context.Context, matchID string) (int64, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ClearAssignments", matchAttr(matchID))
	defer span.End()

	current, err := loadMatch(ctx, s.matchRepo, matchID)
	if err != nil {
		return 0, err
	}

	affected, err := s.rosterRepo.ClearAssignments(ctx, current.ID)
	if err != nil {
		return 0, fmt.Errorf("clear assignments: %w", err)
	}

	s.logger.InfoContext(ctx, "roster assignments cleared", "match_id", current.ID, "affected", affected)
	return affected, nil
}

// AssignManually applies a batch of explicit sides. Every pair is checked
// before the store is touched; the assigned players become confirmed.
func (s *RosterService) AssignManually(ctx context.Context, matchID string, pairs []ManualAssignment) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.AssignManually", matchAttr(matchID))
	defer span.End()

	assignments, err := normalizeManualAssignments(pairs)
	if err != nil {
		return 0, err
	}

	current, err := loadMatch(ctx, s.matchRepo, matchID)
	if err != nil {
		return 0, err
	}
	if current.HasFixedTeams() {
		return 0, fmt.Errorf("%w: match has fixed teams, sync the rosters instead", ErrConflict)
	}

	if err := s.rosterRepo.ApplyAssignments(ctx, current.ID, assignments); err != nil {
		return 0, s.mapAssignmentError(err)
	}

	s.logger.InfoContext(ctx, "roster assigned manually", "match_id", current.ID, "players", len(assignments))
	return len(assignments), nil
}

// AssignPlayer is AssignManually for a single player.
func (s *RosterService) AssignPlayer(ctx context.Context, matchID, userID, side string) error {
	_, err := s.AssignManually(ctx, matchID, []ManualAssignment{{UserID: userID, Side: side}})
	return err
}

// SyncFromTeams copies both teams' memberships into the roster. A user who is
// in both teams plays home.
func (s *RosterService) SyncFromTeams(ctx context.Context, matchID string) (TeamSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.SyncFromTeams", matchAttr(matchID))
	defer span.End()

	current, err := loadMatch(ctx, s.matchRepo, matchID)
	if err != nil {
		return TeamSyncResult{}, err
	}
	if !current.HasFixedTeams() {
		return TeamSyncResult{}, fmt.Errorf("%w: match has no away team to sync", ErrConflict)
	}

	members, err := s.loadMembers(ctx, current.HomeTeamID, current.AwayTeamID)
	if err != nil {
		return TeamSyncResult{}, err
	}
	homeMembers, awayMembers := members[0], members[1]
	if len(homeMembers) == 0 && len(awayMembers) == 0 {
		return TeamSyncResult{}, fmt.Errorf("%w: both teams have no members", ErrInvalidInput)
	}

	var result TeamSyncResult
	seen := make(map[string]struct{}, len(homeMembers)+len(awayMembers))
	assignments := make([]roster.Assignment, 0, len(homeMembers)+len(awayMembers))
	for _, side := range []struct {
		side    roster.Side
		members []team.Member
		count   *int
	}{
		{side: roster.SideHome, members: homeMembers, count: &result.Home},
		{side: roster.SideAway, members: awayMembers, count: &result.Away},
	} {
		for _, member := range side.members {
			if _, ok := seen[member.UserID]; ok || member.UserID == "" {
				continue
			}
			seen[member.UserID] = struct{}{}
			assignments = append(assignments, roster.Assignment{UserID: member.UserID, Side: side.side, Confirm: true})
			*side.count++
		}
	}

	if err := s.rosterRepo.UpsertSides(ctx, current.ID, assignments); err != nil {
		return TeamSyncResult{}, s.mapAssignmentError(err)
	}

	s.logger.InfoContext(ctx, "roster synced from teams",
		"match_id", current.ID,
		"home_players", result.Home,
		"away_players", result.Away,
	)
	return result, nil
}

// ListRoster returns the match roster ordered by side, then player name.
func (s *RosterService) ListRoster(ctx context.Context, matchID string) ([]roster.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ListRoster", matchAttr(matchID))
	defer span.End()

	current, err := loadMatch(ctx, s.matchRepo, matchID)
	if err != nil {
		return nil, err
	}

	entries, err := s.rosterRepo.ListByMatch(ctx, current.ID)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	roster.SortEntries(entries)
	return entries, nil
}

// UpdateAttendance sets the caller's own attendance answer.
func (s *RosterService) UpdateAttendance(ctx context.Context, matchID, userID, status string) (roster.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.UpdateAttendance", matchAttr(matchID))
	defer span.End()

	next := roster.Status(strings.ToLower(strings.TrimSpace(status)))
	if !next.Valid() {
		return roster.Entry{}, fmt.Errorf("%w: unknown attendance status %q", ErrInvalidInput, status)
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return roster.Entry{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	matchID = strings.TrimSpace(matchID)

	entry, ok, err := s.rosterRepo.UpdateStatus(ctx, matchID, userID, next)
	if err != nil {
		return roster.Entry{}, fmt.Errorf("update attendance: %w", err)
	}
	if !ok {
		return roster.Entry{}, fmt.Errorf("%w: no roster entry for user=%s in match=%s", ErrNotFound, userID, matchID)
	}
	return entry, nil
}

func (s *RosterService) lookupUser(ctx context.Context, userID, email string) (user.Profile, error) {
	var (
		profile user.Profile
		exists  bool
		err     error
	)
	if userID != "" {
		profile, exists, err = s.userRepo.GetByID(ctx, userID)
	} else {
		profile, exists, err = s.userRepo.GetByEmail(ctx, email)
	}
	if err != nil {
		return user.Profile{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return user.Profile{}, fmt.Errorf("%w: user not found", ErrNotFound)
	}
	return profile, nil
}

// loadMembers fetches the memberships of every team id concurrently, keeping
// the input order in the result.
func (s *RosterService) loadMembers(ctx context.Context, teamIDs ...string) ([][]team.Member, error) {
	out := make([][]team.Member, len(teamIDs))
	errs := make([]error, len(teamIDs))

	pool, err := ants.NewPool(len(teamIDs))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for i, teamID := range teamIDs {
		i, teamID := i, teamID
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			out[i], errs[i] = s.teamRepo.ListMembers(ctx, teamID)
		}); err != nil {
			workers.Done()
			errs[i] = fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	workers.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("list members of team=%s: %w", teamIDs[i], err)
		}
	}
	return out, nil
}

func (s *RosterService) mapAssignmentError(err error) error {
	if errors.Is(err, roster.ErrEntryNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return fmt.Errorf("apply assignments: %w", err)
}

func normalizeManualAssignments(pairs []ManualAssignment) ([]roster.Assignment, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: assignments are required", ErrInvalidInput)
	}

	seen := make(map[string]struct{}, len(pairs))
	out := make([]roster.Assignment, 0, len(pairs))
	for i, pair := range pairs {
		userID := strings.TrimSpace(pair.UserID)
		if userID == "" {
			return nil, fmt.Errorf("%w: assignment %d has no user id", ErrInvalidInput, i)
		}
		side := roster.Side(strings.ToLower(strings.TrimSpace(pair.Side)))
		if !side.Playable() {
			return nil, fmt.Errorf("%w: assignment %d has invalid side %q", ErrInvalidInput, i, pair.Side)
		}
		if _, ok := seen[userID]; ok {
			return nil, fmt.Errorf("%w: user %s is assigned more than once", ErrInvalidInput, userID)
		}
		seen[userID] = struct{}{}
		out = append(out, roster.Assignment{UserID: userID, Side: side, Confirm: true})
	}
	return out, nil
}
