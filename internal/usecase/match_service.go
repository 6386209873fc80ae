package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/futplan/internal/domain/location"
	"github.com/riskibarqy/futplan/internal/domain/match"
	"github.com/riskibarqy/futplan/internal/domain/team"
	idgen "github.com/riskibarqy/futplan/internal/platform/id"
	"github.com/riskibarqy/futplan/internal/platform/logging"
)

const (
	InviteActionAccept = "accept"
	InviteActionReject = "reject"
)

// CreateMatchInput is the incoming payload for scheduling a match.
type CreateMatchInput struct {
	LocationID  string
	HomeTeamID  string
	AwayTeamID  string
	ScheduledAt time.Time
	CreatedBy   string
}

type RespondInviteInput struct {
	MatchID string
	UserID  string
	Action  string
}

// FinishResult carries the finished match and its final score line.
type FinishResult struct {
	Match   match.Match
	Summary string
}

type MatchService struct {
	matchRepo    match.Repository
	locationRepo location.Repository
	teamRepo     team.Repository
	idGen        idgen.Generator
	logger       *logging.Logger
	now          func() time.Time
}

func NewMatchService(
	matchRepo match.Repository,
	locationRepo location.Repository,
	teamRepo team.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchService{
		matchRepo:    matchRepo,
		locationRepo: locationRepo,
		teamRepo:     teamRepo,
		idGen:        idGen,
		logger:       logger.Named("usecase.match"),
		now:          time.Now,
	}
}

func (s *MatchService) Create(ctx context.Context, input CreateMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Create")
	defer span.End()

	input.LocationID = strings.TrimSpace(input.LocationID)
	input.HomeTeamID = strings.TrimSpace(input.HomeTeamID)
	input.AwayTeamID = strings.TrimSpace(input.AwayTeamID)
	input.CreatedBy = strings.TrimSpace(input.CreatedBy)

	if input.CreatedBy == "" {
		return match.Match{}, fmt.Errorf("%w: creator is required", ErrInvalidInput)
	}
	if input.LocationID == "" {
		return match.Match{}, fmt.Errorf("%w: location id is required", ErrInvalidInput)
	}
	if input.HomeTeamID == "" {
		return match.Match{}, fmt.Errorf("%w: home team id is required", ErrInvalidInput)
	}
	if input.ScheduledAt.IsZero() {
		return match.Match{}, fmt.Errorf("%w: scheduled time is required", ErrInvalidInput)
	}
	if input.AwayTeamID != "" && input.AwayTeamID == input.HomeTeamID {
		return match.Match{}, fmt.Errorf("%w: away team must differ from home team", ErrInvalidInput)
	}

	if _, exists, err := s.locationRepo.GetByID(ctx, input.LocationID); err != nil {
		return match.Match{}, fmt.Errorf("get location: %w", err)
	} else if !exists {
		return match.Match{}, fmt.Errorf("%w: location=%s does not exist", ErrInvalidInput, input.LocationID)
	}

	for _, teamID := range []string{input.HomeTeamID, input.AwayTeamID} {
		if teamID == "" {
			continue
		}
		_, exists, err := s.teamRepo.GetByID(ctx, teamID)
		if err != nil {
			return match.Match{}, fmt.Errorf("get team: %w", err)
		}
		if !exists {
			return match.Match{}, fmt.Errorf("%w: team=%s does not exist", ErrInvalidInput, teamID)
		}
	}

	matchID, err := s.idGen.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}

	now := s.now().UTC()
	created, err := s.matchRepo.Create(ctx, match.Match{
		ID:          matchID,
		LocationID:  input.LocationID,
		HomeTeamID:  input.HomeTeamID,
		AwayTeamID:  input.AwayTeamID,
		ScheduledAt: input.ScheduledAt.UTC(),
		Status:      match.InitialStatus(input.AwayTeamID),
		CreatedBy:   input.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return match.Match{}, fmt.Errorf("create match: %w", err)
	}

	s.logger.InfoContext(ctx, "match created",
		"match_id", created.ID,
		"status", created.Status,
		"created_by", created.CreatedBy,
	)

	return created, nil
}

func (s *MatchService) Get(ctx context.Context, matchID string) (match.Match, error) {
	return loadMatch(ctx, s.matchRepo, matchID)
}

func (s *MatchService) List(ctx context.Context) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.List")
	defer span.End()

	items, err := s.matchRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return items, nil
}

func (s *MatchService) ListByTeam(ctx context.Context, teamID string) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListByTeam")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	items, err := s.matchRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team matches: %w", err)
	}
	return items, nil
}

// RespondToInvite lets the away team's owner accept or reject a pending match.
func (s *MatchService) RespondToInvite(ctx context.Context, input RespondInviteInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.RespondToInvite", matchAttr(input.MatchID))
	defer span.End()

	var target match.Status
	switch strings.ToLower(strings.TrimSpace(input.Action)) {
	case InviteActionAccept:
		target = match.StatusScheduled
	case InviteActionReject:
		target = match.StatusCanceled
	default:
		return match.Match{}, fmt.Errorf("%w: action must be accept or reject", ErrInvalidInput)
	}

	current, err := loadMatch(ctx, s.matchRepo, input.MatchID)
	if err != nil {
		return match.Match{}, err
	}

	if current.AwayTeamID == "" {
		return match.Match{}, fmt.Errorf("%w: match has no invited team", ErrForbidden)
	}
	away, exists, err := s.teamRepo.GetByID(ctx, current.AwayTeamID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get away team: %w", err)
	}
	if !exists || !away.IsOwnedBy(strings.TrimSpace(input.UserID)) {
		return match.Match{}, fmt.Errorf("%w: only the invited team's owner can respond", ErrForbidden)
	}

	if current.Status != match.StatusPendingApproval {
		return match.Match{}, fmt.Errorf("%w: match is %s, not pending approval", ErrInvalidState, current.Status)
	}

	updated, err := s.transition(ctx, current.ID, []match.Status{match.StatusPendingApproval}, target)
	if err != nil {
		return match.Match{}, err
	}

	s.logger.InfoContext(ctx, "match invite answered",
		"match_id", updated.ID,
		"action", input.Action,
		"status", updated.Status,
	)
	return updated, nil
}

// Start moves a match in progress. Only the creator may start it and never
// before its scheduled time.
func (s *MatchService) Start(ctx context.Context, matchID, userID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Start", matchAttr(matchID))
	defer span.End()

	current, err := loadMatch(ctx, s.matchRepo, matchID)
	if err != nil {
		return match.Match{}, err
	}

	if s.now().Before(current.ScheduledAt) {
		return match.Match{}, withDetail(
			fmt.Errorf("%w: match cannot start before its scheduled time", ErrPrecondition),
			"scheduled_at="+current.ScheduledAt.UTC().Format(time.RFC3339),
		)
	}
	if strings.TrimSpace(userID) == "" || current.CreatedBy != strings.TrimSpace(userID) {
		return match.Match{}, fmt.Errorf("%w: only the match creator can start it", ErrForbidden)
	}
	if !match.ContainsStatus(match.StartableStatuses(), current.Status) {
		return match.Match{}, fmt.Errorf("%w: match is %s", ErrInvalidState, current.Status)
	}

	updated, err := s.transition(ctx, current.ID, match.StartableStatuses(), match.StatusInProgress)
	if err != nil {
		return match.Match{}, err
	}

	s.logger.InfoContext(ctx, "match started", "match_id", updated.ID, "user_id", userID)
	return updated, nil
}

// Finish closes a match regardless of its current status.
func (s *MatchService) Finish(ctx context.Context, matchID string) (FinishResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Finish", matchAttr(matchID))
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return FinishResult{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	updated, err := s.transition(ctx, matchID, nil, match.StatusFinished)
	if err != nil {
		return FinishResult{}, err
	}

	summary := updated.ScoreSummary()
	s.logger.InfoContext(ctx, "match finished", "match_id", updated.ID, "score", summary)
	return FinishResult{Match: updated, Summary: summary}, nil
}

func (s *MatchService) transition(ctx context.Context, matchID string, from []match.Status, to match.Status) (match.Match, error) {
	updated, ok, err := s.matchRepo.TransitionStatus(ctx, matchID, from, to, s.now().UTC())
	if err != nil {
		return match.Match{}, fmt.Errorf("transition match status: %w", err)
	}
	if ok {
		return updated, nil
	}

	// Lost the race or the row vanished; tell the two apart.
	current, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	return match.Match{}, fmt.Errorf("%w: match is %s", ErrInvalidState, current.Status)
}

func loadMatch(ctx context.Context, repo match.Repository, matchID string) (match.Match, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	item, exists, err := repo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	return item, nil
}
