package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/futplan/internal/domain/location"
	"github.com/riskibarqy/futplan/internal/domain/match"
	"github.com/riskibarqy/futplan/internal/domain/matchevent"
	"github.com/riskibarqy/futplan/internal/domain/team"
	"github.com/riskibarqy/futplan/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

// TeamCard is the display metadata of one side.
type TeamCard struct {
	ID       string
	Name     string
	ColorHex string
}

// Dashboard is the read model of a match page.
type Dashboard struct {
	Match    match.Match
	Location *location.Location
	Home     *TeamCard
	Away     *TeamCard
	Events   []matchevent.Event
}

type DashboardService struct {
	matchRepo    match.Repository
	locationRepo location.Repository
	teamRepo     team.Repository
	ledger       matchevent.Ledger
	logger       *logging.Logger
}

func NewDashboardService(
	matchRepo match.Repository,
	locationRepo location.Repository,
	teamRepo team.Repository,
	ledger matchevent.Ledger,
	logger *logging.Logger,
) *DashboardService {
	if logger == nil {
		logger = logging.Default()
	}

	return &DashboardService{
		matchRepo:    matchRepo,
		locationRepo: locationRepo,
		teamRepo:     teamRepo,
		ledger:       ledger,
		logger:       logger.Named("usecase.dashboard"),
	}
}

// Get composes the match, its venue, both sides and the event ledger. A
// dangling location or team reference leaves that part nil.
func (s *DashboardService) Get(ctx context.Context, matchID string) (Dashboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DashboardService.Get", matchAttr(matchID))
	defer span.End()

	current, err := loadMatch(ctx, s.matchRepo, matchID)
	if err != nil {
		return Dashboard{}, err
	}

	out := Dashboard{Match: current}
	p := pool.New().WithErrors().WithContext(ctx)

	p.Go(func(ctx context.Context) error {
		item, exists, err := s.locationRepo.GetByID(ctx, current.LocationID)
		if err != nil {
			return fmt.Errorf("get location: %w", err)
		}
		if !exists {
			s.logger.WarnContext(ctx, "match references missing location", "match_id", current.ID, "location_id", current.LocationID)
			return nil
		}
		out.Location = &item
		return nil
	})
	p.Go(func(ctx context.Context) error {
		card, err := s.teamCard(ctx, current.HomeTeamID)
		out.Home = card
		return err
	})
	p.Go(func(ctx context.Context) error {
		card, err := s.teamCard(ctx, current.AwayTeamID)
		out.Away = card
		return err
	})
	p.Go(func(ctx context.Context) error {
		events, err := s.ledger.ListByMatch(ctx, current.ID)
		if err != nil {
			return fmt.Errorf("list match events: %w", err)
		}
		matchevent.SortChronological(events)
		out.Events = events
		return nil
	})

	if err := p.Wait(); err != nil {
		return Dashboard{}, err
	}
	return out, nil
}

func (s *DashboardService) teamCard(ctx context.Context, teamID string) (*TeamCard, error) {
	if teamID == "" {
		return nil, nil
	}

	item, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return nil, nil
	}
	return &TeamCard{ID: item.ID, Name: item.Name, ColorHex: item.ColorHex}, nil
}
