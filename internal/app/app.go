package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/futplan/internal/config"
	"github.com/riskibarqy/futplan/internal/domain/location"
	"github.com/riskibarqy/futplan/internal/domain/match"
	"github.com/riskibarqy/futplan/internal/domain/matchevent"
	"github.com/riskibarqy/futplan/internal/domain/roster"
	"github.com/riskibarqy/futplan/internal/domain/team"
	"github.com/riskibarqy/futplan/internal/domain/user"
	"github.com/riskibarqy/futplan/internal/infrastructure/account/anubis"
	cacherepo "github.com/riskibarqy/futplan/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/futplan/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/futplan/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/futplan/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/futplan/internal/platform/id"
	"github.com/riskibarqy/futplan/internal/platform/logging"
	"github.com/riskibarqy/futplan/internal/platform/random"
	"github.com/riskibarqy/futplan/internal/usecase"
)

type repositories struct {
	matches   match.Repository
	roster    roster.Repository
	events    matchevent.Ledger
	teams     team.Repository
	locations location.Repository
	users     user.Repository
}

// NewHTTPServer wires storage, services and the router. The returned cleanup
// releases the database pool.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, cleanup, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	shuffler, err := random.NewShuffler(cfg.DistributionSeed)
	if err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("build shuffler: %w", err)
	}
	ids := idgen.NewUUIDGenerator()

	matchSvc := usecase.NewMatchService(repos.matches, repos.locations, repos.teams, ids, logger)
	rosterSvc := usecase.NewRosterService(repos.matches, repos.roster, repos.teams, repos.users, shuffler, logger)
	eventSvc := usecase.NewEventService(repos.events, ids, logger)
	dashboardSvc := usecase.NewDashboardService(repos.matches, repos.locations, repos.teams, repos.events, logger)

	verifier := anubis.NewClient(anubis.Config{
		BaseURL:        cfg.AnubisBaseURL,
		IntrospectPath: cfg.AnubisIntrospectURL,
		AdminKey:       cfg.AnubisAdminKey,
		Timeout:        cfg.AnubisTimeout,
		CircuitBreaker: cfg.AnubisCircuit,
		CacheTTL:       cfg.AuthCacheTTL,
	}, logger)

	handler := httpapi.NewHandler(matchSvc, rosterSvc, eventSvc, dashboardSvc, logger)
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		Verifier:           verifier,
		Users:              repos.users,
		ManagerRoles:       cfg.AssignmentManagerRoles,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		SwaggerEnabled:     cfg.SwaggerEnabled,
	}, logger)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
	return server, cleanup, nil
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, func() error, error) {
	var (
		repos   repositories
		cleanup = func() error { return nil }
	)

	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		memory.Seed(store)
		repos = repositories{
			matches:   store.Matches(),
			roster:    store.Roster(),
			events:    store.Events(),
			teams:     store.Teams(),
			locations: store.Locations(),
			users:     store.Users(),
		}
		logger.Warn("using in-memory storage", "reason", "STORAGE_DRIVER=memory")
	case config.StorageDriverPostgres:
		db, err := openDatabase(ctx, cfg)
		if err != nil {
			return repositories{}, nil, err
		}
		cleanup = db.Close

		if cfg.DBSeedOnStart {
			if err := postgres.BootstrapSeed(ctx, db); err != nil {
				_ = db.Close()
				return repositories{}, nil, fmt.Errorf("bootstrap seed: %w", err)
			}
			logger.Info("database seed checked")
		}

		repos = repositories{
			matches:   postgres.NewMatchRepository(db),
			roster:    postgres.NewRosterRepository(db),
			events:    postgres.NewEventLedger(db),
			teams:     postgres.NewTeamRepository(db),
			locations: postgres.NewLocationRepository(db),
			users:     postgres.NewUserRepository(db),
		}
		logger.Info("using postgres storage", "db_name", dbNameFromURL(cfg.DBURL))
	default:
		return repositories{}, nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}

	if cfg.CacheEnabled {
		repos.locations = cacherepo.NewLocationRepository(repos.locations, cfg.CacheTTL)
	}
	return repos, cleanup, nil
}
