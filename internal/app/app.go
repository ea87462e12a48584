package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/mlb-standings/external/mlbstats"
	"github.com/riskibarqy/mlb-standings/internal/config"
	"github.com/riskibarqy/mlb-standings/internal/domain/favorites"
	"github.com/riskibarqy/mlb-standings/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/mlb-standings/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/mlb-standings/internal/interfaces/httpapi"
	"github.com/riskibarqy/mlb-standings/internal/platform/logging"
	"github.com/riskibarqy/mlb-standings/internal/platform/resilience"
	"github.com/riskibarqy/mlb-standings/internal/usecase"
)

// Application bundles the wired service graph and the resources that
// need explicit teardown.
type Application struct {
	Server    *http.Server
	Standings *usecase.StandingsService

	db     *sqlx.DB
	logger *logging.Logger
}

// New wires config into the full service graph: provider client,
// favorites repository, standings engine, HTTP router. The initial
// standings fetch is attempted here but a provider outage does not block
// startup; the engine starts empty and recovers on the next refresh.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Application, error) {
	if logger == nil {
		logger = logging.Default()
	}

	client := mlbstats.NewClient(mlbstats.ClientConfig{
		BaseURL:    cfg.StatsAPIBaseURL,
		Timeout:    cfg.StatsAPITimeout,
		MaxRetries: cfg.StatsAPIMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.BreakerConfig{
			Enabled:          cfg.StatsAPICircuitEnabled,
			FailureThreshold: cfg.StatsAPICircuitFailureCount,
			OpenTimeout:      cfg.StatsAPICircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.StatsAPICircuitHalfOpenMaxReq,
		},
	})
	provider := mlbstats.NewStandingsProvider(client, cfg.StatsAPILeagueIDs)

	var db *sqlx.DB
	var favoritesRepo favorites.Repository
	if strings.TrimSpace(cfg.DBURL) != "" {
		opened, err := openDB(cfg)
		if err != nil {
			return nil, fmt.Errorf("open favorites database: %w", err)
		}
		db = opened
		favoritesRepo = postgres.NewFavoritesRepository(db)
		logger.Info("favorites persistence enabled", "db", dbNameFromURL(cfg.DBURL))
	} else {
		favoritesRepo = memory.NewFavoritesRepository()
		logger.Info("favorites persistence disabled, using in-memory set")
	}

	standingsSvc := usecase.NewStandingsService(provider, favoritesRepo, cfg.DefaultSeason, logger)
	standingsSvc.RestoreFavorites(ctx)
	if err := standingsSvc.Refresh(ctx); err != nil {
		logger.WarnContext(ctx, "initial standings fetch failed, starting with empty snapshot",
			"season", cfg.DefaultSeason, "error", err)
	}

	handler := httpapi.NewHandler(standingsSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &Application{
		Server:    server,
		Standings: standingsSvc,
		db:        db,
		logger:    logger,
	}, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dbURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

// Close releases held resources. Safe to call once after the server has
// shut down.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
