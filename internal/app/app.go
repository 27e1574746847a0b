package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/panjf2000/ants/v2"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/Dwooll94/SWAT-Website-25-sub001/external/tba"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/config"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/appconfig"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/event"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/match"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/statscache"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/teamstatus"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/webhooklog"
	cacherepo "github.com/Dwooll94/SWAT-Website-25-sub001/internal/infrastructure/repository/cache"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/infrastructure/repository/memory"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/infrastructure/repository/postgres"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/interfaces/httpapi"
	basecache "github.com/Dwooll94/SWAT-Website-25-sub001/internal/platform/cache"
	idgen "github.com/Dwooll94/SWAT-Website-25-sub001/internal/platform/id"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/platform/logging"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/platform/resilience"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/usecase"
)

// webhookWorkerCount bounds the goroutines that run webhook-triggered
// refreshes. Upstream sends at most a handful of messages per match.
const webhookWorkerCount = 4

const releaseWorkersTimeout = 5 * time.Second

// repositories groups the storage implementations behind the domain
// interfaces so the postgres and in-memory wirings stay interchangeable.
type repositories struct {
	config  appconfig.Repository
	events  event.Repository
	status  teamstatus.Repository
	matches match.Repository
	stats   statscache.Repository
	webhook webhooklog.Repository
}

// App owns the long-lived pieces of the service: the HTTP server, the sync
// scheduler, the webhook worker pool, and the database handle when one is
// configured. Close releases them in dependency order.
type App struct {
	Server    *http.Server
	Scheduler *usecase.SchedulerService

	db      *sqlx.DB
	workers *ants.Pool
	logger  *logging.Logger
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, db, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.events = cacherepo.NewEventRepository(repos.events, store)
		repos.matches = cacherepo.NewEventMatchRepository(repos.matches, store)
	}

	provider := tba.NewClient(tba.ClientConfig{
		BaseURL: cfg.TBABaseURL,
		Timeout: cfg.TBATimeout,
		Logger:  logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.TBACircuitEnabled,
			FailureThreshold: cfg.TBACircuitFailureCount,
			OpenTimeout:      cfg.TBACircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.TBACircuitHalfOpenMaxReq,
		},
	})

	gen := idgen.NewRandomGenerator()
	syncSvc := usecase.NewEventSyncService(
		provider,
		repos.config,
		repos.events,
		repos.status,
		repos.matches,
		repos.stats,
		gen,
		usecase.EventSyncConfig{RatingsCacheTTL: cfg.EventRatingsCacheTTL},
		logger,
	)
	displaySvc := usecase.NewEventDisplayService(
		repos.config,
		repos.events,
		repos.status,
		repos.matches,
		logger,
	)
	scheduler := usecase.NewSchedulerService(syncSvc, repos.config, usecase.SchedulerConfig{
		EventCheckInterval:   cfg.EventCheckInterval,
		EventRefreshInterval: cfg.EventRefreshInterval,
		CacheCleanupInterval: cfg.CacheCleanupInterval,
	}, logger)

	workers, err := ants.NewPool(webhookWorkerCount)
	if err != nil {
		closeDB(db, logger)
		return nil, fmt.Errorf("create webhook worker pool: %w", err)
	}
	webhookSvc := usecase.NewWebhookService(repos.config, repos.webhook, syncSvc, workers, gen, logger)

	handler := httpapi.NewHandler(displaySvc, syncSvc, scheduler, webhookSvc, repos.config, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &App{
		Server:    server,
		Scheduler: scheduler,
		db:        db,
		workers:   workers,
		logger:    logger,
	}, nil
}

// StartScheduler makes the boot-time start attempt. The stored runtime
// configuration gates the outcome, so staying stopped here is the normal
// state for a fresh install; Start logs which gate held it back.
func (a *App) StartScheduler(ctx context.Context) {
	if _, err := a.Scheduler.Start(ctx); err != nil {
		a.logger.WarnContext(ctx, "boot scheduler start failed", "error", err)
	}
}

// Close stops the scheduler before anything else so no sync pass runs
// against a draining worker pool or a closing database.
func (a *App) Close() error {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}

	var errs []error
	if a.workers != nil {
		if err := a.workers.ReleaseTimeout(releaseWorkersTimeout); err != nil {
			errs = append(errs, fmt.Errorf("release webhook workers: %w", err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}

// buildRepositories wires postgres storage when DATABASE_URL is set and
// falls back to the seeded in-memory implementations otherwise, which keeps
// local development and tests working without a database.
func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, *sqlx.DB, error) {
	if cfg.DBURL == "" {
		logger.Info("no database configured, using in-memory repositories")
		return repositories{
			config:  memory.NewAppConfigRepository(memory.SeedConfigEntries()),
			events:  memory.NewEventRepository(),
			status:  memory.NewTeamEventStatusRepository(),
			matches: memory.NewEventMatchRepository(),
			stats:   memory.NewStatsCacheRepository(),
			webhook: memory.NewWebhookLogRepository(),
		}, nil, nil
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return repositories{}, nil, err
	}

	if err := postgres.BootstrapSeed(ctx, db); err != nil {
		closeDB(db, logger)
		return repositories{}, nil, fmt.Errorf("seed config defaults: %w", err)
	}

	logger.Info("database connected", "db_name", dbNameFromURL(cfg.DBURL))
	return repositories{
		config:  postgres.NewAppConfigRepository(db),
		events:  postgres.NewEventRepository(db),
		status:  postgres.NewTeamEventStatusRepository(db),
		matches: postgres.NewEventMatchRepository(db),
		stats:   postgres.NewStatsCacheRepository(db),
		webhook: postgres.NewWebhookLogRepository(db),
	}, db, nil
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.ConnectContext(ctx, "postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

func closeDB(db *sqlx.DB, logger *logging.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Warn("close database failed", "error", err)
	}
}
