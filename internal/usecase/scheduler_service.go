package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/appconfig"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/metrics"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/platform/logging"
)

// SyncRunner is the result-typed face of the sync engine that the
// scheduler, webhook handling, and the forced-run endpoints drive.
type SyncRunner interface {
	RunEventCheck(ctx context.Context) SyncOutcome
	RunDataRefresh(ctx context.Context) SyncOutcome
	RunStatusRefresh(ctx context.Context) SyncOutcome
	RunMatchRefresh(ctx context.Context) SyncOutcome
	RunCacheCleanup(ctx context.Context) SyncOutcome
}

type SchedulerConfig struct {
	EventCheckInterval   time.Duration
	EventRefreshInterval time.Duration
	CacheCleanupInterval time.Duration
}

// SchedulerService owns the periodic sync loop. Start reads the runtime
// configuration once: when event display is switched off or no upstream API
// key is stored, the scheduler stays stopped until the next Start call.
type SchedulerService struct {
	runner     SyncRunner
	configRepo appconfig.Repository
	cfg        SchedulerConfig
	logger     *logging.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewSchedulerService(
	runner SyncRunner,
	configRepo appconfig.Repository,
	cfg SchedulerConfig,
	logger *logging.Logger,
) *SchedulerService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.EventCheckInterval <= 0 {
		cfg.EventCheckInterval = time.Hour
	}
	if cfg.EventRefreshInterval <= 0 {
		cfg.EventRefreshInterval = 5 * time.Minute
	}
	if cfg.CacheCleanupInterval <= 0 {
		cfg.CacheCleanupInterval = 24 * time.Hour
	}

	return &SchedulerService{
		runner:     runner,
		configRepo: configRepo,
		cfg:        cfg,
		logger:     logger,
	}
}

// Start launches the periodic loop. The returned bool reports whether the
// loop actually started: a false with nil error means the configuration
// gate kept the scheduler stopped, or it was already running.
func (s *SchedulerService) Start(ctx context.Context) (bool, error) {
	if s.runner == nil || s.configRepo == nil {
		return false, fmt.Errorf("%w: scheduler service is not fully configured", ErrDependencyUnavailable)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.logger.DebugContext(ctx, "event scheduler already running")
		return false, nil
	}

	enabled, err := s.displayEnabled(ctx)
	if err != nil {
		return false, err
	}
	if !enabled {
		s.logger.InfoContext(ctx, "event display is disabled, scheduler stays stopped",
			"config_key", appconfig.KeyEnableEventDisplay,
		)
		return false, nil
	}

	hasKey, err := s.apiKeyPresent(ctx)
	if err != nil {
		return false, err
	}
	if !hasKey {
		s.logger.WarnContext(ctx, "event display is enabled but no upstream API key is stored, scheduler stays stopped",
			"config_key", appconfig.KeyTBAAPIKey,
		)
		return false, nil
	}

	// The loop outlives the request that started it.
	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.run(runCtx, s.done)

	s.logger.InfoContext(ctx, "event scheduler started",
		"event_check_interval", s.cfg.EventCheckInterval.String(),
		"event_refresh_interval", s.cfg.EventRefreshInterval.String(),
		"cache_cleanup_interval", s.cfg.CacheCleanupInterval.String(),
	)
	return true, nil
}

// Stop halts the loop and waits for the in-flight run, if any, to finish
// its current operation. Stopping an already stopped scheduler is a no-op.
func (s *SchedulerService) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	wasRunning := s.running
	s.cancel = nil
	s.done = nil
	s.running = false
	s.mu.Unlock()

	if !wasRunning || cancel == nil {
		return
	}

	cancel()
	if done != nil {
		<-done
	}
	s.logger.Info("event scheduler stopped")
}

func (s *SchedulerService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// run handles all three cadences on a single goroutine so sync operations
// never overlap each other.
func (s *SchedulerService) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	metrics.SchedulerRunning.Set(1)
	defer metrics.SchedulerRunning.Set(0)

	checkTicker := time.NewTicker(s.cfg.EventCheckInterval)
	defer checkTicker.Stop()
	refreshTicker := time.NewTicker(s.cfg.EventRefreshInterval)
	defer refreshTicker.Stop()
	cleanupTicker := time.NewTicker(s.cfg.CacheCleanupInterval)
	defer cleanupTicker.Stop()

	// First check runs immediately so a restart mid-event does not wait a
	// full interval before noticing the event.
	s.tick(ctx, OpEventCheck)

	for {
		select {
		case <-ctx.Done():
			return
		case <-checkTicker.C:
			s.tick(ctx, OpEventCheck)
		case <-refreshTicker.C:
			s.tick(ctx, OpDataRefresh)
		case <-cleanupTicker.C:
			s.tick(ctx, OpCacheCleanup)
		}
	}
}

func (s *SchedulerService) tick(ctx context.Context, operation SyncOperation) {
	if ctx.Err() != nil {
		return
	}
	metrics.SchedulerTicks.WithLabelValues(string(operation)).Inc()

	switch operation {
	case OpEventCheck:
		s.runner.RunEventCheck(ctx)
	case OpDataRefresh:
		s.runner.RunDataRefresh(ctx)
	case OpCacheCleanup:
		s.runner.RunCacheCleanup(ctx)
	}
}

func (s *SchedulerService) displayEnabled(ctx context.Context) (bool, error) {
	entry, ok, err := s.configRepo.Get(ctx, appconfig.KeyEnableEventDisplay)
	if err != nil {
		return false, fmt.Errorf("read config %s: %w", appconfig.KeyEnableEventDisplay, err)
	}
	return ok && entry.IsTrue(), nil
}

func (s *SchedulerService) apiKeyPresent(ctx context.Context) (bool, error) {
	entry, ok, err := s.configRepo.Get(ctx, appconfig.KeyTBAAPIKey)
	if err != nil {
		return false, fmt.Errorf("read config %s: %w", appconfig.KeyTBAAPIKey, err)
	}
	return ok && strings.TrimSpace(entry.StringValue()) != "", nil
}
