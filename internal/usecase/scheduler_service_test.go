package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/appconfig"
)

type stubSyncRunner struct {
	mu          sync.Mutex
	checkRuns   int
	refreshRuns int
	statusRuns  int
	matchRuns   int
	cleanupRuns int
	checked     chan struct{}
}

func newStubSyncRunner() *stubSyncRunner {
	return &stubSyncRunner{checked: make(chan struct{}, 1)}
}

func (r *stubSyncRunner) RunEventCheck(_ context.Context) SyncOutcome {
	r.mu.Lock()
	r.checkRuns++
	r.mu.Unlock()
	select {
	case r.checked <- struct{}{}:
	default:
	}
	return SyncOutcome{Operation: OpEventCheck}
}

func (r *stubSyncRunner) RunDataRefresh(_ context.Context) SyncOutcome {
	r.mu.Lock()
	r.refreshRuns++
	r.mu.Unlock()
	return SyncOutcome{Operation: OpDataRefresh}
}

func (r *stubSyncRunner) RunStatusRefresh(_ context.Context) SyncOutcome {
	r.mu.Lock()
	r.statusRuns++
	r.mu.Unlock()
	return SyncOutcome{Operation: OpStatusRefresh}
}

func (r *stubSyncRunner) RunMatchRefresh(_ context.Context) SyncOutcome {
	r.mu.Lock()
	r.matchRuns++
	r.mu.Unlock()
	return SyncOutcome{Operation: OpMatchRefresh}
}

func (r *stubSyncRunner) RunCacheCleanup(_ context.Context) SyncOutcome {
	r.mu.Lock()
	r.cleanupRuns++
	r.mu.Unlock()
	return SyncOutcome{Operation: OpCacheCleanup}
}

func (r *stubSyncRunner) checkCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.checkRuns
}

func TestSchedulerService_Start_StaysStoppedWhenDisplayDisabled(t *testing.T) {
	t.Parallel()

	runner := newStubSyncRunner()
	svc := NewSchedulerService(runner, newMemConfigRepo(map[string]string{
		appconfig.KeyEnableEventDisplay: "false",
		appconfig.KeyTBAAPIKey:          "test-key",
	}), SchedulerConfig{}, nil)

	started, err := svc.Start(context.Background())
	if err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if started {
		t.Fatalf("expected scheduler to stay stopped with display disabled")
	}
	if svc.IsRunning() {
		t.Fatalf("expected IsRunning=false")
	}
	if runner.checkCount() != 0 {
		t.Fatalf("expected no sync runs, got=%d", runner.checkCount())
	}
}

func TestSchedulerService_Start_StaysStoppedWithoutAPIKey(t *testing.T) {
	t.Parallel()

	runner := newStubSyncRunner()
	svc := NewSchedulerService(runner, newMemConfigRepo(map[string]string{
		appconfig.KeyEnableEventDisplay: "true",
	}), SchedulerConfig{}, nil)

	started, err := svc.Start(context.Background())
	if err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if started {
		t.Fatalf("expected scheduler to stay stopped without an api key")
	}
	if svc.IsRunning() {
		t.Fatalf("expected IsRunning=false")
	}
}

func TestSchedulerService_StartRunsImmediateCheckAndStops(t *testing.T) {
	t.Parallel()

	runner := newStubSyncRunner()
	svc := NewSchedulerService(runner, newMemConfigRepo(syncConfigValues()), SchedulerConfig{}, nil)

	started, err := svc.Start(context.Background())
	if err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if !started {
		t.Fatalf("expected scheduler to start")
	}
	if !svc.IsRunning() {
		t.Fatalf("expected IsRunning=true after start")
	}

	select {
	case <-runner.checked:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for the initial event check")
	}

	svc.Stop()
	if svc.IsRunning() {
		t.Fatalf("expected IsRunning=false after stop")
	}

	// Stopping again must be a harmless no-op.
	svc.Stop()
}

func TestSchedulerService_StartTwiceIsIdempotent(t *testing.T) {
	t.Parallel()

	runner := newStubSyncRunner()
	svc := NewSchedulerService(runner, newMemConfigRepo(syncConfigValues()), SchedulerConfig{}, nil)

	started, err := svc.Start(context.Background())
	if err != nil || !started {
		t.Fatalf("first Start: started=%v err=%v", started, err)
	}
	defer svc.Stop()

	startedAgain, err := svc.Start(context.Background())
	if err != nil {
		t.Fatalf("second Start error: %v", err)
	}
	if startedAgain {
		t.Fatalf("expected second Start to report already running")
	}
}
