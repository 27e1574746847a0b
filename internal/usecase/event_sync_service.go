package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/appconfig"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/event"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/match"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/statscache"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/teamstatus"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/metrics"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/platform/id"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/platform/logging"
)

// EventDataProvider is the upstream competition API surface the sync engine
// consumes. Implementations surface errors as-is; retrying is this layer's
// decision (the next scheduled pass), never the provider's.
type EventDataProvider interface {
	FetchTeamEventsByYear(ctx context.Context, teamKey string, year int) ([]ExternalEvent, error)
	FetchTeamEventStatus(ctx context.Context, teamKey, eventKey string) (*ExternalTeamEventStatus, error)
	FetchEventMatches(ctx context.Context, eventKey string) ([]ExternalMatch, error)
	FetchEventRatings(ctx context.Context, eventKey string) (*ExternalEventRatings, error)
	SetAPIKey(key string)
}

type ExternalEvent struct {
	EventKey     string
	Name         string
	ShortName    string
	EventCode    string
	EventType    int
	City         string
	StateProv    string
	Country      string
	LocationName string
	Timezone     string
	StartDate    string
	EndDate      string
	Year         int
}

type ExternalAlliance struct {
	TeamKeys          []string
	Score             *int
	SurrogateTeamKeys []string
	DQTeamKeys        []string
}

type ExternalMatchVideo struct {
	Type string
	Key  string
}

type ExternalMatch struct {
	MatchKey        string
	EventKey        string
	CompLevel       string
	SetNumber       *int
	MatchNumber     int
	WinningAlliance string
	Red             ExternalAlliance
	Blue            ExternalAlliance
	ScheduledAt     *time.Time
	PredictedAt     *time.Time
	ActualAt        *time.Time
	PostResultAt    *time.Time
	ScoreBreakdown  map[string]any
	Videos          []ExternalMatchVideo
}

type ExternalTeamEventStatus struct {
	QualRank          *int
	QualAverage       *float64
	Wins              *int
	Losses            *int
	Ties              *int
	PlayoffAlliance   *int
	PlayoffRecord     *string
	PlayoffStatus     *string
	OverallStatusText *string
	NextMatchKey      *string
	LastMatchKey      *string
}

type ExternalEventRatings struct {
	OPR  map[string]float64
	DPR  map[string]float64
	CCWM map[string]float64
}

// TeamKeyFromNumber renders the upstream team key, e.g. "frc1806" for "1806".
func TeamKeyFromNumber(number string) string {
	return "frc" + strings.TrimSpace(number)
}

// SyncState is where a pass currently is. One service instance runs per
// process, so this is installation-wide state, not per-request.
type SyncState int32

const (
	SyncStateIdle SyncState = iota
	SyncStateCheckingActiveEvents
	SyncStateUpdatingEventData
)

func (s SyncState) String() string {
	switch s {
	case SyncStateCheckingActiveEvents:
		return "checking_active_events"
	case SyncStateUpdatingEventData:
		return "updating_event_data"
	default:
		return "idle"
	}
}

type SyncOperation string

const (
	OpEventCheck    SyncOperation = "event_check"
	OpDataRefresh   SyncOperation = "data_refresh"
	OpStatusRefresh SyncOperation = "status_refresh"
	OpMatchRefresh  SyncOperation = "match_refresh"
	OpCacheCleanup  SyncOperation = "cache_cleanup"
)

// SyncOutcome reports how one scheduled or forced pass went. Failures live
// in Err rather than propagating, so a bad pass never takes the scheduler
// down and tests can assert on failure handling directly.
type SyncOutcome struct {
	Operation      SyncOperation
	RunID          string
	StartedAt      time.Time
	Duration       time.Duration
	HasActiveEvent bool
	SweptRows      int64
	Err            error
}

func (o SyncOutcome) Succeeded() bool { return o.Err == nil }

type EventSyncConfig struct {
	RatingsCacheTTL time.Duration
}

type EventSyncService struct {
	provider   EventDataProvider
	configRepo appconfig.Repository
	eventRepo  event.Repository
	statusRepo teamstatus.Repository
	matchRepo  match.Repository
	statsRepo  statscache.Repository
	idGen      id.Generator
	cfg        EventSyncConfig
	logger     *logging.Logger
	now        func() time.Time
	state      atomic.Int32
}

func NewEventSyncService(
	provider EventDataProvider,
	configRepo appconfig.Repository,
	eventRepo event.Repository,
	statusRepo teamstatus.Repository,
	matchRepo match.Repository,
	statsRepo statscache.Repository,
	idGen id.Generator,
	cfg EventSyncConfig,
	logger *logging.Logger,
) *EventSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.RatingsCacheTTL <= 0 {
		cfg.RatingsCacheTTL = 30 * time.Minute
	}

	return &EventSyncService{
		provider:   provider,
		configRepo: configRepo,
		eventRepo:  eventRepo,
		statusRepo: statusRepo,
		matchRepo:  matchRepo,
		statsRepo:  statsRepo,
		idGen:      idGen,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *EventSyncService) State() SyncState {
	return SyncState(s.state.Load())
}

func (s *EventSyncService) setState(state SyncState) {
	s.state.Store(int32(state))
}

func (s *EventSyncService) ready() error {
	if s.provider == nil || s.configRepo == nil || s.eventRepo == nil ||
		s.statusRepo == nil || s.matchRepo == nil || s.statsRepo == nil {
		return fmt.Errorf("%w: event sync service is not fully configured", ErrDependencyUnavailable)
	}
	return nil
}

type syncSettings struct {
	teamNumber string
	teamKey    string
	apiKey     string
}

// loadSyncSettings reads the runtime settings from the config table and
// pushes key rotation down to the provider before any fetch.
func (s *EventSyncService) loadSyncSettings(ctx context.Context) (syncSettings, error) {
	keyEntry, ok, err := s.configRepo.Get(ctx, appconfig.KeyTBAAPIKey)
	if err != nil {
		return syncSettings{}, fmt.Errorf("read config %s: %w", appconfig.KeyTBAAPIKey, err)
	}
	apiKey := strings.TrimSpace(keyEntry.StringValue())
	if !ok || apiKey == "" {
		return syncSettings{}, fmt.Errorf("%w: config %s is not set", ErrDependencyUnavailable, appconfig.KeyTBAAPIKey)
	}

	teamEntry, ok, err := s.configRepo.Get(ctx, appconfig.KeyTeamNumber)
	if err != nil {
		return syncSettings{}, fmt.Errorf("read config %s: %w", appconfig.KeyTeamNumber, err)
	}
	teamNumber := strings.TrimSpace(teamEntry.StringValue())
	if !ok || teamNumber == "" {
		return syncSettings{}, fmt.Errorf("%w: config %s is not set", ErrDependencyUnavailable, appconfig.KeyTeamNumber)
	}

	s.provider.SetAPIKey(apiKey)

	return syncSettings{
		teamNumber: teamNumber,
		teamKey:    TeamKeyFromNumber(teamNumber),
		apiKey:     apiKey,
	}, nil
}

// CheckForActiveEvents fetches this year's event list, computes which events
// are running today in their own timezones, and atomically replaces the
// stored active set. Returns whether any event is active.
func (s *EventSyncService) CheckForActiveEvents(ctx context.Context) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventSyncService.CheckForActiveEvents")
	defer span.End()

	if err := s.ready(); err != nil {
		return false, err
	}

	s.setState(SyncStateCheckingActiveEvents)
	defer s.setState(SyncStateIdle)

	settings, err := s.loadSyncSettings(ctx)
	if err != nil {
		return false, err
	}

	now := s.now()
	year := now.Year()
	external, err := s.provider.FetchTeamEventsByYear(ctx, settings.teamKey, year)
	if err != nil {
		return false, fmt.Errorf("fetch team events team=%s year=%d: %w", settings.teamKey, year, err)
	}

	events, hasActive := s.mapExternalEventsToDomain(ctx, external, now)
	if err := s.eventRepo.ReplaceActiveSet(ctx, events); err != nil {
		return false, fmt.Errorf("replace active event set: %w", err)
	}

	s.logger.InfoContext(ctx, "active event check complete",
		"team_key", settings.teamKey,
		"year", year,
		"fetched", len(external),
		"has_active", hasActive,
	)
	return hasActive, nil
}

// UpdateTeamEventStatus refreshes the team's standing at the active event,
// folding in efficiency ratings when the upstream has published them.
// Missing ratings are normal early in an event and never fail the refresh.
func (s *EventSyncService) UpdateTeamEventStatus(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventSyncService.UpdateTeamEventStatus")
	defer span.End()

	if err := s.ready(); err != nil {
		return err
	}

	settings, err := s.loadSyncSettings(ctx)
	if err != nil {
		return err
	}

	active, ok, err := s.eventRepo.GetActive(ctx)
	if err != nil {
		return fmt.Errorf("load active event: %w", err)
	}
	if !ok {
		s.logger.DebugContext(ctx, "skip status refresh: no active event")
		return nil
	}

	external, err := s.provider.FetchTeamEventStatus(ctx, settings.teamKey, active.EventKey)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("fetch team event status team=%s event=%s: %w", settings.teamKey, active.EventKey, err)
	}

	row := teamstatus.Status{
		TeamKey:   settings.teamKey,
		EventKey:  active.EventKey,
		UpdatedAt: s.now(),
	}
	if external != nil {
		row.QualRank = external.QualRank
		row.QualAverage = external.QualAverage
		row.Wins = external.Wins
		row.Losses = external.Losses
		row.Ties = external.Ties
		row.PlayoffAlliance = external.PlayoffAlliance
		row.PlayoffRecord = external.PlayoffRecord
		row.PlayoffStatus = external.PlayoffStatus
		row.OverallStatusText = external.OverallStatusText
		row.NextMatchKey = external.NextMatchKey
		row.LastMatchKey = external.LastMatchKey
	}

	if ratings := s.loadTeamRatings(ctx, active.EventKey, settings.teamKey); ratings != nil {
		row.OPR = ratings.opr
		row.DPR = ratings.dpr
		row.CCWM = ratings.ccwm
	}

	if err := s.statusRepo.Upsert(ctx, row); err != nil {
		return fmt.Errorf("upsert team event status team=%s event=%s: %w", settings.teamKey, active.EventKey, err)
	}

	s.logger.InfoContext(ctx, "team event status refreshed",
		"team_key", settings.teamKey,
		"event_key", active.EventKey,
		"has_upstream_status", external != nil,
	)
	return nil
}

// UpdateEventMatches refreshes the active event's full match list.
func (s *EventSyncService) UpdateEventMatches(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventSyncService.UpdateEventMatches")
	defer span.End()

	if err := s.ready(); err != nil {
		return err
	}

	if _, err := s.loadSyncSettings(ctx); err != nil {
		return err
	}

	active, ok, err := s.eventRepo.GetActive(ctx)
	if err != nil {
		return fmt.Errorf("load active event: %w", err)
	}
	if !ok {
		s.logger.DebugContext(ctx, "skip match refresh: no active event")
		return nil
	}

	external, err := s.provider.FetchEventMatches(ctx, active.EventKey)
	if err != nil {
		return fmt.Errorf("fetch event matches event=%s: %w", active.EventKey, err)
	}

	mapped := mapExternalMatchesToDomain(active.EventKey, external)
	if len(mapped) > 0 {
		if err := s.matchRepo.UpsertMany(ctx, mapped); err != nil {
			return fmt.Errorf("upsert event matches event=%s: %w", active.EventKey, err)
		}
	}

	s.logger.InfoContext(ctx, "event matches refreshed",
		"event_key", active.EventKey,
		"fetched", len(external),
		"upserted", len(mapped),
	)
	return nil
}

// UpdateEventData runs the status and match refreshes concurrently; they
// write disjoint rows. Returns whether there was an active event to refresh.
func (s *EventSyncService) UpdateEventData(ctx context.Context) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventSyncService.UpdateEventData")
	defer span.End()

	return s.refreshActive(ctx, func(ctx context.Context) error {
		group := pool.New().WithErrors().WithContext(ctx)
		group.Go(func(ctx context.Context) error {
			return s.UpdateTeamEventStatus(ctx)
		})
		group.Go(func(ctx context.Context) error {
			return s.UpdateEventMatches(ctx)
		})
		return group.Wait()
	})
}

// refreshActive gates a refresh on the presence of an active event and
// tracks the engine state around it. Returns whether an event was active.
func (s *EventSyncService) refreshActive(ctx context.Context, update func(context.Context) error) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}

	_, ok, err := s.eventRepo.GetActive(ctx)
	if err != nil {
		return false, fmt.Errorf("load active event: %w", err)
	}
	if !ok {
		s.logger.DebugContext(ctx, "skip event data refresh: no active event")
		return false, nil
	}

	s.setState(SyncStateUpdatingEventData)
	defer s.setState(SyncStateIdle)

	if err := update(ctx); err != nil {
		return true, err
	}
	return true, nil
}

// RunEventCheck is the scheduler's hourly entry point: reconcile active
// events, then refresh data when one is running. Never propagates.
func (s *EventSyncService) RunEventCheck(ctx context.Context) SyncOutcome {
	outcome := s.newOutcome(OpEventCheck)

	hasActive, err := s.CheckForActiveEvents(ctx)
	outcome.HasActiveEvent = hasActive
	if err == nil && hasActive {
		_, err = s.UpdateEventData(ctx)
	}
	return s.finishOutcome(ctx, outcome, err)
}

// RunDataRefresh is the scheduler's short-interval entry point. Never
// propagates.
func (s *EventSyncService) RunDataRefresh(ctx context.Context) SyncOutcome {
	outcome := s.newOutcome(OpDataRefresh)

	refreshed, err := s.UpdateEventData(ctx)
	outcome.HasActiveEvent = refreshed
	return s.finishOutcome(ctx, outcome, err)
}

// RunStatusRefresh re-pulls only the team's standing at the active event.
// Alliance-selection webhooks move standings, not the match list. Never
// propagates.
func (s *EventSyncService) RunStatusRefresh(ctx context.Context) SyncOutcome {
	outcome := s.newOutcome(OpStatusRefresh)

	refreshed, err := s.refreshActive(ctx, s.UpdateTeamEventStatus)
	outcome.HasActiveEvent = refreshed
	return s.finishOutcome(ctx, outcome, err)
}

// RunMatchRefresh re-pulls only the match schedule of the active event.
// Never propagates.
func (s *EventSyncService) RunMatchRefresh(ctx context.Context) SyncOutcome {
	outcome := s.newOutcome(OpMatchRefresh)

	refreshed, err := s.refreshActive(ctx, s.UpdateEventMatches)
	outcome.HasActiveEvent = refreshed
	return s.finishOutcome(ctx, outcome, err)
}

// RunCacheCleanup sweeps expired stats-cache rows. Never propagates.
func (s *EventSyncService) RunCacheCleanup(ctx context.Context) SyncOutcome {
	outcome := s.newOutcome(OpCacheCleanup)

	if err := s.ready(); err != nil {
		return s.finishOutcome(ctx, outcome, err)
	}

	swept, err := s.statsRepo.DeleteExpired(ctx, s.now())
	outcome.SweptRows = swept
	if err == nil && swept > 0 {
		metrics.StatsCacheRowsSwept.Add(float64(swept))
	}
	return s.finishOutcome(ctx, outcome, err)
}

func (s *EventSyncService) newOutcome(op SyncOperation) SyncOutcome {
	outcome := SyncOutcome{Operation: op, StartedAt: s.now()}
	if s.idGen != nil {
		if runID, err := s.idGen.NewID(); err == nil {
			outcome.RunID = runID
		}
	}
	return outcome
}

func (s *EventSyncService) finishOutcome(ctx context.Context, outcome SyncOutcome, err error) SyncOutcome {
	outcome.Duration = s.now().Sub(outcome.StartedAt)
	outcome.Err = err

	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultFailure
		s.logger.ErrorContext(ctx, "sync pass failed",
			"operation", string(outcome.Operation),
			"run_id", outcome.RunID,
			"duration_ms", outcome.Duration.Milliseconds(),
			"error", err,
		)
	} else {
		s.logger.InfoContext(ctx, "sync pass complete",
			"operation", string(outcome.Operation),
			"run_id", outcome.RunID,
			"duration_ms", outcome.Duration.Milliseconds(),
			"has_active_event", outcome.HasActiveEvent,
		)
	}
	metrics.SyncRuns.WithLabelValues(string(outcome.Operation), result).Inc()
	metrics.SyncDuration.WithLabelValues(string(outcome.Operation)).Observe(outcome.Duration.Seconds())
	if err == nil && outcome.Operation != OpCacheCleanup {
		gauge := 0.0
		if outcome.HasActiveEvent {
			gauge = 1.0
		}
		metrics.ActiveEvent.Set(gauge)
	}
	return outcome
}

type teamRatings struct {
	opr  *float64
	dpr  *float64
	ccwm *float64
}

// loadTeamRatings reads the team's efficiency ratings through the stats
// cache. The upstream publishes them only once enough matches have played,
// so every failure path degrades to nil and keeps whatever was stored
// before.
func (s *EventSyncService) loadTeamRatings(ctx context.Context, eventKey, teamKey string) *teamRatings {
	cached, ok, err := s.statsRepo.Get(ctx, eventKey, teamKey, statscache.StatTypeRatings)
	if err != nil {
		s.logger.WarnContext(ctx, "read ratings cache failed", "event_key", eventKey, "team_key", teamKey, "error", err)
	} else if ok {
		return ratingsFromPayload(cached.Payload)
	}

	external, err := s.provider.FetchEventRatings(ctx, eventKey)
	if err != nil || external == nil {
		s.logger.DebugContext(ctx, "event ratings unavailable", "event_key", eventKey, "error", err)
		return nil
	}

	ratings := &teamRatings{}
	if v, ok := external.OPR[teamKey]; ok {
		value := v
		ratings.opr = &value
	}
	if v, ok := external.DPR[teamKey]; ok {
		value := v
		ratings.dpr = &value
	}
	if v, ok := external.CCWM[teamKey]; ok {
		value := v
		ratings.ccwm = &value
	}
	if ratings.opr == nil && ratings.dpr == nil && ratings.ccwm == nil {
		return nil
	}

	entry := statscache.Entry{
		EventKey:  eventKey,
		TeamKey:   teamKey,
		StatType:  statscache.StatTypeRatings,
		Payload:   ratingsToPayload(ratings),
		ExpiresAt: s.now().Add(s.cfg.RatingsCacheTTL),
	}
	if err := s.statsRepo.Put(ctx, entry); err != nil {
		s.logger.WarnContext(ctx, "store ratings cache failed", "event_key", eventKey, "team_key", teamKey, "error", err)
	}
	return ratings
}

func ratingsToPayload(ratings *teamRatings) map[string]any {
	payload := make(map[string]any, 3)
	if ratings.opr != nil {
		payload["opr"] = *ratings.opr
	}
	if ratings.dpr != nil {
		payload["dpr"] = *ratings.dpr
	}
	if ratings.ccwm != nil {
		payload["ccwm"] = *ratings.ccwm
	}
	return payload
}

func ratingsFromPayload(payload map[string]any) *teamRatings {
	if len(payload) == 0 {
		return nil
	}
	ratings := &teamRatings{}
	if v, ok := floatFromPayload(payload, "opr"); ok {
		ratings.opr = &v
	}
	if v, ok := floatFromPayload(payload, "dpr"); ok {
		ratings.dpr = &v
	}
	if v, ok := floatFromPayload(payload, "ccwm"); ok {
		ratings.ccwm = &v
	}
	if ratings.opr == nil && ratings.dpr == nil && ratings.ccwm == nil {
		return nil
	}
	return ratings
}

func floatFromPayload(payload map[string]any, key string) (float64, bool) {
	switch v := payload[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func (s *EventSyncService) mapExternalEventsToDomain(ctx context.Context, items []ExternalEvent, now time.Time) ([]event.Event, bool) {
	out := make([]event.Event, 0, len(items))
	hasActive := false

	for _, item := range items {
		if strings.TrimSpace(item.EventKey) == "" {
			continue
		}
		mapped := event.Event{
			EventKey:     item.EventKey,
			Name:         item.Name,
			ShortName:    item.ShortName,
			EventCode:    item.EventCode,
			EventType:    item.EventType,
			City:         item.City,
			StateProv:    item.StateProv,
			Country:      item.Country,
			LocationName: item.LocationName,
			Timezone:     item.Timezone,
			Year:         item.Year,
		}
		start, end, err := event.ComputeWindow(item.StartDate, item.EndDate, item.Timezone)
		if err != nil {
			// An unpublished date means the event cannot be active yet.
			s.logger.WarnContext(ctx, "event has unparseable dates",
				"event_key", item.EventKey,
				"start_date", item.StartDate,
				"end_date", item.EndDate,
				"error", err,
			)
		} else {
			mapped.StartAt = start
			mapped.EndAt = end
		}
		mapped.IsActive = mapped.ActiveAt(now)
		hasActive = hasActive || mapped.IsActive
		out = append(out, mapped)
	}
	return out, hasActive
}

func mapExternalMatchesToDomain(eventKey string, items []ExternalMatch) []match.Match {
	out := make([]match.Match, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.MatchKey) == "" {
			continue
		}
		mapped := match.Match{
			MatchKey:        item.MatchKey,
			EventKey:        eventKey,
			CompLevel:       item.CompLevel,
			SetNumber:       item.SetNumber,
			MatchNumber:     item.MatchNumber,
			WinningAlliance: item.WinningAlliance,
			Red:             mapExternalAlliance(item.Red),
			Blue:            mapExternalAlliance(item.Blue),
			ScheduledAt:     item.ScheduledAt,
			PredictedAt:     item.PredictedAt,
			ActualAt:        item.ActualAt,
			PostResultAt:    item.PostResultAt,
			ScoreBreakdown:  item.ScoreBreakdown,
		}
		if item.EventKey != "" {
			mapped.EventKey = item.EventKey
		}
		for _, video := range item.Videos {
			mapped.Videos = append(mapped.Videos, match.Video{Type: video.Type, Key: video.Key})
		}
		out = append(out, mapped)
	}
	return out
}

func mapExternalAlliance(item ExternalAlliance) match.Alliance {
	return match.Alliance{
		TeamKeys:          item.TeamKeys,
		Score:             item.Score,
		SurrogateTeamKeys: item.SurrogateTeamKeys,
		DQTeamKeys:        item.DQTeamKeys,
	}
}
