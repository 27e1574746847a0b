package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/appconfig"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/event"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/match"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/teamstatus"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/platform/logging"
)

// EventSummary is what the website shows for the current event. Nil fields
// mean the underlying data does not exist yet; the frontend renders what is
// present and omits the rest.
type EventSummary struct {
	Event                   event.Event
	TeamStatus              *teamstatus.Status
	NextMatch               *match.Match
	LastMatch               *match.Match
	TurnaroundTime          *time.Duration
	TurnaroundAllianceColor *string
}

// EventDisplayService serves the read side: the current-event summary and
// the match schedule. It never triggers fetches from the upstream API.
type EventDisplayService struct {
	configRepo appconfig.Repository
	eventRepo  event.Repository
	statusRepo teamstatus.Repository
	matchRepo  match.Repository
	logger     *logging.Logger
	now        func() time.Time
}

func NewEventDisplayService(
	configRepo appconfig.Repository,
	eventRepo event.Repository,
	statusRepo teamstatus.Repository,
	matchRepo match.Repository,
	logger *logging.Logger,
) *EventDisplayService {
	if logger == nil {
		logger = logging.Default()
	}
	return &EventDisplayService{
		configRepo: configRepo,
		eventRepo:  eventRepo,
		statusRepo: statusRepo,
		matchRepo:  matchRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// GetEventSummary returns the active event with the team's standing, the
// next and last matches, and the turnaround to the match after next. A nil
// summary with nil error means no event is active, which the HTTP layer
// serves as an empty body rather than an error.
func (s *EventDisplayService) GetEventSummary(ctx context.Context) (*EventSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventDisplayService.GetEventSummary")
	defer span.End()

	if s.eventRepo == nil || s.configRepo == nil || s.statusRepo == nil || s.matchRepo == nil {
		return nil, fmt.Errorf("%w: event display service is not fully configured", ErrDependencyUnavailable)
	}

	active, ok, err := s.eventRepo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load active event: %w", err)
	}
	if !ok {
		return nil, nil
	}

	summary := &EventSummary{Event: active}

	teamKey, err := s.configuredTeamKey(ctx)
	if err != nil {
		return nil, err
	}
	if teamKey == "" {
		s.logger.DebugContext(ctx, "team number not configured, serving event-only summary", "event_key", active.EventKey)
		return summary, nil
	}

	status, ok, err := s.statusRepo.Get(ctx, active.EventKey, teamKey)
	if err != nil {
		return nil, fmt.Errorf("load team event status event=%s team=%s: %w", active.EventKey, teamKey, err)
	}
	if ok {
		summary.TeamStatus = &status
	}

	items, err := s.matchRepo.List(ctx, active.EventKey, "")
	if err != nil {
		return nil, fmt.Errorf("load match schedule event=%s: %w", active.EventKey, err)
	}

	now := s.now()
	if next, found := match.NextForTeam(items, teamKey, now); found {
		nextCopy := next
		summary.NextMatch = &nextCopy
		s.applyTurnaround(summary, items, teamKey, next)
	}
	if last, found := match.LastForTeam(items, teamKey); found {
		lastCopy := last
		summary.LastMatch = &lastCopy
	}

	return summary, nil
}

// applyTurnaround computes the gap between the team's next match and the
// one they play after it. The reported color is the team's alliance in
// that following match: which color to queue for once the next match ends.
func (s *EventDisplayService) applyTurnaround(summary *EventSummary, items []match.Match, teamKey string, next match.Match) {
	following, ok := match.FollowingForTeam(items, teamKey, next)
	if !ok {
		return
	}
	if next.PredictedAt == nil || following.PredictedAt == nil {
		return
	}

	turnaround := following.PredictedAt.Sub(*next.PredictedAt)
	summary.TurnaroundTime = &turnaround
	if color := following.AllianceOf(teamKey); color != "" {
		summary.TurnaroundAllianceColor = &color
	}
}

// GetMatchSchedule returns the active event's matches in schedule order,
// optionally filtered to one team. No active event yields an empty slice.
func (s *EventDisplayService) GetMatchSchedule(ctx context.Context, teamKey string) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventDisplayService.GetMatchSchedule")
	defer span.End()

	if s.eventRepo == nil || s.matchRepo == nil {
		return nil, fmt.Errorf("%w: event display service is not fully configured", ErrDependencyUnavailable)
	}

	active, ok, err := s.eventRepo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load active event: %w", err)
	}
	if !ok {
		return []match.Match{}, nil
	}

	items, err := s.matchRepo.List(ctx, active.EventKey, strings.TrimSpace(teamKey))
	if err != nil {
		return nil, fmt.Errorf("load match schedule event=%s: %w", active.EventKey, err)
	}
	return items, nil
}

func (s *EventDisplayService) configuredTeamKey(ctx context.Context) (string, error) {
	entry, ok, err := s.configRepo.Get(ctx, appconfig.KeyTeamNumber)
	if err != nil {
		return "", fmt.Errorf("read config %s: %w", appconfig.KeyTeamNumber, err)
	}
	number := strings.TrimSpace(entry.StringValue())
	if !ok || number == "" {
		return "", nil
	}
	return TeamKeyFromNumber(number), nil
}
