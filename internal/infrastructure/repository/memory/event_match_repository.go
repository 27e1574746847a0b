package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/match"
)

type EventMatchRepository struct {
	mu    sync.RWMutex
	items map[string]match.Match
}

func NewEventMatchRepository() *EventMatchRepository {
	return &EventMatchRepository{items: make(map[string]match.Match)}
}

func (r *EventMatchRepository) Upsert(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.MatchKey] = cloneMatch(item)
	return nil
}

func (r *EventMatchRepository) UpsertMany(_ context.Context, items []match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.items[item.MatchKey] = cloneMatch(item)
	}
	return nil
}

func (r *EventMatchRepository) List(_ context.Context, eventKey, teamKey string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, item := range r.items {
		if item.EventKey != eventKey {
			continue
		}
		out = append(out, cloneMatch(item))
	}

	if teamKey != "" {
		out = match.ForTeam(out, teamKey)
	}
	match.Sort(out)
	return out, nil
}

func (r *EventMatchRepository) Next(ctx context.Context, eventKey, teamKey string, now time.Time) (match.Match, bool, error) {
	items, err := r.List(ctx, eventKey, teamKey)
	if err != nil {
		return match.Match{}, false, err
	}
	next, ok := match.NextForTeam(items, teamKey, now)
	return next, ok, nil
}

func (r *EventMatchRepository) Last(ctx context.Context, eventKey, teamKey string) (match.Match, bool, error) {
	items, err := r.List(ctx, eventKey, teamKey)
	if err != nil {
		return match.Match{}, false, err
	}
	last, ok := match.LastForTeam(items, teamKey)
	return last, ok, nil
}

func cloneMatch(item match.Match) match.Match {
	copied := item
	copied.SetNumber = cloneIntPtr(item.SetNumber)
	copied.Red = cloneAlliance(item.Red)
	copied.Blue = cloneAlliance(item.Blue)
	copied.ScheduledAt = cloneTimePtr(item.ScheduledAt)
	copied.PredictedAt = cloneTimePtr(item.PredictedAt)
	copied.ActualAt = cloneTimePtr(item.ActualAt)
	copied.PostResultAt = cloneTimePtr(item.PostResultAt)
	copied.ScoreBreakdown = cloneDocument(item.ScoreBreakdown)
	copied.Videos = append([]match.Video(nil), item.Videos...)
	return copied
}

func cloneAlliance(side match.Alliance) match.Alliance {
	copied := side
	copied.TeamKeys = append([]string(nil), side.TeamKeys...)
	copied.Score = cloneIntPtr(side.Score)
	copied.SurrogateTeamKeys = append([]string(nil), side.SurrogateTeamKeys...)
	copied.DQTeamKeys = append([]string(nil), side.DQTeamKeys...)
	return copied
}
