package cache

import (
	"context"
	"time"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/event"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/match"
	basecache "github.com/Dwooll94/SWAT-Website-25-sub001/internal/platform/cache"
)

type EventRepository struct {
	next  event.Repository
	cache *basecache.Store
}

func NewEventRepository(next event.Repository, cache *basecache.Store) *EventRepository {
	return &EventRepository{next: next, cache: cache}
}

func (r *EventRepository) GetActive(ctx context.Context) (event.Event, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, "event:active", func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetActive(ctx)
		if err != nil {
			return nil, err
		}
		return cachedEvent{value: item, exists: exists}, nil
	})
	if err != nil {
		return event.Event{}, false, err
	}

	cached, _ := v.(cachedEvent)
	return cached.value, cached.exists, nil
}

func (r *EventRepository) GetByKey(ctx context.Context, eventKey string) (event.Event, bool, error) {
	key := "event:id:" + eventKey
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByKey(ctx, eventKey)
		if err != nil {
			return nil, err
		}
		return cachedEvent{value: item, exists: exists}, nil
	})
	if err != nil {
		return event.Event{}, false, err
	}

	cached, _ := v.(cachedEvent)
	return cached.value, cached.exists, nil
}

func (r *EventRepository) Upsert(ctx context.Context, item event.Event) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}
	r.cache.Delete(ctx, "event:active")
	r.cache.Delete(ctx, "event:id:"+item.EventKey)
	return nil
}

func (r *EventRepository) ReplaceActiveSet(ctx context.Context, items []event.Event) error {
	if err := r.next.ReplaceActiveSet(ctx, items); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "event:")
	return nil
}

type cachedEvent struct {
	value  event.Event
	exists bool
}

type EventMatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewEventMatchRepository(next match.Repository, cache *basecache.Store) *EventMatchRepository {
	return &EventMatchRepository{next: next, cache: cache}
}

func (r *EventMatchRepository) Upsert(ctx context.Context, item match.Match) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, matchListPrefix(item.EventKey))
	return nil
}

func (r *EventMatchRepository) UpsertMany(ctx context.Context, items []match.Match) error {
	if err := r.next.UpsertMany(ctx, items); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "match:list:")
	return nil
}

func (r *EventMatchRepository) List(ctx context.Context, eventKey, teamKey string) ([]match.Match, error) {
	key := matchListPrefix(eventKey) + "team:" + teamKey
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx, eventKey, teamKey)
		if err != nil {
			return nil, err
		}
		out := make([]match.Match, 0, len(items))
		for _, item := range items {
			out = append(out, cloneMatch(item))
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Match)
	out := make([]match.Match, 0, len(items))
	for _, item := range items {
		out = append(out, cloneMatch(item))
	}
	return out, nil
}

// Next answers from the cached schedule instead of caching per instant,
// which would mint a new cache key for every call.
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

func matchListPrefix(eventKey string) string {
	return "match:list:" + eventKey + ":"
}

func cloneMatch(item match.Match) match.Match {
	out := item
	out.SetNumber = cloneIntPtr(item.SetNumber)
	out.Red = cloneAlliance(item.Red)
	out.Blue = cloneAlliance(item.Blue)
	out.ScheduledAt = cloneTimePtr(item.ScheduledAt)
	out.PredictedAt = cloneTimePtr(item.PredictedAt)
	out.ActualAt = cloneTimePtr(item.ActualAt)
	out.PostResultAt = cloneTimePtr(item.PostResultAt)
	if item.ScoreBreakdown != nil {
		out.ScoreBreakdown = make(map[string]any, len(item.ScoreBreakdown))
		for k, v := range item.ScoreBreakdown {
			out.ScoreBreakdown[k] = v
		}
	}
	out.Videos = append([]match.Video(nil), item.Videos...)
	return out
}

func cloneAlliance(side match.Alliance) match.Alliance {
	out := side
	out.TeamKeys = append([]string(nil), side.TeamKeys...)
	out.Score = cloneIntPtr(side.Score)
	out.SurrogateTeamKeys = append([]string(nil), side.SurrogateTeamKeys...)
	out.DQTeamKeys = append([]string(nil), side.DQTeamKeys...)
	return out
}

func cloneIntPtr(value *int) *int {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}

func cloneTimePtr(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
