package memory

import (
	"context"
	"sync"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/event"
)

type EventRepository struct {
	mu    sync.RWMutex
	items map[string]event.Event
}

func NewEventRepository() *EventRepository {
	return &EventRepository{items: make(map[string]event.Event)}
}

func (r *EventRepository) GetActive(_ context.Context) (event.Event, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var active event.Event
	found := false
	for _, item := range r.items {
		if !item.IsActive {
			continue
		}
		if !found || activeWins(item, active) {
			active = item
			found = true
		}
	}
	if !found {
		return event.Event{}, false, nil
	}

	return active, true, nil
}

func (r *EventRepository) GetByKey(_ context.Context, eventKey string) (event.Event, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[eventKey]
	if !ok {
		return event.Event{}, false, nil
	}

	return item, true, nil
}

func (r *EventRepository) Upsert(_ context.Context, item event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.EventKey] = item
	return nil
}

func (r *EventRepository) ReplaceActiveSet(_ context.Context, items []event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, item := range r.items {
		item.IsActive = false
		r.items[key] = item
	}
	for _, item := range items {
		r.items[item.EventKey] = item
	}
	return nil
}

// activeWins reports whether candidate beats current as the active pick:
// the later start instant wins, with the greater event key breaking ties.
func activeWins(candidate, current event.Event) bool {
	if !candidate.StartAt.Equal(current.StartAt) {
		return candidate.StartAt.After(current.StartAt)
	}
	return candidate.EventKey > current.EventKey
}
