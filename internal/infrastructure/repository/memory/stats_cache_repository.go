package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/statscache"
)

type StatsCacheRepository struct {
	mu    sync.RWMutex
	items map[string]statscache.Entry
}

func NewStatsCacheRepository() *StatsCacheRepository {
	return &StatsCacheRepository{items: make(map[string]statscache.Entry)}
}

func (r *StatsCacheRepository) Get(_ context.Context, eventKey, teamKey, statType string) (statscache.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[statsKey(eventKey, teamKey, statType)]
	if !ok || item.ExpiredAt(time.Now()) {
		return statscache.Entry{}, false, nil
	}

	return cloneStatsEntry(item), true, nil
}

func (r *StatsCacheRepository) Put(_ context.Context, item statscache.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[statsKey(item.EventKey, item.TeamKey, item.StatType)] = cloneStatsEntry(item)
	return nil
}

func (r *StatsCacheRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var swept int64
	for key, item := range r.items {
		if item.ExpiredAt(now) {
			delete(r.items, key)
			swept++
		}
	}
	return swept, nil
}

func statsKey(eventKey, teamKey, statType string) string {
	return eventKey + "::" + teamKey + "::" + statType
}

func cloneStatsEntry(item statscache.Entry) statscache.Entry {
	copied := item
	copied.Payload = cloneDocument(item.Payload)
	return copied
}
