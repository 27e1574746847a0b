package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/webhooklog"
)

type WebhookLogRepository struct {
	mu    sync.RWMutex
	items map[string]webhooklog.Record
}

func NewWebhookLogRepository() *WebhookLogRepository {
	return &WebhookLogRepository{items: make(map[string]webhooklog.Record)}
}

func (r *WebhookLogRepository) Append(_ context.Context, item webhooklog.Record) error {
	id := strings.TrimSpace(item.ID)
	if id == "" {
		return fmt.Errorf("webhook record id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	copied := cloneWebhookRecord(item)
	copied.ID = id
	r.items[id] = copied
	return nil
}

func (r *WebhookLogRepository) MarkProcessed(_ context.Context, id string, processErr *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return nil
	}
	item.Processed = true
	item.Error = cloneStringPtr(processErr)
	r.items[id] = item
	return nil
}

func (r *WebhookLogRepository) ListRecent(_ context.Context, limit int) ([]webhooklog.Record, error) {
	if limit <= 0 {
		limit = 50
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]webhooklog.Record, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, cloneWebhookRecord(item))
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].ReceivedAt.Equal(out[j].ReceivedAt) {
			return out[i].ReceivedAt.After(out[j].ReceivedAt)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func cloneWebhookRecord(item webhooklog.Record) webhooklog.Record {
	copied := item
	copied.EventKey = cloneStringPtr(item.EventKey)
	copied.MatchKey = cloneStringPtr(item.MatchKey)
	copied.Error = cloneStringPtr(item.Error)
	return copied
}
