package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/appconfig"
)

type AppConfigRepository struct {
	mu    sync.RWMutex
	items map[string]appconfig.Entry
}

func NewAppConfigRepository(entries []appconfig.Entry) *AppConfigRepository {
	items := make(map[string]appconfig.Entry, len(entries))
	for _, item := range entries {
		items[item.Key] = cloneConfigEntry(item)
	}

	return &AppConfigRepository{items: items}
}

func (r *AppConfigRepository) Get(_ context.Context, key string) (appconfig.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[key]
	if !ok {
		return appconfig.Entry{}, false, nil
	}

	return cloneConfigEntry(item), true, nil
}

func (r *AppConfigRepository) Set(_ context.Context, key string, value *string, description *string, updatedBy string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("config key is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	item := r.items[key]
	item.Key = key
	item.Value = cloneStringPtr(value)
	if description != nil {
		item.Description = *description
	}
	item.UpdatedBy = strings.TrimSpace(updatedBy)
	item.UpdatedAt = time.Now().UTC()
	r.items[key] = item
	return nil
}

func cloneConfigEntry(item appconfig.Entry) appconfig.Entry {
	copied := item
	copied.Value = cloneStringPtr(item.Value)
	return copied
}
