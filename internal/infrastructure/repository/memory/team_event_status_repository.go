package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/teamstatus"
)

type TeamEventStatusRepository struct {
	mu    sync.RWMutex
	items map[string]teamstatus.Status
}

func NewTeamEventStatusRepository() *TeamEventStatusRepository {
	return &TeamEventStatusRepository{items: make(map[string]teamstatus.Status)}
}

func (r *TeamEventStatusRepository) Upsert(_ context.Context, item teamstatus.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := cloneStatus(item)
	// Ratings arrive from a separate fetch than the event status, so nil
	// incoming ratings keep whatever an earlier refresh stored.
	if existing, ok := r.items[statusKey(item.EventKey, item.TeamKey)]; ok {
		if copied.OPR == nil {
			copied.OPR = cloneFloat64Ptr(existing.OPR)
		}
		if copied.DPR == nil {
			copied.DPR = cloneFloat64Ptr(existing.DPR)
		}
		if copied.CCWM == nil {
			copied.CCWM = cloneFloat64Ptr(existing.CCWM)
		}
	}
	copied.UpdatedAt = time.Now().UTC()
	r.items[statusKey(item.EventKey, item.TeamKey)] = copied
	return nil
}

func (r *TeamEventStatusRepository) Get(_ context.Context, eventKey, teamKey string) (teamstatus.Status, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[statusKey(eventKey, teamKey)]
	if !ok {
		return teamstatus.Status{}, false, nil
	}

	return cloneStatus(item), true, nil
}

func statusKey(eventKey, teamKey string) string {
	return eventKey + "::" + teamKey
}

func cloneStatus(item teamstatus.Status) teamstatus.Status {
	copied := item
	copied.QualRank = cloneIntPtr(item.QualRank)
	copied.QualAverage = cloneFloat64Ptr(item.QualAverage)
	copied.Wins = cloneIntPtr(item.Wins)
	copied.Losses = cloneIntPtr(item.Losses)
	copied.Ties = cloneIntPtr(item.Ties)
	copied.PlayoffAlliance = cloneIntPtr(item.PlayoffAlliance)
	copied.PlayoffRecord = cloneStringPtr(item.PlayoffRecord)
	copied.PlayoffStatus = cloneStringPtr(item.PlayoffStatus)
	copied.OverallStatusText = cloneStringPtr(item.OverallStatusText)
	copied.NextMatchKey = cloneStringPtr(item.NextMatchKey)
	copied.LastMatchKey = cloneStringPtr(item.LastMatchKey)
	copied.OPR = cloneFloat64Ptr(item.OPR)
	copied.DPR = cloneFloat64Ptr(item.DPR)
	copied.CCWM = cloneFloat64Ptr(item.CCWM)
	return copied
}
