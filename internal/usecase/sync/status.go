package sync

import (
	"context"
	"time"

	"github.com/nordhaul/pickup-coordinator/internal/cache"
	domain "github.com/nordhaul/pickup-coordinator/internal/domain/pickup"
)

type StatusResult struct {
	LastSync       *time.Time `json:"last_sync"`
	TotalPickups   int64      `json:"total_pickups"`
	PendingPickups int64      `json:"pending_pickups"`
}

type SyncStatus struct {
	repo  domain.Repository
	cache *cache.Cache
}

func NewSyncStatus(repo domain.Repository, cache *cache.Cache) *SyncStatus {
	return &SyncStatus{repo: repo, cache: cache}
}

func (uc *SyncStatus) Execute(ctx context.Context) (*StatusResult, error) {
	counts, err := uc.repo.CountByStatus(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, n := range counts {
		total += n
	}

	lastSync := uc.cache.LastSync(ctx)
	if lastSync == nil {
		// redis missing or empty: fall back to the newest record
		lastSync, err = uc.repo.LatestCreatedAt(ctx)
		if err != nil {
			return nil, err
		}
	}

	return &StatusResult{
		LastSync:       lastSync,
		TotalPickups:   total,
		PendingPickups: counts[domain.StatusPending],
	}, nil
}
