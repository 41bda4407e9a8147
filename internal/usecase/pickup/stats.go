package pickup

import (
	"context"

	domain "github.com/nordhaul/pickup-coordinator/internal/domain/pickup"
	"github.com/nordhaul/pickup-coordinator/internal/timezone"
)

type StatusCounts struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Reserved  int64 `json:"reserved"`
	Loading   int64 `json:"loading"`
	Loaded    int64 `json:"loaded"`
	Completed int64 `json:"completed"`
}

type StatsResult struct {
	Today   StatusCounts `json:"today"`
	Overall StatusCounts `json:"overall"`
}

type Stats struct {
	repo domain.Repository
}

func NewStats(repo domain.Repository) *Stats {
	return &Stats{repo: repo}
}

func (uc *Stats) Execute(ctx context.Context) (*StatsResult, error) {
	start, end := timezone.TodayWindow()

	today, err := uc.repo.CountByStatus(ctx, &start, &end)
	if err != nil {
		return nil, err
	}

	overall, err := uc.repo.CountByStatus(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	return &StatsResult{
		Today:   toCounts(today),
		Overall: toCounts(overall),
	}, nil
}

func toCounts(m map[domain.Status]int64) StatusCounts {
	c := StatusCounts{
		Pending:   m[domain.StatusPending],
		Reserved:  m[domain.StatusReserved],
		Loading:   m[domain.StatusLoading],
		Loaded:    m[domain.StatusLoaded],
		Completed: m[domain.StatusCompleted],
	}
	c.Total = c.Pending + c.Reserved + c.Loading + c.Loaded + c.Completed
	return c
}
