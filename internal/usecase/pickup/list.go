package pickup

import (
	"context"
	"time"

	domain "github.com/nordhaul/pickup-coordinator/internal/domain/pickup"
	"github.com/nordhaul/pickup-coordinator/internal/models"
	"github.com/nordhaul/pickup-coordinator/internal/timezone"
)

// ======================================================
// FILTERED LIST
// ======================================================

type ListFilter struct {
	Status  domain.Status
	Date    *time.Time // single day; wins over StartDate/EndDate
	Start   *time.Time
	End     *time.Time
	Company string
}

type ListPickups struct {
	repo domain.Repository
}

func NewListPickups(repo domain.Repository) *ListPickups {
	return &ListPickups{repo: repo}
}

func (uc *ListPickups) Execute(
	ctx context.Context,
	f ListFilter,
) ([]models.Pickup, error) {

	qf := domain.QueryFilter{
		Status:  f.Status,
		Company: f.Company,
	}

	if f.Date != nil {
		start, end := timezone.DayWindow(f.Date.In(timezone.Location("")))
		qf.StartDate = &start
		qf.EndDate = &end
	} else {
		qf.StartDate = f.Start
		qf.EndDate = f.End
	}

	return uc.repo.Query(ctx, qf)
}

// ======================================================
// TODAY VIEW
// ======================================================

type TodayList struct {
	Pickups []models.Pickup
	Grouped map[string][]models.Pickup
}

type ListToday struct {
	repo domain.Repository
}

func NewListToday(repo domain.Repository) *ListToday {
	return &ListToday{repo: repo}
}

func (uc *ListToday) Execute(ctx context.Context) (*TodayList, error) {
	start, end := timezone.TodayWindow()

	pickups, err := uc.repo.Query(ctx, domain.QueryFilter{
		StartDate:       &start,
		EndDate:         &end,
		AscendingByDate: true,
	})
	if err != nil {
		return nil, err
	}

	grouped := map[string][]models.Pickup{
		"pending":   {},
		"reserved":  {},
		"loading":   {},
		"loaded":    {},
		"completed": {},
	}
	for _, p := range pickups {
		switch domain.Status(p.Status) {
		case domain.StatusPending:
			grouped["pending"] = append(grouped["pending"], p)
		case domain.StatusReserved:
			grouped["reserved"] = append(grouped["reserved"], p)
		case domain.StatusLoading:
			grouped["loading"] = append(grouped["loading"], p)
		case domain.StatusLoaded:
			grouped["loaded"] = append(grouped["loaded"], p)
		case domain.StatusCompleted:
			grouped["completed"] = append(grouped["completed"], p)
		}
	}

	return &TodayList{Pickups: pickups, Grouped: grouped}, nil
}
