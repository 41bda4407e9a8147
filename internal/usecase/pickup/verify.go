package pickup

import (
	"context"

	domain "github.com/nordhaul/pickup-coordinator/internal/domain/pickup"
	"github.com/nordhaul/pickup-coordinator/internal/httperr"
	"github.com/nordhaul/pickup-coordinator/internal/models"
	"github.com/nordhaul/pickup-coordinator/internal/timezone"
)

// VerifyResult is the driver's pre-reservation view. The record comes back
// even when it cannot be reserved, so an already-assigned driver can see the
// existing assignment.
type VerifyResult struct {
	Exists     bool
	IsToday    bool
	CanReserve bool
	Pickup     *models.Pickup
}

type VerifyPickup struct {
	repo domain.Repository
}

func NewVerifyPickup(repo domain.Repository) *VerifyPickup {
	return &VerifyPickup{repo: repo}
}

func (uc *VerifyPickup) Execute(
	ctx context.Context,
	referenceNumber string,
) (*VerifyResult, error) {

	p, err := uc.repo.FindByReference(ctx, referenceNumber)
	if err != nil {
		if httperr.IsBusiness(err, "pickup_not_found") {
			return &VerifyResult{Exists: false}, nil
		}
		return nil, err
	}

	start, end := timezone.TodayWindow()
	isToday := domain.ScheduledWithin(p, start, end)

	return &VerifyResult{
		Exists:     true,
		IsToday:    isToday,
		CanReserve: isToday && domain.Status(p.Status) == domain.StatusPending,
		Pickup:     p,
	}, nil
}
