package pickup

import (
	"context"

	"github.com/nordhaul/pickup-coordinator/internal/audit"
	domain "github.com/nordhaul/pickup-coordinator/internal/domain/pickup"
	"github.com/nordhaul/pickup-coordinator/internal/httperr"
	"github.com/nordhaul/pickup-coordinator/internal/models"
	"github.com/nordhaul/pickup-coordinator/internal/timezone"
)

type StartLoading struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewStartLoading(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *StartLoading {
	return &StartLoading{
		repo:  repo,
		audit: audit,
	}
}

func (uc *StartLoading) Execute(
	ctx context.Context,
	id string,
) (*models.Pickup, error) {

	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := timezone.Now()
	scratch := *p
	if err := domain.StartLoading(&scratch, now); err != nil {
		return nil, err
	}

	took, err := uc.repo.TransitionIfStatus(ctx, p.ID, domain.StatusReserved, map[string]any{
		"status":             scratch.Status,
		"loading_start_time": now,
	})
	if err != nil {
		return nil, err
	}
	if !took {
		current, err := uc.repo.FindByID(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		return nil, httperr.ErrBusinessStatus("wrong_status", current.Status)
	}

	loading, err := uc.repo.FindByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Action:   audit.ActionLoadingStarted,
		Entity:   "pickup",
		EntityID: loading.ID,
	})

	return loading, nil
}
