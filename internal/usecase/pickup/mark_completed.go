package pickup

import (
	"context"

	"github.com/nordhaul/pickup-coordinator/internal/audit"
	domain "github.com/nordhaul/pickup-coordinator/internal/domain/pickup"
	"github.com/nordhaul/pickup-coordinator/internal/httperr"
	"github.com/nordhaul/pickup-coordinator/internal/models"
)

// MarkCompleted closes the legacy path: LOADED → COMPLETED once the document
// exists.
type MarkCompleted struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewMarkCompleted(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *MarkCompleted {
	return &MarkCompleted{
		repo:  repo,
		audit: audit,
	}
}

func (uc *MarkCompleted) Execute(
	ctx context.Context,
	id string,
	pdfPath string,
) (*models.Pickup, error) {

	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	scratch := *p
	if err := domain.Complete(&scratch, pdfPath); err != nil {
		return nil, err
	}

	took, err := uc.repo.TransitionIfStatus(ctx, p.ID, domain.StatusLoaded, map[string]any{
		"status":   scratch.Status,
		"pdf_path": pdfPath,
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

	completed, err := uc.repo.FindByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Action:   audit.ActionPickupCompleted,
		Entity:   "pickup",
		EntityID: completed.ID,
	})

	return completed, nil
}
