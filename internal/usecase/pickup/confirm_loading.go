package pickup

import (
	"context"
	"strings"

	"github.com/nordhaul/pickup-coordinator/internal/audit"
	domain "github.com/nordhaul/pickup-coordinator/internal/domain/pickup"
	"github.com/nordhaul/pickup-coordinator/internal/httperr"
	"github.com/nordhaul/pickup-coordinator/internal/models"
)

// ConfirmLoading is the legacy single-step confirmation used by the admin
// flow: RESERVED → LOADED with the final quantity, no QR and no loading
// timestamps. Callers follow it with document generation and MarkCompleted.
type ConfirmLoading struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewConfirmLoading(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *ConfirmLoading {
	return &ConfirmLoading{
		repo:  repo,
		audit: audit,
	}
}

func (uc *ConfirmLoading) Execute(
	ctx context.Context,
	id string,
	finalQuantity int,
	notes string,
) (*models.Pickup, error) {

	if finalQuantity <= 0 {
		return nil, httperr.ErrBusiness("invalid_quantity")
	}

	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	scratch := *p
	if err := domain.ConfirmLoading(&scratch, finalQuantity, strings.TrimSpace(notes)); err != nil {
		return nil, err
	}

	took, err := uc.repo.TransitionIfStatus(ctx, p.ID, domain.StatusReserved, map[string]any{
		"status":   scratch.Status,
		"quantity": finalQuantity,
		"notes":    scratch.Notes,
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

	loaded, err := uc.repo.FindByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Action:   audit.ActionLoadingConfirmed,
		Entity:   "pickup",
		EntityID: loaded.ID,
		Metadata: map[string]any{"final_quantity": finalQuantity},
	})

	return loaded, nil
}
