package pickup

import (
	"context"
	"strings"
	"time"

	"github.com/nordhaul/pickup-coordinator/internal/audit"
	domain "github.com/nordhaul/pickup-coordinator/internal/domain/pickup"
	"github.com/nordhaul/pickup-coordinator/internal/httperr"
	"github.com/nordhaul/pickup-coordinator/internal/models"
	"github.com/nordhaul/pickup-coordinator/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type CreatePickupInput struct {
	ReferenceNumber  string
	Company          string
	ScheduledDate    time.Time
	GoodsDescription string
	Quantity         *int
	TrailerNumber    string
	Notes            string
	PickupLocation   string
	ImageURL         string
}

// ======================================================
// USE CASE
// ======================================================

type CreatePickup struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreatePickup(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreatePickup {
	return &CreatePickup{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CreatePickup) Execute(
	ctx context.Context,
	userID *uint,
	in CreatePickupInput,
) (*models.Pickup, error) {

	ref := validators.NormalizeReference(in.ReferenceNumber)
	switch {
	case ref == "":
		return nil, httperr.ErrBusiness("missing_reference_number")
	case !validators.IsValidReference(ref):
		return nil, httperr.ErrBusiness("invalid_reference_number")
	case strings.TrimSpace(in.Company) == "":
		return nil, httperr.ErrBusiness("missing_company")
	case in.ScheduledDate.IsZero():
		return nil, httperr.ErrBusiness("missing_scheduled_date")
	case strings.TrimSpace(in.GoodsDescription) == "":
		return nil, httperr.ErrBusiness("missing_goods_description")
	case strings.TrimSpace(in.PickupLocation) == "":
		return nil, httperr.ErrBusiness("missing_pickup_location")
	}

	p := &models.Pickup{
		ReferenceNumber:  ref,
		Company:          strings.TrimSpace(in.Company),
		ScheduledDate:    in.ScheduledDate,
		GoodsDescription: strings.TrimSpace(in.GoodsDescription),
		Quantity:         in.Quantity,
		TrailerNumber:    strings.ToUpper(strings.TrimSpace(in.TrailerNumber)),
		Notes:            strings.TrimSpace(in.Notes),
		PickupLocation:   strings.TrimSpace(in.PickupLocation),
		ImageURL:         in.ImageURL,
		Status:           string(domain.InitialStatus()),
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   audit.ActionPickupCreated,
		Entity:   "pickup",
		EntityID: p.ID,
	})

	return p, nil
}
