package pickup

import (
	"context"
	"strings"

	"github.com/nordhaul/pickup-coordinator/internal/audit"
	domain "github.com/nordhaul/pickup-coordinator/internal/domain/pickup"
	"github.com/nordhaul/pickup-coordinator/internal/httperr"
	"github.com/nordhaul/pickup-coordinator/internal/models"
	"github.com/nordhaul/pickup-coordinator/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type ReserveInput struct {
	ReferenceNumber string
	TruckPlate      string
	DriverName      string
	Quantity        *int
	TrailerNumber   string
	DriverCompany   string
	Destination     string
}

// ======================================================
// USE CASE
// ======================================================

type ReservePickup struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewReservePickup(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *ReservePickup {
	return &ReservePickup{
		repo:  repo,
		audit: audit,
	}
}

func (uc *ReservePickup) Execute(
	ctx context.Context,
	in ReserveInput,
) (*models.Pickup, error) {

	if strings.TrimSpace(in.TruckPlate) == "" {
		return nil, httperr.ErrBusiness("missing_truck_plate")
	}

	p, err := uc.repo.FindByReference(ctx, in.ReferenceNumber)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 1. Guard + stamp on a scratch copy. Status wins over
	//    the schedule: an already-taken pickup reports so even
	//    when it is also scheduled on another day.
	// --------------------------------------------------
	scratch := *p
	if err := domain.Reserve(&scratch, domain.TransportAssignment{
		TruckPlate:    in.TruckPlate,
		TrailerNumber: in.TrailerNumber,
		DriverName:    in.DriverName,
		DriverCompany: in.DriverCompany,
		Destination:   in.Destination,
		Quantity:      in.Quantity,
	}); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Today window — reservations only on the day
	// --------------------------------------------------
	start, end := timezone.TodayWindow()
	if !domain.ScheduledWithin(p, start, end) {
		return nil, httperr.ErrBusinessStatus("not_scheduled_today", p.Status)
	}

	// --------------------------------------------------
	// 3. Atomic conditional write — the real guard.
	//    Two drivers racing on one reference: one row wins.
	// --------------------------------------------------
	fields := map[string]any{
		"status":         scratch.Status,
		"truck_plate":    scratch.TruckPlate,
		"trailer_number": scratch.TrailerNumber,
		"driver_name":    scratch.DriverName,
		"driver_company": scratch.DriverCompany,
		"destination":    scratch.Destination,
	}
	if scratch.Quantity != nil {
		fields["quantity"] = *scratch.Quantity
	}

	took, err := uc.repo.TransitionIfStatus(ctx, p.ID, domain.StatusPending, fields)
	if err != nil {
		return nil, err
	}
	if !took {
		current, err := uc.repo.FindByID(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		return nil, httperr.ErrBusinessStatus("already_reserved", current.Status)
	}

	reserved, err := uc.repo.FindByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Action:   audit.ActionPickupReserved,
		Entity:   "pickup",
		EntityID: reserved.ID,
		Metadata: map[string]any{
			"truck_plate": reserved.TruckPlate,
			"driver_name": reserved.DriverName,
		},
	})

	return reserved, nil
}
