package pickup

import (
	"context"

	"github.com/nordhaul/pickup-coordinator/internal/audit"
	domain "github.com/nordhaul/pickup-coordinator/internal/domain/pickup"
	"github.com/nordhaul/pickup-coordinator/internal/httperr"
	"github.com/nordhaul/pickup-coordinator/internal/models"
	"github.com/nordhaul/pickup-coordinator/internal/timezone"
)

// ConfirmLoaded drives the arrival-path terminal transition: QR first,
// then LOADING → LOADED, then the waybill from the post-transition record.
// The order is part of the contract — the QR reference exists before the
// status moves, and the document sees the LOADED record.
type ConfirmLoaded struct {
	repo  domain.Repository
	qr    domain.QRGenerator
	doc   domain.DocumentGenerator
	audit *audit.Dispatcher
}

func NewConfirmLoaded(
	repo domain.Repository,
	qr domain.QRGenerator,
	doc domain.DocumentGenerator,
	audit *audit.Dispatcher,
) *ConfirmLoaded {
	return &ConfirmLoaded{
		repo:  repo,
		qr:    qr,
		doc:   doc,
		audit: audit,
	}
}

// Execute returns the final record and the generated document path. When
// document generation fails after the status write, the record stays LOADED
// with the QR set and no pdf_path; the error reports generation_failed and
// GenerateDocument is the retrigger.
func (uc *ConfirmLoaded) Execute(
	ctx context.Context,
	id string,
) (*models.Pickup, string, error) {

	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	if err := domain.CanConfirmLoaded(domain.Status(p.Status)); err != nil {
		return nil, "", err
	}

	// --------------------------------------------------
	// 1. QR completes before any state changes
	// --------------------------------------------------
	qrCode, err := uc.qr.Generate(p.ReferenceNumber)
	if err != nil {
		return nil, "", httperr.ErrBusinessStatus("generation_failed", p.Status)
	}

	// --------------------------------------------------
	// 2. LOADING → LOADED, atomic on status
	// --------------------------------------------------
	now := timezone.Now()
	took, err := uc.repo.TransitionIfStatus(ctx, p.ID, domain.StatusLoading, map[string]any{
		"status":           string(domain.StatusLoaded),
		"loading_end_time": now,
		"qr_code":          qrCode,
	})
	if err != nil {
		return nil, "", err
	}
	if !took {
		current, err := uc.repo.FindByID(ctx, p.ID)
		if err != nil {
			return nil, "", err
		}
		return nil, "", httperr.ErrBusinessStatus("wrong_status", current.Status)
	}

	loaded, err := uc.repo.FindByID(ctx, p.ID)
	if err != nil {
		return nil, "", err
	}

	// --------------------------------------------------
	// 3. Waybill from the LOADED record, second write
	// --------------------------------------------------
	pdfPath, err := uc.doc.Generate(loaded)
	if err != nil {
		// accepted partial state: status advanced, document missing
		return loaded, "", httperr.ErrBusinessStatus("generation_failed", loaded.Status)
	}

	final, err := uc.repo.UpdateFields(ctx, loaded.ID, map[string]any{
		"pdf_path": pdfPath,
	})
	if err != nil {
		return loaded, pdfPath, err
	}

	uc.audit.Dispatch(audit.Event{
		Action:   audit.ActionLoadingConfirmed,
		Entity:   "pickup",
		EntityID: final.ID,
	})

	return final, pdfPath, nil
}
