package pickup

import (
	"context"

	"github.com/nordhaul/pickup-coordinator/internal/audit"
	domain "github.com/nordhaul/pickup-coordinator/internal/domain/pickup"
	"github.com/nordhaul/pickup-coordinator/internal/models"
)

// GenerateDocument is the recovery operation for a record whose status
// advanced but whose waybill is missing or stale. It regenerates the
// artifact and persists only pdf_path; the status stays wherever the
// lifecycle left it.
type GenerateDocument struct {
	repo  domain.Repository
	doc   domain.DocumentGenerator
	audit *audit.Dispatcher
}

func NewGenerateDocument(
	repo domain.Repository,
	doc domain.DocumentGenerator,
	audit *audit.Dispatcher,
) *GenerateDocument {
	return &GenerateDocument{
		repo:  repo,
		doc:   doc,
		audit: audit,
	}
}

func (uc *GenerateDocument) Execute(
	ctx context.Context,
	id string,
) (*models.Pickup, string, error) {

	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	pdfPath, err := uc.doc.Generate(p)
	if err != nil {
		return nil, "", err
	}

	updated, err := uc.repo.UpdateFields(ctx, p.ID, map[string]any{
		"pdf_path": pdfPath,
	})
	if err != nil {
		return nil, "", err
	}

	uc.audit.Dispatch(audit.Event{
		Action:   audit.ActionDocumentCreated,
		Entity:   "pickup",
		EntityID: updated.ID,
	})

	return updated, pdfPath, nil
}
