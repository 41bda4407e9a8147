package pickup

import (
	"context"
	"time"

	"github.com/nordhaul/pickup-coordinator/internal/models"
)

// QueryFilter narrows a pickup listing. Zero values mean "no filter".
type QueryFilter struct {
	Status    Status
	StartDate *time.Time
	EndDate   *time.Time
	Company   string // substring match

	// AscendingByDate flips the default newest-first ordering; the
	// today-view reads in arrival order.
	AscendingByDate bool
}

// ProvenanceUpdate is the only shape of update ingestion may apply to a
// record it did not just create. Status, transport and artifact fields stay
// untouched so a driver's in-flight work is never clobbered by a re-sync.
type ProvenanceUpdate struct {
	Company          string
	ScheduledDate    time.Time
	GoodsDescription string
}

type Repository interface {
	// -------- Create / lookup --------
	Create(ctx context.Context, p *models.Pickup) error

	FindByID(ctx context.Context, id string) (*models.Pickup, error)

	FindByReference(ctx context.Context, referenceNumber string) (*models.Pickup, error)

	// -------- Mutation --------
	Update(ctx context.Context, p *models.Pickup) error

	UpdateFields(ctx context.Context, id string, fields map[string]any) (*models.Pickup, error)

	// TransitionIfStatus is the single atomic conditional write every status
	// change goes through: the status check and the update are one statement,
	// and took reports whether the write happened. No rows touched means the
	// guard lost.
	TransitionIfStatus(ctx context.Context, id string, from Status, fields map[string]any) (took bool, err error)

	// -------- Queries --------
	Query(ctx context.Context, f QueryFilter) ([]models.Pickup, error)

	// -------- Ingestion --------
	UpsertByProvenance(ctx context.Context, outlookEventID string, create *models.Pickup, update ProvenanceUpdate) error

	// -------- Aggregation --------
	CountByStatus(ctx context.Context, start, end *time.Time) (map[Status]int64, error)

	LatestCreatedAt(ctx context.Context) (*time.Time, error)
}
