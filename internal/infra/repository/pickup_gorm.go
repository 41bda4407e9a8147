package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/nordhaul/pickup-coordinator/internal/domain/pickup"
	"github.com/nordhaul/pickup-coordinator/internal/httperr"
	"github.com/nordhaul/pickup-coordinator/internal/models"
	"github.com/nordhaul/pickup-coordinator/internal/validators"
)

type PickupGormRepository struct {
	db *gorm.DB
}

func NewPickupGormRepository(db *gorm.DB) *PickupGormRepository {
	return &PickupGormRepository{db: db}
}

// --------------------------------------------------
// Create / lookup
// --------------------------------------------------

func (r *PickupGormRepository) Create(
	ctx context.Context,
	p *models.Pickup,
) error {

	p.ReferenceNumber = validators.NormalizeReference(p.ReferenceNumber)
	// every record enters the lifecycle at its initial state, whatever
	// the caller filled in
	p.Status = string(domain.InitialStatus())

	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return httperr.ErrBusiness("duplicate_reference")
		}
		return err
	}
	return nil
}

func (r *PickupGormRepository) FindByID(
	ctx context.Context,
	id string,
) (*models.Pickup, error) {

	var p models.Pickup
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("pickup_not_found")
		}
		return nil, err
	}
	return &p, nil
}

func (r *PickupGormRepository) FindByReference(
	ctx context.Context,
	referenceNumber string,
) (*models.Pickup, error) {

	var p models.Pickup
	if err := r.db.WithContext(ctx).
		Where("reference_number = ?", validators.NormalizeReference(referenceNumber)).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("pickup_not_found")
		}
		return nil, err
	}
	return &p, nil
}

// --------------------------------------------------
// Mutation
// --------------------------------------------------

func (r *PickupGormRepository) Update(
	ctx context.Context,
	p *models.Pickup,
) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PickupGormRepository) UpdateFields(
	ctx context.Context,
	id string,
	fields map[string]any,
) (*models.Pickup, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Pickup{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, httperr.ErrBusiness("pickup_not_found")
	}

	return r.FindByID(ctx, id)
}

// TransitionIfStatus performs the guard check and the write as one UPDATE so
// two concurrent callers cannot both pass the guard. Exactly one wins.
func (r *PickupGormRepository) TransitionIfStatus(
	ctx context.Context,
	id string,
	from domain.Status,
	fields map[string]any,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Pickup{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

// --------------------------------------------------
// Queries
// --------------------------------------------------

func (r *PickupGormRepository) Query(
	ctx context.Context,
	f domain.QueryFilter,
) ([]models.Pickup, error) {

	q := r.db.WithContext(ctx).Model(&models.Pickup{})

	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.StartDate != nil {
		q = q.Where("scheduled_date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("scheduled_date < ?", *f.EndDate)
	}
	if f.Company != "" {
		q = q.Where("company LIKE ?", "%"+f.Company+"%")
	}

	order := "scheduled_date DESC"
	if f.AscendingByDate {
		order = "scheduled_date ASC"
	}

	var pickups []models.Pickup
	if err := q.Order(order).Find(&pickups).Error; err != nil {
		return nil, err
	}
	return pickups, nil
}

// --------------------------------------------------
// Ingestion
// --------------------------------------------------

// UpsertByProvenance creates the record when the calendar event was never
// seen, otherwise refreshes only the scheduling fields. Runs in a
// transaction so a concurrent sync cannot insert the same event twice.
func (r *PickupGormRepository) UpsertByProvenance(
	ctx context.Context,
	outlookEventID string,
	create *models.Pickup,
	update domain.ProvenanceUpdate,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var existing models.Pickup
		err := tx.Where("outlook_event_id = ?", outlookEventID).
			First(&existing).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			create.OutlookEventID = outlookEventID
			create.ReferenceNumber = validators.NormalizeReference(create.ReferenceNumber)
			create.Status = string(domain.InitialStatus())
			if err := tx.Create(create).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return httperr.ErrBusiness("duplicate_reference")
				}
				return err
			}
			return nil
		}
		if err != nil {
			return err
		}

		return tx.Model(&existing).Updates(map[string]any{
			"company":           update.Company,
			"scheduled_date":    update.ScheduledDate,
			"goods_description": update.GoodsDescription,
		}).Error
	})
}

// --------------------------------------------------
// Aggregation
// --------------------------------------------------

func (r *PickupGormRepository) CountByStatus(
	ctx context.Context,
	start, end *time.Time,
) (map[domain.Status]int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Pickup{})
	if start != nil {
		q = q.Where("scheduled_date >= ?", *start)
	}
	if end != nil {
		q = q.Where("scheduled_date < ?", *end)
	}

	var rows []struct {
		Status string
		Count  int64
	}
	if err := q.Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[domain.Status]int64, len(rows))
	for _, row := range rows {
		counts[domain.Status(row.Status)] = row.Count
	}
	return counts, nil
}

func (r *PickupGormRepository) LatestCreatedAt(
	ctx context.Context,
) (*time.Time, error) {

	var p models.Pickup
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p.CreatedAt, nil
}

// Compile-time check
var _ domain.Repository = (*PickupGormRepository)(nil)
