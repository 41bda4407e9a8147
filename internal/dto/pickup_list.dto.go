package dto

import (
	"time"

	domain "github.com/nordhaul/pickup-coordinator/internal/domain/pickup"
	"github.com/nordhaul/pickup-coordinator/internal/models"
)

// PickupSummaryDTO is the driver-facing projection: enough to recognise the
// load, nothing operational beyond it.
type PickupSummaryDTO struct {
	ID               string    `json:"id"`
	ReferenceNumber  string    `json:"reference_number"`
	Company          string    `json:"company"`
	ScheduledDate    time.Time `json:"scheduled_date"`
	GoodsDescription string    `json:"goods_description"`
	Quantity         *int      `json:"quantity"`
	Status           string    `json:"status"`
	TruckPlate       string    `json:"truck_plate"`
	DriverName       string    `json:"driver_name"`
	HasDocument      bool      `json:"has_document"`
}

func NewPickupSummary(p *models.Pickup) PickupSummaryDTO {
	return PickupSummaryDTO{
		ID:               p.ID,
		ReferenceNumber:  p.ReferenceNumber,
		Company:          p.Company,
		ScheduledDate:    p.ScheduledDate,
		GoodsDescription: p.GoodsDescription,
		Quantity:         p.Quantity,
		Status:           p.Status,
		TruckPlate:       p.TruckPlate,
		DriverName:       p.DriverName,
		HasDocument:      domain.HasDocument(p),
	}
}

func NewPickupSummaries(pickups []models.Pickup) []PickupSummaryDTO {
	out := make([]PickupSummaryDTO, 0, len(pickups))
	for i := range pickups {
		out = append(out, NewPickupSummary(&pickups[i]))
	}
	return out
}
