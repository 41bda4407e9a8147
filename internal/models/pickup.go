package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Pickup struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	ReferenceNumber string `gorm:"size:64;uniqueIndex;not null" json:"reference_number"`

	Company          string    `gorm:"size:255;not null" json:"company"`
	ScheduledDate    time.Time `gorm:"index:idx_pickups_status_date,priority:2" json:"scheduled_date"`
	GoodsDescription string    `gorm:"size:255" json:"goods_description"`
	Quantity         *int      `json:"quantity"`
	PickupLocation   string    `gorm:"size:255" json:"pickup_location"`
	ImageURL         string    `gorm:"size:512" json:"image_url"`
	Notes            string    `gorm:"size:255" json:"notes"`

	TruckPlate    string `gorm:"size:20" json:"truck_plate"`
	TrailerNumber string `gorm:"size:20" json:"trailer_number"`
	DriverName    string `gorm:"size:100" json:"driver_name"`
	DriverCompany string `gorm:"size:255" json:"driver_company"`
	Destination   string `gorm:"size:255" json:"destination"`

	Status string `gorm:"size:20;default:'PENDING';index:idx_pickups_status_date,priority:1" json:"status"`

	LoadingStartTime *time.Time `json:"loading_start_time"`
	LoadingEndTime   *time.Time `json:"loading_end_time"`
	QRCode           string     `gorm:"type:text" json:"qr_code"`
	PDFPath          string     `gorm:"size:512" json:"pdf_path"`

	// Calendar event the record was ingested from, when any.
	OutlookEventID string `gorm:"size:255;index" json:"outlook_event_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Pickup) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
