package pickup

import (
	"strings"
	"time"

	"github.com/nordhaul/pickup-coordinator/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// TransportAssignment carries the driver-supplied fields stamped on a record
// when it is reserved.
type TransportAssignment struct {
	TruckPlate    string
	TrailerNumber string
	DriverName    string
	DriverCompany string
	Destination   string
	Quantity      *int
}

func Reserve(p *models.Pickup, a TransportAssignment) error {
	if err := CanReserve(Status(p.Status)); err != nil {
		return err
	}

	p.Status = string(StatusReserved)
	p.TruckPlate = strings.ToUpper(strings.TrimSpace(a.TruckPlate))
	p.TrailerNumber = strings.ToUpper(strings.TrimSpace(a.TrailerNumber))

	p.DriverName = strings.TrimSpace(a.DriverName)
	if p.DriverName == "" {
		p.DriverName = "Not provided"
	}

	p.DriverCompany = strings.TrimSpace(a.DriverCompany)
	p.Destination = strings.TrimSpace(a.Destination)
	if a.Quantity != nil {
		p.Quantity = a.Quantity
	}
	return nil
}

func StartLoading(p *models.Pickup, now time.Time) error {
	if err := CanStartLoading(Status(p.Status)); err != nil {
		return err
	}

	p.Status = string(StatusLoading)
	p.LoadingStartTime = &now
	return nil
}

// ConfirmLoaded applies the LOADING → LOADED transition. The QR reference must
// already exist: the collaborator call completes before the record moves.
func ConfirmLoaded(p *models.Pickup, qrCode string, now time.Time) error {
	if err := CanConfirmLoaded(Status(p.Status)); err != nil {
		return err
	}

	p.Status = string(StatusLoaded)
	p.LoadingEndTime = &now
	p.QRCode = qrCode
	return nil
}

// ConfirmLoading is the legacy single-step confirmation: RESERVED → LOADED
// with the final quantity, no QR and no loading timestamps.
func ConfirmLoading(p *models.Pickup, finalQuantity int, notes string) error {
	if err := CanConfirmLoading(Status(p.Status)); err != nil {
		return err
	}

	p.Status = string(StatusLoaded)
	p.Quantity = &finalQuantity
	p.Notes = notes
	return nil
}

func Complete(p *models.Pickup, pdfPath string) error {
	if err := CanComplete(Status(p.Status)); err != nil {
		return err
	}

	p.Status = string(StatusCompleted)
	p.PDFPath = pdfPath
	return nil
}

// ===============================
// Derived status
// ===============================

func HasDocument(p *models.Pickup) bool {
	return p.PDFPath != ""
}

func HasQRCode(p *models.Pickup) bool {
	return p.QRCode != ""
}

// ScheduledWithin reports whether the record's pickup date falls inside the
// [start, end) window.
func ScheduledWithin(p *models.Pickup, start, end time.Time) bool {
	return !p.ScheduledDate.Before(start) && p.ScheduledDate.Before(end)
}
