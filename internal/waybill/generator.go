package waybill

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/sirupsen/logrus"

	"github.com/nordhaul/pickup-coordinator/internal/httperr"
	"github.com/nordhaul/pickup-coordinator/internal/models"
)

// Generator renders the waybill ("rahtikirja") PDF for a pickup and returns
// the stored file path. Every call writes a new file; callers own deciding
// which path the record points at.
type Generator struct {
	storagePath string
}

func NewGenerator(storagePath string) (*Generator, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return nil, fmt.Errorf("create pdf storage dir: %w", err)
	}
	return &Generator{storagePath: storagePath}, nil
}

func (g *Generator) Generate(p *models.Pickup) (string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "RAHTIKIRJA / WAYBILL", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s", time.Now().Format("2006-01-02 15:04")), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	section := func(title string) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
		pdf.Ln(1)
	}
	row := func(label, value string) {
		if value == "" {
			value = "-"
		}
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(50, 6, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
	}

	section("Pickup")
	row("Reference", p.ReferenceNumber)
	row("Company", p.Company)
	row("Scheduled", p.ScheduledDate.Format("2006-01-02 15:04"))
	row("Goods", p.GoodsDescription)
	if p.Quantity != nil {
		row("Quantity", fmt.Sprintf("%d", *p.Quantity))
	} else {
		row("Quantity", "")
	}
	row("Location", p.PickupLocation)
	pdf.Ln(4)

	section("Transport")
	row("Driver", p.DriverName)
	row("Driver company", p.DriverCompany)
	row("Truck plate", p.TruckPlate)
	row("Trailer", p.TrailerNumber)
	row("Destination", p.Destination)
	pdf.Ln(4)

	section("Loading")
	row("Status", p.Status)
	if p.LoadingStartTime != nil {
		row("Loading started", p.LoadingStartTime.Format("2006-01-02 15:04"))
	} else {
		row("Loading started", "")
	}
	if p.LoadingEndTime != nil {
		row("Loading finished", p.LoadingEndTime.Format("2006-01-02 15:04"))
	} else {
		row("Loading finished", "")
	}
	if p.Notes != "" {
		pdf.Ln(2)
		row("Notes", p.Notes)
	}

	filename := fmt.Sprintf(
		"waybill_%s_%d.pdf",
		p.ReferenceNumber,
		time.Now().UnixMilli(),
	)
	path := filepath.Join(g.storagePath, filename)

	if err := pdf.OutputFileAndClose(path); err != nil {
		logrus.WithError(err).WithField("reference", p.ReferenceNumber).
			Error("waybill generation failed")
		return "", httperr.ErrBusiness("generation_failed")
	}

	return path, nil
}
