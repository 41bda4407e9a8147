package pickup

import (
	"testing"
	"time"

	"github.com/nordhaul/pickup-coordinator/internal/httperr"
	"github.com/nordhaul/pickup-coordinator/internal/models"
)

func TestCanReserve(t *testing.T) {
	if err := CanReserve(StatusPending); err != nil {
		t.Fatalf("PENDING should be reservable, got %v", err)
	}

	for _, current := range []Status{StatusReserved, StatusLoading, StatusLoaded, StatusCompleted} {
		err := CanReserve(current)
		if err == nil {
			t.Fatalf("%s should not be reservable", current)
		}
		be, ok := httperr.AsBusiness(err)
		if !ok {
			t.Fatalf("expected business error for %s, got %v", current, err)
		}
		if be.Code != "already_reserved" {
			t.Errorf("%s: expected code already_reserved, got %s", current, be.Code)
		}
		if be.CurrentStatus != string(current) {
			t.Errorf("%s: expected current status in error, got %q", current, be.CurrentStatus)
		}
	}
}

func TestTransitionGuards(t *testing.T) {
	all := []Status{StatusPending, StatusReserved, StatusLoading, StatusLoaded, StatusCompleted}

	cases := []struct {
		name  string
		guard func(Status) error
		from  Status
	}{
		{"start_loading", CanStartLoading, StatusReserved},
		{"confirm_loaded", CanConfirmLoaded, StatusLoading},
		{"confirm_loading_legacy", CanConfirmLoading, StatusReserved},
		{"complete", CanComplete, StatusLoaded},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, current := range all {
				err := tc.guard(current)
				if current == tc.from {
					if err != nil {
						t.Errorf("from %s: expected success, got %v", current, err)
					}
					continue
				}
				if err == nil {
					t.Errorf("from %s: expected wrong_status", current)
					continue
				}
				be, _ := httperr.AsBusiness(err)
				if be.Code != "wrong_status" {
					t.Errorf("from %s: expected wrong_status, got %s", current, be.Code)
				}
				if be.CurrentStatus != string(current) {
					t.Errorf("from %s: error should carry current status, got %q", current, be.CurrentStatus)
				}
			}
		})
	}
}

func TestReserveStampsTransport(t *testing.T) {
	qty := 12
	p := &models.Pickup{Status: string(StatusPending)}

	err := Reserve(p, TransportAssignment{
		TruckPlate:    " abc-123 ",
		TrailerNumber: "tr-9",
		DriverCompany: "Haulers Oy",
		Destination:   "Tampere",
		Quantity:      &qty,
	})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	if p.Status != string(StatusReserved) {
		t.Errorf("status = %s, want RESERVED", p.Status)
	}
	if p.TruckPlate != "ABC-123" {
		t.Errorf("truck plate = %q, want uppercase trimmed", p.TruckPlate)
	}
	if p.TrailerNumber != "TR-9" {
		t.Errorf("trailer = %q, want uppercase", p.TrailerNumber)
	}
	if p.DriverName != "Not provided" {
		t.Errorf("empty driver name should default, got %q", p.DriverName)
	}
	if p.Quantity == nil || *p.Quantity != 12 {
		t.Errorf("quantity not applied: %v", p.Quantity)
	}
}

func TestConfirmLoadingKeepsLegacyShape(t *testing.T) {
	p := &models.Pickup{Status: string(StatusReserved)}

	if err := ConfirmLoading(p, 8, "partial load"); err != nil {
		t.Fatalf("confirm loading: %v", err)
	}

	if p.Status != string(StatusLoaded) {
		t.Errorf("status = %s, want LOADED", p.Status)
	}
	if p.Quantity == nil || *p.Quantity != 8 {
		t.Errorf("final quantity not stored: %v", p.Quantity)
	}
	if p.QRCode != "" || p.LoadingStartTime != nil || p.LoadingEndTime != nil {
		t.Error("legacy confirmation must not touch QR or loading timestamps")
	}
}

func TestScheduledWithin(t *testing.T) {
	loc := time.UTC
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)

	cases := []struct {
		at   time.Time
		want bool
	}{
		{start, true},
		{start.Add(23*time.Hour + 59*time.Minute + 59*time.Second), true},
		{end, false},
		{start.Add(-time.Second), false},
	}

	for _, tc := range cases {
		p := &models.Pickup{ScheduledDate: tc.at}
		if got := ScheduledWithin(p, start, end); got != tc.want {
			t.Errorf("ScheduledWithin(%v) = %v, want %v", tc.at, got, tc.want)
		}
	}
}
