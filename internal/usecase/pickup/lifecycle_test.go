package pickup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nordhaul/pickup-coordinator/internal/audit"
	domain "github.com/nordhaul/pickup-coordinator/internal/domain/pickup"
	"github.com/nordhaul/pickup-coordinator/internal/httperr"
	infraRepo "github.com/nordhaul/pickup-coordinator/internal/infra/repository"
	"github.com/nordhaul/pickup-coordinator/internal/models"
	"github.com/nordhaul/pickup-coordinator/internal/testutil"
	"github.com/nordhaul/pickup-coordinator/internal/timezone"
)

// ------------------------------
// fakes
// ------------------------------

type fakeQR struct {
	calls int
	fail  bool
}

func (f *fakeQR) Generate(key string) (string, error) {
	f.calls++
	if f.fail {
		return "", errors.New("qr backend down")
	}
	return "data:image/png;base64,QR-" + key, nil
}

// fakeWaybill records the state of the record it was asked to render.
type fakeWaybill struct {
	calls      int
	fail       bool
	sawStatus  string
	sawQRCode  string
	lastPickup string
}

func (f *fakeWaybill) Generate(p *models.Pickup) (string, error) {
	f.calls++
	f.sawStatus = p.Status
	f.sawQRCode = p.QRCode
	f.lastPickup = p.ID
	if f.fail {
		return "", httperr.ErrBusiness("generation_failed")
	}
	return "/storage/pdfs/waybill_" + p.ReferenceNumber + ".pdf", nil
}

// ------------------------------
// harness
// ------------------------------

type env struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	qr      *fakeQR
	waybill *fakeWaybill

	create         *CreatePickup
	reserve        *ReservePickup
	startLoading   *StartLoading
	confirmLoaded  *ConfirmLoaded
	confirmLoading *ConfirmLoading
	markCompleted  *MarkCompleted
	generateDoc    *GenerateDocument
	verify         *VerifyPickup
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := testutil.OpenTestDB(t)
	repo := infraRepo.NewPickupGormRepository(db)
	dispatcher := audit.NewDispatcher(audit.New(db))

	qr := &fakeQR{}
	waybill := &fakeWaybill{}

	return &env{
		repo:    repo,
		audit:   dispatcher,
		qr:      qr,
		waybill: waybill,

		create:         NewCreatePickup(repo, dispatcher),
		reserve:        NewReservePickup(repo, dispatcher),
		startLoading:   NewStartLoading(repo, dispatcher),
		confirmLoaded:  NewConfirmLoaded(repo, qr, waybill, dispatcher),
		confirmLoading: NewConfirmLoading(repo, dispatcher),
		markCompleted:  NewMarkCompleted(repo, dispatcher),
		generateDoc:    NewGenerateDocument(repo, waybill, dispatcher),
		verify:         NewVerifyPickup(repo),
	}
}

func (e *env) createToday(t *testing.T, ref string) *models.Pickup {
	t.Helper()
	p, err := e.create.Execute(context.Background(), nil, CreatePickupInput{
		ReferenceNumber:  ref,
		Company:          "Acme Logistics",
		ScheduledDate:    timezone.Now(),
		GoodsDescription: "Steel coils",
		PickupLocation:   "Gate 4",
	})
	if err != nil {
		t.Fatalf("create %s: %v", ref, err)
	}
	return p
}

// ------------------------------
// the full driver flow
// ------------------------------

func TestDriverFlow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	created := e.createToday(t, "REF-001")
	if created.Status != string(domain.StatusPending) {
		t.Fatalf("new pickup should be PENDING, got %s", created.Status)
	}

	// check before reserving
	check, err := e.verify.Execute(ctx, "REF-001")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !check.Exists || !check.IsToday || !check.CanReserve {
		t.Fatalf("pre-reserve check wrong: %+v", check)
	}

	reserved, err := e.reserve.Execute(ctx, ReserveInput{
		ReferenceNumber: "ref-001",
		TruckPlate:      "abc-123",
		DriverName:      "John",
	})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if reserved.Status != string(domain.StatusReserved) {
		t.Errorf("status = %s, want RESERVED", reserved.Status)
	}
	if reserved.TruckPlate != "ABC-123" {
		t.Errorf("truck plate = %q, want ABC-123", reserved.TruckPlate)
	}
	if reserved.DriverName != "John" {
		t.Errorf("driver name = %q", reserved.DriverName)
	}

	loading, err := e.startLoading.Execute(ctx, reserved.ID)
	if err != nil {
		t.Fatalf("start loading: %v", err)
	}
	if loading.Status != string(domain.StatusLoading) {
		t.Errorf("status = %s, want LOADING", loading.Status)
	}
	if loading.LoadingStartTime == nil {
		t.Error("loading start time not stamped")
	}

	loaded, pdfPath, err := e.confirmLoaded.Execute(ctx, loading.ID)
	if err != nil {
		t.Fatalf("confirm loaded: %v", err)
	}
	if loaded.Status != string(domain.StatusLoaded) {
		t.Errorf("status = %s, want LOADED", loaded.Status)
	}
	if loaded.LoadingEndTime == nil {
		t.Error("loading end time not stamped")
	}
	if !domain.HasQRCode(loaded) {
		t.Error("qr code missing after confirmation")
	}
	if pdfPath == "" || loaded.PDFPath != pdfPath {
		t.Errorf("document path not persisted: %q vs %q", pdfPath, loaded.PDFPath)
	}

	// the waybill must have been rendered from the already-LOADED record
	if e.waybill.sawStatus != string(domain.StatusLoaded) {
		t.Errorf("waybill saw status %s, want LOADED", e.waybill.sawStatus)
	}
	if e.waybill.sawQRCode == "" {
		t.Error("waybill rendered before qr code was set")
	}
}

// ------------------------------
// reservation guards
// ------------------------------

func TestReserveTwiceKeepsFirstAssignment(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.createToday(t, "REF-010")

	if _, err := e.reserve.Execute(ctx, ReserveInput{
		ReferenceNumber: "REF-010",
		TruckPlate:      "FIRST-1",
		DriverName:      "Anna",
	}); err != nil {
		t.Fatalf("first reserve: %v", err)
	}

	_, err := e.reserve.Execute(ctx, ReserveInput{
		ReferenceNumber: "REF-010",
		TruckPlate:      "SECOND-2",
		DriverName:      "Bruno",
	})
	be, ok := httperr.AsBusiness(err)
	if !ok || be.Code != "already_reserved" {
		t.Fatalf("expected already_reserved, got %v", err)
	}
	if be.CurrentStatus != string(domain.StatusReserved) {
		t.Errorf("error should report current status RESERVED, got %q", be.CurrentStatus)
	}

	p, err := e.repo.FindByReference(ctx, "REF-010")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if p.TruckPlate != "FIRST-1" || p.DriverName != "Anna" {
		t.Errorf("losing reservation overwrote the winner: %q / %q", p.TruckPlate, p.DriverName)
	}
}

func TestReserveOutsideTodayWindow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, end := timezone.TodayWindow()

	lastSecond, err := e.create.Execute(ctx, nil, CreatePickupInput{
		ReferenceNumber:  "REF-EDGE-1",
		Company:          "Acme",
		ScheduledDate:    end.Add(-time.Second),
		GoodsDescription: "Pipes",
		PickupLocation:   "Gate 1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := e.reserve.Execute(ctx, ReserveInput{
		ReferenceNumber: lastSecond.ReferenceNumber,
		TruckPlate:      "EDGE-1",
	}); err != nil {
		t.Errorf("23:59:59 today should be reservable, got %v", err)
	}

	tomorrow, err := e.create.Execute(ctx, nil, CreatePickupInput{
		ReferenceNumber:  "REF-EDGE-2",
		Company:          "Acme",
		ScheduledDate:    end, // midnight tomorrow, outside the window
		GoodsDescription: "Pipes",
		PickupLocation:   "Gate 1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = e.reserve.Execute(ctx, ReserveInput{
		ReferenceNumber: tomorrow.ReferenceNumber,
		TruckPlate:      "EDGE-2",
	})
	be, ok := httperr.AsBusiness(err)
	if !ok || be.Code != "not_scheduled_today" {
		t.Fatalf("expected not_scheduled_today, got %v", err)
	}
	if be.CurrentStatus != string(domain.StatusPending) {
		t.Errorf("error should carry the untouched status, got %q", be.CurrentStatus)
	}
}

func TestReservedElsewhereReportsAlreadyReserved(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	p := e.createToday(t, "REF-011")
	if _, err := e.reserve.Execute(ctx, ReserveInput{
		ReferenceNumber: "REF-011",
		TruckPlate:      "T-11",
	}); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	// schedule slips to tomorrow after the reservation
	tomorrow := timezone.Now().AddDate(0, 0, 1)
	if _, err := e.repo.UpdateFields(ctx, p.ID, map[string]any{
		"scheduled_date": tomorrow,
	}); err != nil {
		t.Fatalf("move schedule: %v", err)
	}

	// the status condition outranks the schedule condition
	_, err := e.reserve.Execute(ctx, ReserveInput{
		ReferenceNumber: "REF-011",
		TruckPlate:      "T-12",
	})
	be, ok := httperr.AsBusiness(err)
	if !ok || be.Code != "already_reserved" {
		t.Fatalf("expected already_reserved, got %v", err)
	}
	if be.CurrentStatus != string(domain.StatusReserved) {
		t.Errorf("error should carry RESERVED, got %q", be.CurrentStatus)
	}
}

func TestReserveRequiresTruckPlate(t *testing.T) {
	e := newEnv(t)

	e.createToday(t, "REF-020")

	_, err := e.reserve.Execute(context.Background(), ReserveInput{
		ReferenceNumber: "REF-020",
		TruckPlate:      "   ",
	})
	if !httperr.IsBusiness(err, "missing_truck_plate") {
		t.Fatalf("expected missing_truck_plate, got %v", err)
	}
}

// ------------------------------
// document generation
// ------------------------------

func TestConfirmLoadedSurvivesDocumentFailure(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	p := e.createToday(t, "REF-030")
	if _, err := e.reserve.Execute(ctx, ReserveInput{ReferenceNumber: "REF-030", TruckPlate: "T-1"}); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if _, err := e.startLoading.Execute(ctx, p.ID); err != nil {
		t.Fatalf("start loading: %v", err)
	}

	e.waybill.fail = true

	partial, pdfPath, err := e.confirmLoaded.Execute(ctx, p.ID)
	if !httperr.IsBusiness(err, "generation_failed") {
		t.Fatalf("expected generation_failed, got %v", err)
	}
	if pdfPath != "" {
		t.Errorf("no path expected on failure, got %q", pdfPath)
	}

	// accepted partial state: LOADED with QR, no document
	if partial == nil {
		t.Fatal("the partially-advanced record must be returned")
	}
	if partial.Status != string(domain.StatusLoaded) {
		t.Errorf("status = %s, want LOADED", partial.Status)
	}
	if !domain.HasQRCode(partial) {
		t.Error("qr code should have been kept")
	}
	if domain.HasDocument(partial) {
		t.Error("no document should be recorded")
	}

	// recovery: regenerate without touching status
	e.waybill.fail = false

	recovered, pdfPath, err := e.generateDoc.Execute(ctx, p.ID)
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if pdfPath == "" || recovered.PDFPath != pdfPath {
		t.Errorf("document path not persisted on recovery: %q", recovered.PDFPath)
	}
	if recovered.Status != string(domain.StatusLoaded) {
		t.Errorf("recovery changed status: %s", recovered.Status)
	}
}

func TestConfirmLoadedQRFailureLeavesStateUntouched(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	p := e.createToday(t, "REF-031")
	if _, err := e.reserve.Execute(ctx, ReserveInput{ReferenceNumber: "REF-031", TruckPlate: "T-2"}); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if _, err := e.startLoading.Execute(ctx, p.ID); err != nil {
		t.Fatalf("start loading: %v", err)
	}

	e.qr.fail = true

	_, _, err := e.confirmLoaded.Execute(ctx, p.ID)
	if !httperr.IsBusiness(err, "generation_failed") {
		t.Fatalf("expected generation_failed, got %v", err)
	}

	got, err := e.repo.FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Status != string(domain.StatusLoading) {
		t.Errorf("qr failure must not advance the record, got %s", got.Status)
	}
	if domain.HasQRCode(got) || got.LoadingEndTime != nil {
		t.Error("qr failure must not leave partial artifacts")
	}
	if e.waybill.calls != 0 {
		t.Error("waybill must not run when the qr step failed")
	}
}

// ------------------------------
// legacy flow
// ------------------------------

func TestLegacyConfirmLoadingFlow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	p := e.createToday(t, "REF-040")
	if _, err := e.reserve.Execute(ctx, ReserveInput{ReferenceNumber: "REF-040", TruckPlate: "L-1"}); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	loaded, err := e.confirmLoading.Execute(ctx, p.ID, 24, "two pallets short")
	if err != nil {
		t.Fatalf("confirm loading: %v", err)
	}
	if loaded.Status != string(domain.StatusLoaded) {
		t.Errorf("status = %s, want LOADED", loaded.Status)
	}
	if loaded.Quantity == nil || *loaded.Quantity != 24 {
		t.Errorf("final quantity not stored: %v", loaded.Quantity)
	}
	if domain.HasQRCode(loaded) {
		t.Error("legacy flow must not generate a qr code")
	}

	_, pdfPath, err := e.generateDoc.Execute(ctx, p.ID)
	if err != nil {
		t.Fatalf("generate document: %v", err)
	}

	completed, err := e.markCompleted.Execute(ctx, p.ID, pdfPath)
	if err != nil {
		t.Fatalf("mark completed: %v", err)
	}
	if completed.Status != string(domain.StatusCompleted) {
		t.Errorf("status = %s, want COMPLETED", completed.Status)
	}
	if completed.PDFPath != pdfPath {
		t.Errorf("document path lost: %q", completed.PDFPath)
	}
}

func TestLegacyConfirmRejectsBadQuantity(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	p := e.createToday(t, "REF-041")
	if _, err := e.reserve.Execute(ctx, ReserveInput{ReferenceNumber: "REF-041", TruckPlate: "L-2"}); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	if _, err := e.confirmLoading.Execute(ctx, p.ID, 0, ""); !httperr.IsBusiness(err, "invalid_quantity") {
		t.Errorf("expected invalid_quantity for 0, got %v", err)
	}
	if _, err := e.confirmLoading.Execute(ctx, p.ID, -3, ""); !httperr.IsBusiness(err, "invalid_quantity") {
		t.Errorf("expected invalid_quantity for negative, got %v", err)
	}
}

// ------------------------------
// create validation
// ------------------------------

func TestCreateValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	base := CreatePickupInput{
		ReferenceNumber:  "REF-050",
		Company:          "Acme",
		ScheduledDate:    timezone.Now(),
		GoodsDescription: "Boxes",
		PickupLocation:   "Dock 2",
	}

	cases := []struct {
		name   string
		mutate func(*CreatePickupInput)
		code   string
	}{
		{"missing reference", func(in *CreatePickupInput) { in.ReferenceNumber = "" }, "missing_reference_number"},
		{"short reference", func(in *CreatePickupInput) { in.ReferenceNumber = "AB" }, "invalid_reference_number"},
		{"bad characters", func(in *CreatePickupInput) { in.ReferenceNumber = "REF 001!" }, "invalid_reference_number"},
		{"missing company", func(in *CreatePickupInput) { in.Company = "" }, "missing_company"},
		{"missing date", func(in *CreatePickupInput) { in.ScheduledDate = time.Time{} }, "missing_scheduled_date"},
		{"missing goods", func(in *CreatePickupInput) { in.GoodsDescription = "" }, "missing_goods_description"},
		{"missing location", func(in *CreatePickupInput) { in.PickupLocation = "" }, "missing_pickup_location"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			tc.mutate(&in)
			if _, err := e.create.Execute(ctx, nil, in); !httperr.IsBusiness(err, tc.code) {
				t.Errorf("expected %s, got %v", tc.code, err)
			}
		})
	}
}
