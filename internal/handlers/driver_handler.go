package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/nordhaul/pickup-coordinator/internal/domain/pickup"
	"github.com/nordhaul/pickup-coordinator/internal/dto"
	"github.com/nordhaul/pickup-coordinator/internal/httperr"
	"github.com/nordhaul/pickup-coordinator/internal/httpresp"
	"github.com/nordhaul/pickup-coordinator/internal/models"
	ucPickup "github.com/nordhaul/pickup-coordinator/internal/usecase/pickup"
)

// ======================================================
// HANDLER
// ======================================================

// DriverHandler serves the terminal flow drivers walk through on their
// phones: check the reference, reserve, start loading, confirm loaded.
type DriverHandler struct {
	verifyUC         *ucPickup.VerifyPickup
	reserveUC        *ucPickup.ReservePickup
	startLoadingUC   *ucPickup.StartLoading
	confirmLoadedUC  *ucPickup.ConfirmLoaded
	confirmLoadingUC *ucPickup.ConfirmLoading
	generateDocUC    *ucPickup.GenerateDocument
	markCompletedUC  *ucPickup.MarkCompleted
	listUC           *ucPickup.ListPickups
	listTodayUC      *ucPickup.ListToday
	repo             domain.Repository
}

func NewDriverHandler(
	verifyUC *ucPickup.VerifyPickup,
	reserveUC *ucPickup.ReservePickup,
	startLoadingUC *ucPickup.StartLoading,
	confirmLoadedUC *ucPickup.ConfirmLoaded,
	confirmLoadingUC *ucPickup.ConfirmLoading,
	generateDocUC *ucPickup.GenerateDocument,
	markCompletedUC *ucPickup.MarkCompleted,
	listUC *ucPickup.ListPickups,
	listTodayUC *ucPickup.ListToday,
	repo domain.Repository,
) *DriverHandler {
	return &DriverHandler{
		verifyUC:         verifyUC,
		reserveUC:        reserveUC,
		startLoadingUC:   startLoadingUC,
		confirmLoadedUC:  confirmLoadedUC,
		confirmLoadingUC: confirmLoadingUC,
		generateDocUC:    generateDocUC,
		markCompletedUC:  markCompletedUC,
		listUC:           listUC,
		listTodayUC:      listTodayUC,
		repo:             repo,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type ReserveRequest struct {
	ReferenceNumber string `json:"reference_number" binding:"required"`
	TruckPlate      string `json:"truck_plate" binding:"required"`
	DriverName      string `json:"driver_name"`
	Quantity        *int   `json:"quantity"`
	TrailerNumber   string `json:"trailer_number"`
	DriverCompany   string `json:"driver_company"`
	Destination     string `json:"destination"`
}

type ConfirmLoadingRequest struct {
	Quantity int    `json:"quantity" binding:"required"`
	Notes    string `json:"notes"`
}

// ======================================================
// CHECK / VERIFY
// ======================================================

func (h *DriverHandler) Check(c *gin.Context) {
	ref := c.Param("referenceNumber")

	result, err := h.verifyUC.Execute(c.Request.Context(), ref)
	if err != nil {
		httperr.Internal(c, "check_failed", "Could not check the pickup.")
		return
	}

	if !result.Exists {
		c.JSON(http.StatusNotFound, gin.H{
			"exists":  false,
			"message": "Pickup not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"exists":      true,
		"is_today":    result.IsToday,
		"can_reserve": result.CanReserve,
		"pickup":      result.Pickup,
	})
}

// ======================================================
// RESERVE
// ======================================================

func (h *DriverHandler) Reserve(c *gin.Context) {
	var req ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Reference number and truck plate are required.")
		return
	}

	p, err := h.reserveUC.Execute(c.Request.Context(), ucPickup.ReserveInput{
		ReferenceNumber: req.ReferenceNumber,
		TruckPlate:      req.TruckPlate,
		DriverName:      req.DriverName,
		Quantity:        req.Quantity,
		TrailerNumber:   req.TrailerNumber,
		DriverCompany:   req.DriverCompany,
		Destination:     req.Destination,
	})
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Pickup reserved successfully",
		"pickup":  p,
	})
}

// ======================================================
// START LOADING
// ======================================================

func (h *DriverHandler) StartLoading(c *gin.Context) {
	id := c.Param("id")

	p, err := h.startLoadingUC.Execute(c.Request.Context(), id)
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Loading started",
		"pickup":  p,
	})
}

// ======================================================
// CONFIRM LOADED (arrival flow: QR + waybill)
// ======================================================

func (h *DriverHandler) ConfirmLoaded(c *gin.Context) {
	id := c.Param("id")

	p, pdfPath, err := h.confirmLoadedUC.Execute(c.Request.Context(), id)
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Loading confirmed! Documents generated.",
		"pickup":   p,
		"pdf_path": pdfPath,
	})
}

// ======================================================
// CONFIRM LOADING (legacy driver path)
// ======================================================

func (h *DriverHandler) ConfirmLoading(c *gin.Context) {
	id := c.Param("id")

	var req ConfirmLoadingRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity <= 0 {
		httperr.BadRequest(c, "invalid_quantity", "Valid quantity is required.")
		return
	}

	loaded, err := h.confirmLoadingUC.Execute(c.Request.Context(), id, req.Quantity, req.Notes)
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	completed, pdfPath, err := h.finishLegacy(c, loaded.ID)
	if err != nil {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Loading confirmed and waybill generated",
		"pickup":   completed,
		"pdf_path": pdfPath,
	})
}

// finishLegacy runs the document + completion steps of the legacy flow and
// writes the HTTP error itself when one fails.
func (h *DriverHandler) finishLegacy(c *gin.Context, id string) (*models.Pickup, string, error) {
	_, pdfPath, err := h.generateDocUC.Execute(c.Request.Context(), id)
	if err != nil {
		writeLifecycleError(c, err)
		return nil, "", err
	}

	completed, err := h.markCompletedUC.Execute(c.Request.Context(), id, pdfPath)
	if err != nil {
		writeLifecycleError(c, err)
		return nil, "", err
	}
	return completed, pdfPath, nil
}

// ======================================================
// LISTS
// ======================================================

func (h *DriverHandler) ListToday(c *gin.Context) {
	today, err := h.listTodayUC.Execute(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "list_failed", "Could not list pickups.")
		return
	}

	httpresp.List(c, dto.NewPickupSummaries(today.Pickups))
}

func (h *DriverHandler) ListAll(c *gin.Context) {
	pickups, err := h.listUC.Execute(c.Request.Context(), ucPickup.ListFilter{})
	if err != nil {
		httperr.Internal(c, "list_failed", "Could not list pickups.")
		return
	}

	httpresp.List(c, dto.NewPickupSummaries(pickups))
}

// ======================================================
// DOCUMENT DOWNLOAD / VERIFY
// ======================================================

func (h *DriverHandler) DownloadDocument(c *gin.Context) {
	id := c.Param("id")

	p, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	if !domain.HasDocument(p) {
		httperr.NotFound(c, "document_not_ready", "Waybill not available yet.")
		return
	}

	c.FileAttachment(p.PDFPath, fmt.Sprintf("waybill_%s.pdf", p.ReferenceNumber))
}

func (h *DriverHandler) GetQR(c *gin.Context) {
	id := c.Param("id")

	p, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	if !domain.HasQRCode(p) {
		httperr.NotFound(c, "qr_not_ready", "QR code not available yet.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reference_number": p.ReferenceNumber,
		"qr_code":          p.QRCode,
	})
}

func (h *DriverHandler) Verify(c *gin.Context) {
	id := c.Param("id")

	p, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"pickup": dto.NewPickupSummary(p),
	})
}
