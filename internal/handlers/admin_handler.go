package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/nordhaul/pickup-coordinator/internal/domain/pickup"
	"github.com/nordhaul/pickup-coordinator/internal/httperr"
	"github.com/nordhaul/pickup-coordinator/internal/httpresp"
	"github.com/nordhaul/pickup-coordinator/internal/middleware"
	"github.com/nordhaul/pickup-coordinator/internal/storage"
	"github.com/nordhaul/pickup-coordinator/internal/timezone"
	ucPickup "github.com/nordhaul/pickup-coordinator/internal/usecase/pickup"
)

// ======================================================
// HANDLER
// ======================================================

type AdminHandler struct {
	createUC         *ucPickup.CreatePickup
	listUC           *ucPickup.ListPickups
	listTodayUC      *ucPickup.ListToday
	confirmLoadingUC *ucPickup.ConfirmLoading
	generateDocUC    *ucPickup.GenerateDocument
	markCompletedUC  *ucPickup.MarkCompleted
	statsUC          *ucPickup.Stats
	repo             domain.Repository
	uploader         *storage.Uploader
}

func NewAdminHandler(
	createUC *ucPickup.CreatePickup,
	listUC *ucPickup.ListPickups,
	listTodayUC *ucPickup.ListToday,
	confirmLoadingUC *ucPickup.ConfirmLoading,
	generateDocUC *ucPickup.GenerateDocument,
	markCompletedUC *ucPickup.MarkCompleted,
	statsUC *ucPickup.Stats,
	repo domain.Repository,
	uploader *storage.Uploader,
) *AdminHandler {
	return &AdminHandler{
		createUC:         createUC,
		listUC:           listUC,
		listTodayUC:      listTodayUC,
		confirmLoadingUC: confirmLoadingUC,
		generateDocUC:    generateDocUC,
		markCompletedUC:  markCompletedUC,
		statsUC:          statsUC,
		repo:             repo,
		uploader:         uploader,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreatePickupRequest struct {
	ReferenceNumber  string `json:"reference_number" binding:"required"`
	Company          string `json:"company" binding:"required"`
	ScheduledDate    string `json:"scheduled_date" binding:"required"`
	GoodsDescription string `json:"goods_description" binding:"required"`
	PickupLocation   string `json:"pickup_location" binding:"required"`
	Quantity         *int   `json:"quantity"`
	Notes            string `json:"notes"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AdminHandler) Create(c *gin.Context) {
	var req CreatePickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "All required pickup fields must be provided.")
		return
	}

	scheduled, err := parseDateParam(req.ScheduledDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_scheduled_date", "Scheduled date must be YYYY-MM-DD or RFC3339.")
		return
	}

	p, err := h.createUC.Execute(c.Request.Context(), currentUserID(c), ucPickup.CreatePickupInput{
		ReferenceNumber:  req.ReferenceNumber,
		Company:          req.Company,
		ScheduledDate:    scheduled,
		GoodsDescription: req.GoodsDescription,
		PickupLocation:   req.PickupLocation,
		Quantity:         req.Quantity,
		Notes:            req.Notes,
	})
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	httpresp.Created(c, gin.H{
		"message": "Pickup created successfully",
		"pickup":  p,
	})
}

// ======================================================
// LISTS
// ======================================================

// List filters by status, company, and either an exact date or a
// start/end range. A date param wins over the range params.
func (h *AdminHandler) List(c *gin.Context) {
	f := ucPickup.ListFilter{
		Status:  domain.Status(strings.ToUpper(c.Query("status"))),
		Company: c.Query("company"),
	}

	if raw := c.Query("date"); raw != "" {
		d, err := parseDateParam(raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Date must be YYYY-MM-DD.")
			return
		}
		f.Date = &d
	} else {
		if raw := c.Query("start_date"); raw != "" {
			d, err := parseDateParam(raw)
			if err != nil {
				httperr.BadRequest(c, "invalid_date", "start_date must be YYYY-MM-DD.")
				return
			}
			f.Start = &d
		}
		if raw := c.Query("end_date"); raw != "" {
			d, err := parseDateParam(raw)
			if err != nil {
				httperr.BadRequest(c, "invalid_date", "end_date must be YYYY-MM-DD.")
				return
			}
			_, end := timezone.DayWindow(d)
			f.End = &end
		}
	}

	pickups, err := h.listUC.Execute(c.Request.Context(), f)
	if err != nil {
		httperr.Internal(c, "list_failed", "Could not list pickups.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pickups": pickups,
		"count":   len(pickups),
	})
}

func (h *AdminHandler) ListToday(c *gin.Context) {
	today, err := h.listTodayUC.Execute(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "list_failed", "Could not list pickups.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":    timezone.Now().Format("2006-01-02"),
		"total":   len(today.Pickups),
		"grouped": today.Grouped,
	})
}

func (h *AdminHandler) Get(c *gin.Context) {
	p, err := h.repo.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pickup": p})
}

// ======================================================
// LEGACY CONFIRM (reserve desk closes out a pickup)
// ======================================================

func (h *AdminHandler) ConfirmLoading(c *gin.Context) {
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

	_, pdfPath, err := h.generateDocUC.Execute(c.Request.Context(), loaded.ID)
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	completed, err := h.markCompletedUC.Execute(c.Request.Context(), loaded.ID, pdfPath)
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Loading confirmed and waybill generated",
		"pickup":   completed,
		"pdf_path": pdfPath,
	})
}

// ======================================================
// DOCUMENT RECOVERY / DOWNLOAD
// ======================================================

// GenerateDocument re-runs waybill generation for a pickup whose earlier
// attempt failed. Only the stored document path changes.
func (h *AdminHandler) GenerateDocument(c *gin.Context) {
	p, pdfPath, err := h.generateDocUC.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Waybill generated",
		"pickup":   p,
		"pdf_path": pdfPath,
	})
}

func (h *AdminHandler) DownloadDocument(c *gin.Context) {
	p, err := h.repo.FindByID(c.Request.Context(), c.Param("id"))
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

// ======================================================
// STATS
// ======================================================

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.statsUC.Execute(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "stats_failed", "Could not compute statistics.")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ======================================================
// REFERENCE PHOTO UPLOAD
// ======================================================

const maxPhotoSize = 10 << 20 // 10 MB

func (h *AdminHandler) UploadPhoto(c *gin.Context) {
	if h.uploader == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "storage_not_configured", "Photo storage is not configured.")
		return
	}

	p, err := h.repo.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		httperr.BadRequest(c, "missing_photo", "A photo file is required.")
		return
	}
	if file.Size > maxPhotoSize {
		httperr.BadRequest(c, "photo_too_large", "Photo must be under 10 MB.")
		return
	}

	src, err := file.Open()
	if err != nil {
		httperr.Internal(c, "upload_failed", "Could not read the photo.")
		return
	}
	defer src.Close()

	encoded, err := storage.EncodeWebP(src)
	if err != nil {
		httperr.BadRequest(c, "invalid_photo", "Photo must be a JPEG or PNG image.")
		return
	}

	key := fmt.Sprintf("pickups/%s/%s.webp", p.ID, uuid.NewString())
	url, err := h.uploader.UploadPhoto(c.Request.Context(), key, encoded)
	if err != nil {
		httperr.Internal(c, "upload_failed", "Could not store the photo.")
		return
	}

	updated, err := h.repo.UpdateFields(c.Request.Context(), p.ID, map[string]any{
		"image_url": url,
	})
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Photo uploaded",
		"image_url": url,
		"pickup":    updated,
	})
}

// ======================================================
// HELPERS
// ======================================================

func currentUserID(c *gin.Context) *uint {
	raw, ok := c.Get(middleware.ContextUserID)
	if !ok {
		return nil
	}
	id, ok := raw.(uint)
	if !ok {
		return nil
	}
	return &id
}

// parseDateParam accepts plain dates and full RFC3339 timestamps. Plain
// dates land at local midnight in the operating timezone.
func parseDateParam(raw string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", raw, timezone.Location(timezone.DefaultTimezone)); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
