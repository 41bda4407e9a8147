package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nordhaul/pickup-coordinator/internal/httperr"
	"github.com/nordhaul/pickup-coordinator/internal/httpresp"
	ucSync "github.com/nordhaul/pickup-coordinator/internal/usecase/sync"
)

// ======================================================
// HANDLER
// ======================================================

type SyncHandler struct {
	syncUC   *ucSync.SyncCalendar
	statusUC *ucSync.SyncStatus
}

func NewSyncHandler(syncUC *ucSync.SyncCalendar, statusUC *ucSync.SyncStatus) *SyncHandler {
	return &SyncHandler{syncUC: syncUC, statusUC: statusUC}
}

// ======================================================
// SYNC
// ======================================================

func (h *SyncHandler) SyncOutlook(c *gin.Context) {
	windowDays := ucSync.DefaultWindowDays
	if raw := c.Query("daysAhead"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			httperr.BadRequest(c, "invalid_days_ahead", "daysAhead must be a positive integer.")
			return
		}
		windowDays = n
	}

	result, err := h.syncUC.Execute(c.Request.Context(), windowDays)
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Calendar sync completed",
		"synced":  result.Synced,
		"errors":  result.Errors,
	})
}

func (h *SyncHandler) Status(c *gin.Context) {
	status, err := h.statusUC.Execute(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "status_failed", "Could not read sync status.")
		return
	}

	httpresp.OK(c, status)
}
