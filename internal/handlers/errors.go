package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nordhaul/pickup-coordinator/internal/httperr"
)

// ======================================================
// ERROR MAPPING
// ======================================================

// businessMessages keeps one human-readable line per business code so every
// handler answers the same way for the same failure.
var businessMessages = map[string]string{
	"pickup_not_found":          "Pickup not found.",
	"duplicate_reference":       "A pickup with this reference number already exists.",
	"already_reserved":          "This pickup has already been reserved.",
	"wrong_status":              "The pickup is not in the right state for this operation.",
	"not_scheduled_today":       "This pickup is not scheduled for today.",
	"missing_truck_plate":       "Truck plate is required.",
	"invalid_quantity":          "Valid quantity is required.",
	"missing_reference_number":  "Reference number is required.",
	"invalid_reference_number":  "Reference number format is invalid.",
	"missing_company":           "Company is required.",
	"missing_scheduled_date":    "Scheduled date is required.",
	"missing_goods_description": "Goods description is required.",
	"missing_pickup_location":   "Pickup location is required.",
	"generation_failed":         "Document generation failed. The pickup state was kept; retry the generation.",
	"calendar_not_configured":   "Calendar integration is not configured.",
}

var businessStatus = map[string]int{
	"pickup_not_found":        http.StatusNotFound,
	"duplicate_reference":     http.StatusConflict,
	"already_reserved":        http.StatusConflict,
	"wrong_status":            http.StatusConflict,
	"not_scheduled_today":     http.StatusConflict,
	"generation_failed":       http.StatusInternalServerError,
	"calendar_not_configured": http.StatusServiceUnavailable,
}

// writeLifecycleError renders a usecase error. Business errors map onto
// their HTTP status and message tables; anything else is a 500.
func writeLifecycleError(c *gin.Context, err error) {
	be, ok := httperr.AsBusiness(err)
	if !ok {
		logrus.WithError(err).Error("unexpected error handling pickup request")
		httperr.Internal(c, "internal_error", "Something went wrong. Please try again.")
		return
	}

	status, ok := businessStatus[be.Code]
	if !ok {
		status = http.StatusBadRequest
	}

	message, ok := businessMessages[be.Code]
	if !ok {
		message = "Request could not be processed."
	}

	httperr.WriteBusiness(c, status, be, message)
}
