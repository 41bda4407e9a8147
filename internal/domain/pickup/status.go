package pickup

import "github.com/nordhaul/pickup-coordinator/internal/httperr"

// ===============================
// Pickup Status
// ===============================

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusReserved  Status = "RESERVED"
	StatusLoading   Status = "LOADING"
	StatusLoaded    Status = "LOADED"
	StatusCompleted Status = "COMPLETED"
)

func InitialStatus() Status {
	return StatusPending
}

// ===============================
// Transition guards
// ===============================

// CanReserve gates the driver reservation. A non-PENDING record was already
// picked up by someone, so the failure code says so instead of the generic
// wrong_status.
func CanReserve(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusinessStatus("already_reserved", string(current))
	}
	return nil
}

// CanStartLoading gates RESERVED → LOADING (driver arrival).
func CanStartLoading(current Status) error {
	if current != StatusReserved {
		return httperr.ErrBusinessStatus("wrong_status", string(current))
	}
	return nil
}

// CanConfirmLoaded gates LOADING → LOADED (driver flow, generates QR + PDF).
func CanConfirmLoaded(current Status) error {
	if current != StatusLoading {
		return httperr.ErrBusinessStatus("wrong_status", string(current))
	}
	return nil
}

// CanConfirmLoading gates RESERVED → LOADED (legacy single-step confirmation,
// no QR). Kept separate from CanConfirmLoaded on purpose: the two flows share
// the LOADED state but not the guard or the side effects.
func CanConfirmLoading(current Status) error {
	if current != StatusReserved {
		return httperr.ErrBusinessStatus("wrong_status", string(current))
	}
	return nil
}

// CanComplete gates LOADED → COMPLETED (legacy path, after the document
// was generated).
func CanComplete(current Status) error {
	if current != StatusLoaded {
		return httperr.ErrBusinessStatus("wrong_status", string(current))
	}
	return nil
}
