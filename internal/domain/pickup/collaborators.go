package pickup

import "github.com/nordhaul/pickup-coordinator/internal/models"

// DocumentGenerator renders the waybill for a fully-populated record and
// returns an opaque artifact path. Each call produces a fresh artifact.
type DocumentGenerator interface {
	Generate(p *models.Pickup) (string, error)
}

// QRGenerator encodes a verification key into an opaque image reference.
type QRGenerator interface {
	Generate(verificationKey string) (string, error)
}
