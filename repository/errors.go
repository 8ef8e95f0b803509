package repository

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrShipmentNotActive is returned when an invoice commit or a trip save
	// finds the shipment already invoiced.
	ErrShipmentNotActive = errors.New("shipment is not active")
)

// NewKey returns a fresh ordered key. UUIDv7 strings sort by creation time.
func NewKey() string {
	return uuid.Must(uuid.NewV7()).String()
}
