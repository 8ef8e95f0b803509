package repository

import (
	"context"

	"lorryledger/models"
)

type ShipmentRepository interface {
	// CreateShipment stores a new shipment, assigning an ordered key when ID is empty.
	CreateShipment(ctx context.Context, s *models.Shipment) error
	GetShipment(ctx context.Context, id string) (*models.Shipment, error)
	// GetShipments returns the shipments in the order of ids. A missing id is ErrNotFound.
	GetShipments(ctx context.Context, ids []string) ([]*models.Shipment, error)
	// UpdateShipment rewrites the descriptive fields only. Status and
	// InvoiceID belong to CreateInvoice, the trip ledgers to SaveTrip and
	// FuelAlreadyDeducted to DeductFuelOnce.
	UpdateShipment(ctx context.Context, s *models.Shipment) error
	// SaveTrip replaces both trip ledgers while the shipment is still active.
	// It returns ErrShipmentNotActive once the shipment has been invoiced.
	SaveTrip(ctx context.Context, id string, trip, emptyTrip models.TripLedger) error
	DeleteShipment(ctx context.Context, id string) error
	// ListShipments returns up to limit shipments with key <= endAt (all keys
	// when endAt is empty), newest key first.
	ListShipments(ctx context.Context, endAt string, limit int) ([]*models.Shipment, error)
	// DeductFuelOnce marks the shipment's fuel as deducted and takes liters
	// off the vehicle balance in one atomic step. It returns false without
	// touching the vehicle when the shipment was already marked.
	DeductFuelOnce(ctx context.Context, shipmentID, vehicleID string, liters float64) (bool, error)
}
