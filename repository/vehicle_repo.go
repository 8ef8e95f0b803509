package repository

import (
	"context"

	"lorryledger/models"
)

type VehicleRepository interface {
	SaveVehicle(ctx context.Context, v *models.Vehicle) error
	GetVehicle(ctx context.Context, id string) (*models.Vehicle, error)

	GetVehiclePayment(ctx context.Context, shipmentID string) (*models.VehiclePayment, error)
	// UpsertVehiclePayment keeps a single payment per shipment.
	UpsertVehiclePayment(ctx context.Context, p *models.VehiclePayment) error
	DeleteVehiclePayment(ctx context.Context, shipmentID string) error
}
