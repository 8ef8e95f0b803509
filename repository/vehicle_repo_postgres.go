package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lorryledger/models"
)

type PostgresVehicleRepo struct {
	DB *sql.DB
}

func NewPostgresVehicleRepo(db *sql.DB) *PostgresVehicleRepo {
	return &PostgresVehicleRepo{DB: db}
}

func (r *PostgresVehicleRepo) SaveVehicle(ctx context.Context, v *models.Vehicle) error {
	if v.ID == "" {
		v.ID = NewKey()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO vehicles(id, number, average, fuel_balance, created_at)
		VALUES($1,$2,$3,$4,$5)
		ON CONFLICT(id) DO UPDATE SET number = EXCLUDED.number, average = EXCLUDED.average
	`, v.ID, v.Number, v.Average, v.FuelBalance, v.CreatedAt)
	if err != nil {
		return fmt.Errorf("save vehicle: %w", err)
	}
	return nil
}

func (r *PostgresVehicleRepo) GetVehicle(ctx context.Context, id string) (*models.Vehicle, error) {
	var v models.Vehicle
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, number, average, fuel_balance, created_at FROM vehicles WHERE id = $1
	`, id).Scan(&v.ID, &v.Number, &v.Average, &v.FuelBalance, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get vehicle %s: %w", id, err)
	}
	return &v, nil
}

func (r *PostgresVehicleRepo) GetVehiclePayment(ctx context.Context, shipmentID string) (*models.VehiclePayment, error) {
	var p models.VehiclePayment
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, shipment_id, vehicle_id, type, amount, date, note, created_at
		FROM vehicle_payments WHERE shipment_id = $1
	`, shipmentID).Scan(&p.ID, &p.ShipmentID, &p.VehicleID, &p.Type, &p.Amount, &p.Date, &p.Note, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get vehicle payment for %s: %w", shipmentID, err)
	}
	return &p, nil
}

func (r *PostgresVehicleRepo) UpsertVehiclePayment(ctx context.Context, p *models.VehiclePayment) error {
	if p.ID == "" {
		p.ID = NewKey()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO vehicle_payments(id, shipment_id, vehicle_id, type, amount, date, note, created_at)
		VALUES($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT(shipment_id) DO UPDATE
			SET vehicle_id = EXCLUDED.vehicle_id, amount = EXCLUDED.amount,
				date = EXCLUDED.date, note = EXCLUDED.note
		RETURNING id
	`, p.ID, p.ShipmentID, p.VehicleID, p.Type, p.Amount, p.Date, p.Note, p.CreatedAt).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("upsert vehicle payment: %w", err)
	}
	return nil
}

func (r *PostgresVehicleRepo) DeleteVehiclePayment(ctx context.Context, shipmentID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM vehicle_payments WHERE shipment_id = $1`, shipmentID)
	if err != nil {
		return fmt.Errorf("delete vehicle payment for %s: %w", shipmentID, err)
	}
	return nil
}
