package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"lorryledger/models"
)

type PostgresShipmentRepo struct {
	DB *sql.DB
}

func NewPostgresShipmentRepo(db *sql.DB) *PostgresShipmentRepo {
	return &PostgresShipmentRepo{DB: db}
}

const shipmentColumns = `id, date, lr_number, type, truck_id, driver_id,
	client_id, client_name, consignor_id, consignor_name, consignee_id, consignee_name,
	transporter_id, transporter_name, from_location, to_location, distance_km,
	item, packages, unit_weight, weight, status, invoice_id,
	trip, empty_trip, fuel_already_deducted, created_by, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// ------------------------ Helper Functions ------------------------

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func scanShipment(row rowScanner) (*models.Shipment, error) {
	var s models.Shipment
	var invoiceID sql.NullString
	var tripJSON, emptyTripJSON []byte

	err := row.Scan(
		&s.ID, &s.Date, &s.LRNumber, &s.Type, &s.TruckID, &s.DriverID,
		&s.Client.ID, &s.Client.Name, &s.Consignor.ID, &s.Consignor.Name, &s.Consignee.ID, &s.Consignee.Name,
		&s.Transporter.ID, &s.Transporter.Name, &s.Route.From, &s.Route.To, &s.Route.Distance,
		&s.Item, &s.Packages, &s.UnitWeight, &s.Weight, &s.Status, &invoiceID,
		&tripJSON, &emptyTripJSON, &s.FuelAlreadyDeducted, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.InvoiceID = invoiceID.String

	if len(tripJSON) > 0 {
		if err := json.Unmarshal(tripJSON, &s.Trip); err != nil {
			return nil, fmt.Errorf("decode trip for shipment %s: %w", s.ID, err)
		}
	}
	if len(emptyTripJSON) > 0 {
		if err := json.Unmarshal(emptyTripJSON, &s.EmptyTrip); err != nil {
			return nil, fmt.Errorf("decode empty trip for shipment %s: %w", s.ID, err)
		}
	}
	return &s, nil
}

func marshalTrips(s *models.Shipment) ([]byte, []byte, error) {
	trip, err := json.Marshal(s.Trip)
	if err != nil {
		return nil, nil, err
	}
	emptyTrip, err := json.Marshal(s.EmptyTrip)
	if err != nil {
		return nil, nil, err
	}
	return trip, emptyTrip, nil
}

// ------------------------ Create / Update Shipment ------------------------

func (r *PostgresShipmentRepo) CreateShipment(ctx context.Context, s *models.Shipment) error {
	if s.ID == "" {
		s.ID = NewKey()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	trip, emptyTrip, err := marshalTrips(s)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO shipments(`+shipmentColumns+`)
		VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,
			$21,$22,$23,$24,$25,$26,$27,$28,$29)
	`,
		s.ID, s.Date, s.LRNumber, s.Type, s.TruckID, s.DriverID,
		s.Client.ID, s.Client.Name, s.Consignor.ID, s.Consignor.Name, s.Consignee.ID, s.Consignee.Name,
		s.Transporter.ID, s.Transporter.Name, s.Route.From, s.Route.To, s.Route.Distance,
		s.Item, s.Packages, s.UnitWeight, s.Weight, s.Status, nullIfEmpty(s.InvoiceID),
		trip, emptyTrip, s.FuelAlreadyDeducted, s.CreatedBy, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert shipment: %w", err)
	}
	return nil
}

func (r *PostgresShipmentRepo) UpdateShipment(ctx context.Context, s *models.Shipment) error {
	now := time.Now().UTC()
	s.UpdatedAt = &now

	res, err := r.DB.ExecContext(ctx, `
		UPDATE shipments SET
			date=$1, lr_number=$2, type=$3, truck_id=$4, driver_id=$5,
			client_id=$6, client_name=$7, consignor_id=$8, consignor_name=$9,
			consignee_id=$10, consignee_name=$11, transporter_id=$12, transporter_name=$13,
			from_location=$14, to_location=$15, distance_km=$16,
			item=$17, packages=$18, unit_weight=$19, weight=$20, updated_at=$21
		WHERE id=$22
	`,
		s.Date, s.LRNumber, s.Type, s.TruckID, s.DriverID,
		s.Client.ID, s.Client.Name, s.Consignor.ID, s.Consignor.Name,
		s.Consignee.ID, s.Consignee.Name, s.Transporter.ID, s.Transporter.Name,
		s.Route.From, s.Route.To, s.Route.Distance,
		s.Item, s.Packages, s.UnitWeight, s.Weight, now,
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("update shipment %s: %w", s.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresShipmentRepo) SaveTrip(ctx context.Context, id string, trip, emptyTrip models.TripLedger) error {
	tripJSON, err := json.Marshal(trip)
	if err != nil {
		return err
	}
	emptyTripJSON, err := json.Marshal(emptyTrip)
	if err != nil {
		return err
	}

	res, err := r.DB.ExecContext(ctx, `
		UPDATE shipments SET trip=$1, empty_trip=$2, updated_at=$3
		WHERE id=$4 AND status='active'
	`, tripJSON, emptyTripJSON, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("save trip %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	var exists bool
	if err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM shipments WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("save trip %s: %w", id, err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrShipmentNotActive
}

// ------------------------ Get Shipments ------------------------

func (r *PostgresShipmentRepo) GetShipment(ctx context.Context, id string) (*models.Shipment, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE id = $1`, id)
	s, err := scanShipment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get shipment %s: %w", id, err)
	}
	return s, nil
}

func (r *PostgresShipmentRepo) GetShipments(ctx context.Context, ids []string) ([]*models.Shipment, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+shipmentColumns+` FROM shipments WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("get shipments: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*models.Shipment, len(ids))
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, err
		}
		byID[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*models.Shipment, 0, len(ids))
	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("shipment %s: %w", id, ErrNotFound)
		}
		out = append(out, s)
	}
	return out, nil
}

// ListShipments walks the key index backwards from endAt.
func (r *PostgresShipmentRepo) ListShipments(ctx context.Context, endAt string, limit int) ([]*models.Shipment, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if endAt == "" {
		rows, err = r.DB.QueryContext(ctx,
			`SELECT `+shipmentColumns+` FROM shipments ORDER BY id DESC LIMIT $1`, limit)
	} else {
		rows, err = r.DB.QueryContext(ctx,
			`SELECT `+shipmentColumns+` FROM shipments WHERE id <= $1 ORDER BY id DESC LIMIT $2`, endAt, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	defer rows.Close()

	var result []*models.Shipment
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// ------------------------ Fuel ------------------------

func (r *PostgresShipmentRepo) DeductFuelOnce(ctx context.Context, shipmentID, vehicleID string, liters float64) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE shipments SET fuel_already_deducted = TRUE
		WHERE id = $1 AND fuel_already_deducted = FALSE
	`, shipmentID)
	if err != nil {
		return false, fmt.Errorf("mark fuel deducted: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, nil
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE vehicles SET fuel_balance = fuel_balance - $1 WHERE id = $2
	`, liters, vehicleID)
	if err != nil {
		return false, fmt.Errorf("deduct fuel: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, fmt.Errorf("vehicle %s: %w", vehicleID, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// ------------------------ Delete Shipment ------------------------

func (r *PostgresShipmentRepo) DeleteShipment(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM shipments WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete shipment %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
