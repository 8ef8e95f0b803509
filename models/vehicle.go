package models

import "time"

type Vehicle struct {
	ID          string    `json:"id" bson:"_id" db:"id"`
	Number      string    `json:"number" bson:"number" db:"number"`
	Average     float64   `json:"average" bson:"average" db:"average"`                // km per liter
	FuelBalance float64   `json:"fuel_balance" bson:"fuel_balance" db:"fuel_balance"` // liters
	CreatedAt   time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}

const PaymentVehicleWork = "vehicle_work"

// VehiclePayment is money spent on a vehicle, recorded against the
// shipment whose trip produced it. At most one per shipment.
type VehiclePayment struct {
	ID         string    `json:"id" bson:"_id" db:"id"`
	ShipmentID string    `json:"shipment_id" bson:"shipment_id" db:"shipment_id"`
	VehicleID  string    `json:"vehicle_id" bson:"vehicle_id" db:"vehicle_id"`
	Type       string    `json:"type" bson:"type" db:"type"`
	Amount     float64   `json:"amount" bson:"amount" db:"amount"`
	Date       time.Time `json:"date" bson:"date" db:"date"`
	Note       string    `json:"note,omitempty" bson:"note,omitempty" db:"note"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}
