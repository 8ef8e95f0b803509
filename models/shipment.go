package models

import "time"

// ShipmentType classifies who owns the vehicle moving the load.
type ShipmentType string

const (
	ShipmentOwn           ShipmentType = "own"
	ShipmentMarket        ShipmentType = "market"
	ShipmentMarketCompany ShipmentType = "market_company"
)

// IsMarket reports whether the vehicle was hired rather than self-owned.
func (t ShipmentType) IsMarket() bool {
	return t == ShipmentMarket || t == ShipmentMarketCompany
}

type ShipmentStatus string

const (
	StatusActive   ShipmentStatus = "active"
	StatusInvoiced ShipmentStatus = "invoiced"
)

// PartyRef points at a client or transporter and keeps the display name
// it had when the shipment was written.
type PartyRef struct {
	ID   string `json:"id" bson:"id" db:"id"`
	Name string `json:"name" bson:"name" db:"name"`
}

type Route struct {
	From     string  `json:"from" bson:"from" db:"from_location"`
	To       string  `json:"to" bson:"to" db:"to_location"`
	Distance float64 `json:"distance" bson:"distance" db:"distance_km"`
}

// Shipment is a Lorry Receipt (LR): one freight movement plus its trip sub-ledgers.
type Shipment struct {
	ID          string         `json:"id" bson:"_id" db:"id"`
	Date        time.Time      `json:"date" bson:"date" db:"date"`
	LRNumber    string         `json:"lr_number" bson:"lr_number" db:"lr_number"`
	Type        ShipmentType   `json:"type" bson:"type" db:"type"`
	TruckID     string         `json:"truck_id" bson:"truck_id" db:"truck_id"`
	DriverID    string         `json:"driver_id,omitempty" bson:"driver_id" db:"driver_id"`
	Client      PartyRef       `json:"client" bson:"client"`
	Consignor   PartyRef       `json:"consignor" bson:"consignor"`
	Consignee   PartyRef       `json:"consignee" bson:"consignee"`
	Transporter PartyRef       `json:"transporter" bson:"transporter"`
	Route       Route          `json:"route" bson:"route"`
	Item        string         `json:"item" bson:"item" db:"item"`
	Packages    int            `json:"packages" bson:"packages" db:"packages"`
	UnitWeight  float64        `json:"unit_weight" bson:"unit_weight" db:"unit_weight"`
	Weight      float64        `json:"weight" bson:"weight" db:"weight"`
	Status      ShipmentStatus `json:"status" bson:"status" db:"status"` // active | invoiced
	InvoiceID   string         `json:"invoice_id,omitempty" bson:"invoice_id,omitempty" db:"invoice_id"`

	Trip      TripLedger `json:"trip" bson:"trip" db:"trip"`
	EmptyTrip TripLedger `json:"empty_trip" bson:"empty_trip" db:"empty_trip"`

	// Set by the store when the trip's fuel has been taken off the vehicle balance.
	FuelAlreadyDeducted bool `json:"fuel_already_deducted" bson:"fuel_already_deducted" db:"fuel_already_deducted"`

	CreatedBy string     `json:"created_by" bson:"created_by" db:"created_by"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty" db:"updated_at"`
}

// BillingParty returns the party an invoice for this shipment is raised
// against: the transporter for market_company loads, the client otherwise.
func (s *Shipment) BillingParty() (PartyKind, PartyRef) {
	if s.Type == ShipmentMarketCompany {
		return PartyTransporter, s.Transporter
	}
	return PartyClient, s.Client
}
