package models

import "time"

type InvoiceType string

const (
	InvoiceClient      InvoiceType = "client"
	InvoiceTransporter InvoiceType = "transporter"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// InvoiceLineItem is a point-in-time copy of one source shipment.
type InvoiceLineItem struct {
	ShipmentID string    `json:"shipment_id" bson:"shipment_id"`
	Date       time.Time `json:"date" bson:"date"`
	LRNumber   string    `json:"lr_number" bson:"lr_number"`
	TruckID    string    `json:"truck_id" bson:"truck_id"`
	From       string    `json:"from" bson:"from"`
	To         string    `json:"to" bson:"to"`
	Consignor  string    `json:"consignor" bson:"consignor"`
	Consignee  string    `json:"consignee" bson:"consignee"`
	Weight     float64   `json:"weight" bson:"weight"`
	Amount     float64   `json:"amount" bson:"amount"`
}

type Invoice struct {
	ID            string      `json:"id" bson:"_id" db:"id"`
	InvoiceNumber string      `json:"invoice_number" bson:"invoice_number" db:"invoice_number"`
	InvoiceType   InvoiceType `json:"invoice_type" bson:"invoice_type" db:"invoice_type"`
	Party         PartyRef    `json:"party" bson:"party"`

	// Issuer and bank details as they were when the invoice was raised.
	Company CompanyProfile `json:"company" bson:"company" db:"company"`

	Items       []InvoiceLineItem `json:"items" bson:"items" db:"items"`
	ShipmentIDs []string          `json:"shipment_ids" bson:"shipment_ids" db:"shipment_ids"`

	Subtotal      float64       `json:"subtotal" bson:"subtotal" db:"subtotal"`
	CGSTPercent   float64       `json:"cgst_percent" bson:"cgst_percent" db:"cgst_percent"`
	SGSTPercent   float64       `json:"sgst_percent" bson:"sgst_percent" db:"sgst_percent"`
	CGSTAmount    float64       `json:"cgst_amount" bson:"cgst_amount" db:"cgst_amount"`
	SGSTAmount    float64       `json:"sgst_amount" bson:"sgst_amount" db:"sgst_amount"`
	GrandTotal    float64       `json:"grand_total" bson:"grand_total" db:"grand_total"`
	AmountInWords string        `json:"amount_in_words" bson:"amount_in_words" db:"amount_in_words"`
	PaymentStatus PaymentStatus `json:"payment_status" bson:"payment_status" db:"payment_status"`
	PaidAmount    float64       `json:"paid_amount" bson:"paid_amount" db:"paid_amount"`

	CreatedBy string    `json:"created_by" bson:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}
