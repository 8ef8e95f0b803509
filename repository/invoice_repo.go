package repository

import (
	"context"

	"lorryledger/models"
)

type InvoiceRepository interface {
	// CreateInvoice atomically draws the invoice number from num, inserts
	// the invoice, flips every source shipment from active to invoiced with
	// the invoice key, and adds the grand total to the billing party's
	// outstanding balance. If any source shipment is no longer active
	// nothing is written, the counter included, and ErrShipmentNotActive
	// is returned.
	CreateInvoice(ctx context.Context, inv *models.Invoice, num DocumentNumber) error
	GetInvoice(ctx context.Context, id string) (*models.Invoice, error)
}
