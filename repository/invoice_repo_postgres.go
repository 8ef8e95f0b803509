package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"lorryledger/models"
)

type PostgresInvoiceRepo struct {
	DB *sql.DB
}

func NewPostgresInvoiceRepo(db *sql.DB) *PostgresInvoiceRepo {
	return &PostgresInvoiceRepo{DB: db}
}

func (r *PostgresInvoiceRepo) CreateInvoice(ctx context.Context, inv *models.Invoice, num DocumentNumber) error {
	if inv.ID == "" {
		inv.ID = NewKey()
	}
	companyJSON, err := json.Marshal(inv.Company)
	if err != nil {
		return err
	}
	itemsJSON, err := json.Marshal(inv.Items)
	if err != nil {
		return err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// The counter row stays locked until commit; a rollback returns the number.
	seq, err := nextSequence(ctx, tx, num.DocType, num.DatePrefix)
	if err != nil {
		return err
	}
	inv.InvoiceNumber = num.Format(seq)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO invoices(
			id, invoice_number, invoice_type, party_id, party_name, company, items, shipment_ids,
			subtotal, cgst_percent, sgst_percent, cgst_amount, sgst_amount, grand_total,
			amount_in_words, payment_status, paid_amount, created_by, created_at
		)
		VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
	`,
		inv.ID, inv.InvoiceNumber, inv.InvoiceType, inv.Party.ID, inv.Party.Name,
		companyJSON, itemsJSON, pq.Array(inv.ShipmentIDs),
		inv.Subtotal, inv.CGSTPercent, inv.SGSTPercent, inv.CGSTAmount, inv.SGSTAmount, inv.GrandTotal,
		inv.AmountInWords, inv.PaymentStatus, inv.PaidAmount, inv.CreatedBy, inv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}

	// Only active shipments flip; a short count means another invoice got there first.
	res, err := tx.ExecContext(ctx, `
		UPDATE shipments SET status = $1, invoice_id = $2, updated_at = $3
		WHERE id = ANY($4) AND status = $5
	`, models.StatusInvoiced, inv.ID, inv.CreatedAt, pq.Array(inv.ShipmentIDs), models.StatusActive)
	if err != nil {
		return fmt.Errorf("mark shipments invoiced: %w", err)
	}
	if n, _ := res.RowsAffected(); n != int64(len(inv.ShipmentIDs)) {
		return ErrShipmentNotActive
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE parties SET outstanding = outstanding + $1 WHERE id = $2 AND kind = $3
	`, inv.GrandTotal, inv.Party.ID, partyKindOf(inv.InvoiceType))
	if err != nil {
		return fmt.Errorf("update outstanding: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("party %s: %w", inv.Party.ID, ErrNotFound)
	}

	return tx.Commit()
}

func (r *PostgresInvoiceRepo) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	var inv models.Invoice
	var companyJSON, itemsJSON []byte

	err := r.DB.QueryRowContext(ctx, `
		SELECT id, invoice_number, invoice_type, party_id, party_name, company, items, shipment_ids,
			subtotal, cgst_percent, sgst_percent, cgst_amount, sgst_amount, grand_total,
			amount_in_words, payment_status, paid_amount, created_by, created_at
		FROM invoices WHERE id = $1
	`, id).Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.InvoiceType, &inv.Party.ID, &inv.Party.Name,
		&companyJSON, &itemsJSON, pq.Array(&inv.ShipmentIDs),
		&inv.Subtotal, &inv.CGSTPercent, &inv.SGSTPercent, &inv.CGSTAmount, &inv.SGSTAmount, &inv.GrandTotal,
		&inv.AmountInWords, &inv.PaymentStatus, &inv.PaidAmount, &inv.CreatedBy, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get invoice %s: %w", id, err)
	}
	if err := json.Unmarshal(companyJSON, &inv.Company); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(itemsJSON, &inv.Items); err != nil {
		return nil, err
	}
	return &inv, nil
}

func partyKindOf(t models.InvoiceType) models.PartyKind {
	if t == models.InvoiceTransporter {
		return models.PartyTransporter
	}
	return models.PartyClient
}
