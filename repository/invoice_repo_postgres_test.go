package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lorryledger/models"
)

func testInvoice() *models.Invoice {
	return &models.Invoice{
		ID:            "inv-1",
		InvoiceNumber: "INV20260315001",
		InvoiceType:   models.InvoiceClient,
		Party:         models.PartyRef{ID: "client-1", Name: "Shree Cement"},
		ShipmentIDs:   []string{"s1", "s2"},
		Subtotal:      1000,
		GrandTotal:    1180,
		PaymentStatus: models.PaymentPending,
		CreatedAt:     time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	}
}

var testInvoiceNumber = DocumentNumber{
	DocType:    "INV",
	DatePrefix: "20260315",
	Format:     func(seq int64) string { return fmt.Sprintf("INV20260315%03d", seq) },
}

func expectInvoiceSequence(mock sqlmock.Sqlmock, value int64) {
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO sequences")).
		WithArgs("INV", "20260315").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(value))
}

func TestPostgresCreateInvoiceCommitsAllWrites(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectBegin()
	expectInvoiceSequence(mock, 4)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO invoices")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE shipments SET status = $1, invoice_id = $2")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE parties SET outstanding = outstanding + $1")).
		WithArgs(1180.0, "client-1", models.PartyClient).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	inv := testInvoice()
	require.NoError(t, NewPostgresInvoiceRepo(conn).CreateInvoice(context.Background(), inv, testInvoiceNumber))
	assert.Equal(t, "INV20260315004", inv.InvoiceNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateInvoiceRollsBackWhenShipmentTaken(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectBegin()
	expectInvoiceSequence(mock, 4)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO invoices")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE shipments SET status = $1, invoice_id = $2")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err = NewPostgresInvoiceRepo(conn).CreateInvoice(context.Background(), testInvoice(), testInvoiceNumber)
	assert.ErrorIs(t, err, ErrShipmentNotActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateInvoiceRollsBackOnStoreError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	boom := errors.New("connection reset")
	mock.ExpectBegin()
	expectInvoiceSequence(mock, 4)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO invoices")).WillReturnError(boom)
	mock.ExpectRollback()

	err = NewPostgresInvoiceRepo(conn).CreateInvoice(context.Background(), testInvoice(), testInvoiceNumber)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSequenceNext(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO sequences")).
		WithArgs("LR", "20260314").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(3)))

	v, err := NewPostgresSequenceRepo(conn).Next(context.Background(), "LR", "20260314")
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)
	assert.NoError(t, mock.ExpectationsWereMet())
}
