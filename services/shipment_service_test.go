package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lorryledger/models"
	"lorryledger/repository"
)

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	names := make([]string, len(verr.Fields))
	for i, f := range verr.Fields {
		names[i] = f.Field
	}
	return names
}

func ratedTrip(rate, amount float64) TripInput {
	return TripInput{
		BillingRate:      rate,
		BillingAmount:    amount,
		StartingOdometer: 1000,
		EndingOdometer:   1500,
	}
}

func TestCreateThenReadShipment(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := newShipmentService(store)
	in := validShipmentInput()

	created, err := svc.CreateShipment(ctx, testSess, in)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := svc.ReadShipment(ctx, created.ID)
	require.NoError(t, err)

	assert.True(t, in.Date.Equal(got.Date))
	assert.Equal(t, in.LRNumber, got.LRNumber)
	assert.Equal(t, in.Type, got.Type)
	assert.Equal(t, in.TruckID, got.TruckID)
	assert.Equal(t, models.PartyRef{ID: "client-1", Name: "Shree Cement"}, got.Client)
	assert.Equal(t, models.Route{From: "Beawar", To: "Jaipur", Distance: 190}, got.Route)
	assert.Equal(t, in.Item, got.Item)
	assert.Equal(t, 20.0, got.Weight)
	assert.Equal(t, models.StatusActive, got.Status)
	assert.Equal(t, "user-1", got.CreatedBy)
	assert.Equal(t, models.TripLedger{}, got.Trip)
	assert.Equal(t, models.TripLedger{}, got.EmptyTrip)
	assert.False(t, IsCompleted(got))
}

func TestCreateShipmentWeightOverride(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := newShipmentService(store)
	in := validShipmentInput()
	w := 25.5
	in.Weight = &w

	created, err := svc.CreateShipment(context.Background(), testSess, in)
	require.NoError(t, err)
	assert.Equal(t, 25.5, created.Weight)
}

func TestCreateShipmentReportsEveryInvalidField(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := newShipmentService(store)

	_, err := svc.CreateShipment(context.Background(), testSess, ShipmentInput{})
	assert.ElementsMatch(t,
		[]string{"date", "lr_number", "type", "truck_id", "client_id", "route.from", "route.to", "item"},
		fieldNames(t, err))
	assert.Zero(t, store.Writes)
}

func TestCreateShipmentMarketCompanyNeedsTransporter(t *testing.T) {
	svc := newShipmentService(repository.NewMemoryStore())
	in := validShipmentInput()
	in.Type = models.ShipmentMarketCompany

	_, err := svc.CreateShipment(context.Background(), testSess, in)
	assert.Equal(t, []string{"transporter_id"}, fieldNames(t, err))

	in.Type = "rented"
	_, err = svc.CreateShipment(context.Background(), testSess, in)
	assert.Equal(t, []string{"type"}, fieldNames(t, err))
}

func TestReadShipmentNotFound(t *testing.T) {
	svc := newShipmentService(repository.NewMemoryStore())

	_, err := svc.ReadShipment(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateShipmentReratesOnWeightChange(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := newShipmentService(store)
	in := validShipmentInput()

	created, err := svc.CreateShipment(ctx, testSess, in)
	require.NoError(t, err)

	cgst := 6.0
	trip := ratedTrip(1000, 20000)
	trip.FreightRate = 800
	trip.FreightAmount = 16000
	trip.CGSTPercent = &cgst
	_, err = svc.SaveTripDetails(ctx, testSess, created.ID, trip, TripInput{}, nil, nil)
	require.NoError(t, err)

	in.Packages = 15
	updated, err := svc.UpdateShipment(ctx, testSess, created.ID, in)
	require.NoError(t, err)

	assert.Equal(t, 30.0, updated.Weight)
	assert.Equal(t, 30000.0, updated.Trip.BillingAmount)
	assert.Equal(t, 24000.0, updated.Trip.FreightAmount)
	assert.Equal(t, 1800.0, updated.Trip.CGSTAmount)
	assert.Equal(t, 2700.0, updated.Trip.SGSTAmount)
	assert.Equal(t, 34500.0, updated.Trip.TotalBillingAmount)

	got, err := svc.ReadShipment(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Trip, got.Trip)
}

func TestUpdateInvoicedShipmentKeepsLedger(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := newShipmentService(store)

	seedInvoicedShipment(t, store, "s1", "inv-1", 20000)

	in := validShipmentInput()
	in.Packages = 15
	updated, err := svc.UpdateShipment(ctx, testSess, "s1", in)
	require.NoError(t, err)

	assert.Equal(t, 30.0, updated.Weight)
	assert.Equal(t, 20000.0, updated.Trip.BillingAmount)
	assert.Equal(t, models.StatusInvoiced, updated.Status)
	assert.Equal(t, "inv-1", updated.InvoiceID)
}

func TestSaveTripDetailsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := newShipmentService(store)
	seedVehicle(t, store, "truck-1", 5, 500)

	created, err := svc.CreateShipment(ctx, testSess, validShipmentInput())
	require.NoError(t, err)

	expenses := []models.GenericExpense{
		{Type: models.ExpenseVehicleWork, Amount: 2000},
		{Type: models.ExpenseToll, Amount: 300},
	}
	var saved *models.Shipment
	for i := 0; i < 3; i++ {
		saved, err = svc.SaveTripDetails(ctx, testSess, created.ID, ratedTrip(1000, 20000), TripInput{}, expenses, nil)
		require.NoError(t, err)
	}

	assert.Equal(t, 1000.0, saved.Trip.BillingRate)
	assert.Equal(t, 1800.0, saved.Trip.CGSTAmount)
	assert.Equal(t, 23600.0, saved.Trip.TotalBillingAmount)
	assert.Equal(t, 500.0, saved.Trip.TotalKm)
	assert.Equal(t, 100.0, saved.Trip.FuelUsed)
	assert.True(t, IsCompleted(saved))

	vehicle, err := store.GetVehicle(ctx, "truck-1")
	require.NoError(t, err)
	assert.Equal(t, 400.0, vehicle.FuelBalance)

	payments := store.VehiclePayments()
	require.Len(t, payments, 1)
	assert.Equal(t, 2000.0, payments[0].Amount)
	assert.Equal(t, created.ID, payments[0].ShipmentID)
	assert.Equal(t, models.PaymentVehicleWork, payments[0].Type)

	// Dropping the vehicle work entry removes the payment.
	_, err = svc.SaveTripDetails(ctx, testSess, created.ID, ratedTrip(1000, 20000), TripInput{}, expenses[1:], nil)
	require.NoError(t, err)
	assert.Empty(t, store.VehiclePayments())
}

func TestSaveTripDetailsMarketVehicleKeepsFuel(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := newShipmentService(store)
	seedVehicle(t, store, "truck-1", 5, 500)

	in := validShipmentInput()
	in.Type = models.ShipmentMarket
	created, err := svc.CreateShipment(ctx, testSess, in)
	require.NoError(t, err)

	_, err = svc.SaveTripDetails(ctx, testSess, created.ID, ratedTrip(1000, 20000), TripInput{}, nil, nil)
	require.NoError(t, err)

	vehicle, err := store.GetVehicle(ctx, "truck-1")
	require.NoError(t, err)
	assert.Equal(t, 500.0, vehicle.FuelBalance)
}

func TestSaveTripDetailsRejectsUnknownCategory(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := newShipmentService(store)

	created, err := svc.CreateShipment(ctx, testSess, validShipmentInput())
	require.NoError(t, err)
	writes := store.Writes

	_, err = svc.SaveTripDetails(ctx, testSess, created.ID, ratedTrip(1000, 20000), TripInput{},
		[]models.GenericExpense{{Type: models.ExpenseToll, Amount: 10}, {Type: "Fuel", Amount: 30}},
		[]models.GenericExpense{{Type: models.ExpenseFood, Amount: -5}},
	)
	assert.Equal(t, []string{"generic_expenses[1].type", "empty_trip_generic_expenses[0].amount"}, fieldNames(t, err))
	assert.Equal(t, writes, store.Writes)
}

func TestSaveTripDetailsOnInvoicedShipment(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := newShipmentService(store)

	seedInvoicedShipment(t, store, "s1", "inv-1", 20000)

	_, err := svc.SaveTripDetails(ctx, testSess, "s1", ratedTrip(1000, 20000), TripInput{}, nil, nil)
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
}

// invoicedAfterRead runs onRead once, right after the first shipment read.
type invoicedAfterRead struct {
	*repository.MemoryStore
	onRead func()
}

func (s *invoicedAfterRead) GetShipment(ctx context.Context, id string) (*models.Shipment, error) {
	sh, err := s.MemoryStore.GetShipment(ctx, id)
	if f := s.onRead; f != nil {
		s.onRead = nil
		f()
	}
	return sh, err
}

func TestTripWritesLoseToConcurrentInvoice(t *testing.T) {
	ctx := context.Background()
	store := newInvoiceFixture(t, 0)
	seedBilledShipment(t, store, "s1", models.ShipmentOwn, "client-1", 1000)
	seedBilledShipment(t, store, "s2", models.ShipmentOwn, "client-1", 1000)

	racing := &invoicedAfterRead{MemoryStore: store}
	svc := NewShipmentService(racing, store, NewNumberer(store), zap.NewNop())
	svc.now = func() time.Time { return testNow }
	invoices := newInvoiceService(store)

	for _, id := range []string{"s1", "s2"} {
		_, err := svc.SaveTripDetails(ctx, testSess, id, ratedTrip(50, 1000), TripInput{}, nil, nil)
		require.NoError(t, err)
	}

	invoiced := map[string]string{}
	invoiceOnRead := func(id string) func() {
		return func() {
			inv, err := invoices.GenerateInvoice(ctx, testSess, []string{id}, false)
			require.NoError(t, err)
			invoiced[id] = inv.ID
		}
	}

	racing.onRead = invoiceOnRead("s1")
	_, err := svc.SaveTripDetails(ctx, testSess, "s1", ratedTrip(60, 1200), TripInput{},
		[]models.GenericExpense{{Type: models.ExpenseVehicleWork, Amount: 500}}, nil)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Empty(t, store.VehiclePayments())

	racing.onRead = invoiceOnRead("s2")
	in := validShipmentInput()
	in.Packages = 15
	_, err = svc.UpdateShipment(ctx, testSess, "s2", in)
	require.ErrorAs(t, err, &conflict)

	for _, id := range []string{"s1", "s2"} {
		got, err := store.GetShipment(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.StatusInvoiced, got.Status)
		assert.Equal(t, invoiced[id], got.InvoiceID)
		assert.Equal(t, 1000.0, got.Trip.BillingAmount)
		assert.Equal(t, 20.0, got.Weight)

		_, err = invoices.GenerateInvoice(ctx, testSess, []string{id}, false)
		require.ErrorAs(t, err, &conflict)
	}

	party, err := store.GetParty(ctx, models.PartyClient, "client-1")
	require.NoError(t, err)
	assert.Equal(t, 2360.0, party.Outstanding)
}

func TestDeleteShipment(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := newShipmentService(store)

	created, err := svc.CreateShipment(ctx, testSess, validShipmentInput())
	require.NoError(t, err)
	_, err = svc.SaveTripDetails(ctx, testSess, created.ID, ratedTrip(1000, 20000), TripInput{},
		[]models.GenericExpense{{Type: models.ExpenseVehicleWork, Amount: 750}}, nil)
	require.NoError(t, err)
	require.Len(t, store.VehiclePayments(), 1)

	require.NoError(t, svc.DeleteShipment(ctx, testSess, created.ID))

	_, err = svc.ReadShipment(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, store.VehiclePayments())

	assert.ErrorIs(t, svc.DeleteShipment(ctx, testSess, created.ID), ErrNotFound)
}

func TestDeleteInvoicedShipmentIsRejected(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := newShipmentService(store)

	seedInvoicedShipment(t, store, "s1", "inv-1", 20000)

	var conflict *ConflictError
	require.ErrorAs(t, svc.DeleteShipment(ctx, testSess, "s1"), &conflict)

	_, err := svc.ReadShipment(ctx, "s1")
	assert.NoError(t, err)
}

func TestNextLRNumber(t *testing.T) {
	svc := newShipmentService(repository.NewMemoryStore())

	n, err := svc.NextLRNumber(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, "LR20260315001", n)
}
