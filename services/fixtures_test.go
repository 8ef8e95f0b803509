package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lorryledger/models"
	"lorryledger/repository"
)

var (
	testNow  = time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)
	testSess = Session{UserID: "user-1", CompanyID: "company-1"}
)

func newShipmentService(store *repository.MemoryStore) *ShipmentService {
	svc := NewShipmentService(store, store, NewNumberer(store), zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func newInvoiceService(store *repository.MemoryStore) *InvoiceService {
	svc := NewInvoiceService(store, store, store, store, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func validShipmentInput() ShipmentInput {
	return ShipmentInput{
		Date:          time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		LRNumber:      "LR20260314001",
		Type:          models.ShipmentOwn,
		TruckID:       "truck-1",
		DriverID:      "driver-1",
		ClientID:      "client-1",
		ClientName:    "Shree Cement",
		ConsignorID:   "consignor-1",
		ConsignorName: "Shree Cement Plant",
		ConsigneeID:   "consignee-1",
		ConsigneeName: "Jaipur Depot",
		Route:         RouteInput{From: "Beawar", To: "Jaipur", Distance: 190},
		Item:          "Cement",
		Packages:      10,
		UnitWeight:    2,
	}
}

func seedVehicle(t *testing.T, store *repository.MemoryStore, id string, average, fuel float64) {
	t.Helper()
	require.NoError(t, store.SaveVehicle(context.Background(), &models.Vehicle{
		ID: id, Number: "RJ14 GA 1234", Average: average, FuelBalance: fuel,
	}))
}

func seedParty(t *testing.T, store *repository.MemoryStore, kind models.PartyKind, id string, outstanding float64) {
	t.Helper()
	require.NoError(t, store.SaveParty(context.Background(), &models.Party{
		ID: id, Kind: kind, Name: "party " + id, Outstanding: outstanding,
	}))
}

func seedCompany(t *testing.T, store *repository.MemoryStore, bank models.BankDetails) {
	t.Helper()
	require.NoError(t, store.SaveCompany(context.Background(), &models.CompanyProfile{
		CompanyName: "Hariom Transport",
		GSTIN:       "08ABCDE1234F1Z5",
		Bank:        bank,
	}))
}

func completeBank() models.BankDetails {
	return models.BankDetails{
		AccountName:   "Hariom Transport",
		BankName:      "State Bank of India",
		AccountNumber: "12345678901",
		IFSC:          "SBIN0001234",
	}
}

// seedBilledShipment stores an active shipment whose trip is already rated.
func seedBilledShipment(t *testing.T, store *repository.MemoryStore, id string, typ models.ShipmentType, clientID string, amount float64) *models.Shipment {
	t.Helper()
	s := billedShipment(id, typ, clientID, amount)
	require.NoError(t, store.CreateShipment(context.Background(), s))
	return s
}

// seedInvoicedShipment stores a rated shipment already carried by invoiceID.
func seedInvoicedShipment(t *testing.T, store *repository.MemoryStore, id, invoiceID string, amount float64) *models.Shipment {
	t.Helper()
	s := billedShipment(id, models.ShipmentOwn, "client-1", amount)
	s.Trip.BillingRate = amount / s.Weight
	s.Status = models.StatusInvoiced
	s.InvoiceID = invoiceID
	require.NoError(t, store.CreateShipment(context.Background(), s))
	return s
}

func billedShipment(id string, typ models.ShipmentType, clientID string, amount float64) *models.Shipment {
	s := &models.Shipment{
		ID:        id,
		Date:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		LRNumber:  "LR-" + id,
		Type:      typ,
		TruckID:   "truck-1",
		Client:    models.PartyRef{ID: clientID, Name: "client " + clientID},
		Consignor: models.PartyRef{ID: "cn-1", Name: "Consignor"},
		Consignee: models.PartyRef{ID: "ce-1", Name: "Consignee"},
		Route:     models.Route{From: "Beawar", To: "Jaipur"},
		Weight:    20,
		Status:    models.StatusActive,
		Trip:      models.TripLedger{BillingAmount: amount},
	}
	if typ == models.ShipmentMarketCompany {
		s.Transporter = models.PartyRef{ID: "transporter-1", Name: "Marudhar Roadways"}
	}
	return s
}
