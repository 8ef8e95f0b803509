package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"lorryledger/models"
)

// MemoryStore keeps every collection in process. It implements all the
// repository interfaces and is used for DB_TYPE=memory and in tests.
// Multi-record writes happen under one lock, so they are atomic.
type MemoryStore struct {
	mu sync.RWMutex

	shipments map[string]*models.Shipment
	invoices  map[string]*models.Invoice
	parties   map[string]*models.Party
	vehicles  map[string]*models.Vehicle
	payments  map[string]*models.VehiclePayment // by shipment ID
	company   *models.CompanyProfile
	sequences map[string]int64

	// Writes counts successful mutations; tests use it to prove a rejected
	// operation wrote nothing.
	Writes int
}

var (
	_ ShipmentRepository = (*MemoryStore)(nil)
	_ InvoiceRepository  = (*MemoryStore)(nil)
	_ PartyRepository    = (*MemoryStore)(nil)
	_ VehicleRepository  = (*MemoryStore)(nil)
	_ CompanyRepository  = (*MemoryStore)(nil)
	_ SequenceRepository = (*MemoryStore)(nil)
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		shipments: make(map[string]*models.Shipment),
		invoices:  make(map[string]*models.Invoice),
		parties:   make(map[string]*models.Party),
		vehicles:  make(map[string]*models.Vehicle),
		payments:  make(map[string]*models.VehiclePayment),
		sequences: make(map[string]int64),
	}
}

func cloneShipment(s *models.Shipment) *models.Shipment {
	c := *s
	c.Trip.GenericExpenses = append([]models.GenericExpense(nil), s.Trip.GenericExpenses...)
	c.EmptyTrip.GenericExpenses = append([]models.GenericExpense(nil), s.EmptyTrip.GenericExpenses...)
	if s.UpdatedAt != nil {
		t := *s.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}

func cloneInvoice(inv *models.Invoice) *models.Invoice {
	c := *inv
	c.Items = append([]models.InvoiceLineItem(nil), inv.Items...)
	c.ShipmentIDs = append([]string(nil), inv.ShipmentIDs...)
	c.Company.Mobile = append([]models.MobileEntry(nil), inv.Company.Mobile...)
	return &c
}

func partyKey(kind models.PartyKind, id string) string {
	return string(kind) + "/" + id
}

// ==================== Shipments ====================

func (m *MemoryStore) CreateShipment(_ context.Context, s *models.Shipment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.ID == "" {
		s.ID = NewKey()
	}
	if _, exists := m.shipments[s.ID]; exists {
		return fmt.Errorf("shipment %s already exists", s.ID)
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	m.shipments[s.ID] = cloneShipment(s)
	m.Writes++
	return nil
}

func (m *MemoryStore) GetShipment(_ context.Context, id string) (*models.Shipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.shipments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneShipment(s), nil
}

func (m *MemoryStore) GetShipments(_ context.Context, ids []string) ([]*models.Shipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.Shipment, 0, len(ids))
	for _, id := range ids {
		s, ok := m.shipments[id]
		if !ok {
			return nil, fmt.Errorf("shipment %s: %w", id, ErrNotFound)
		}
		out = append(out, cloneShipment(s))
	}
	return out, nil
}

func (m *MemoryStore) UpdateShipment(_ context.Context, s *models.Shipment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.shipments[s.ID]
	if !ok {
		return ErrNotFound
	}
	now := time.Now().UTC()
	s.UpdatedAt = &now

	c := cloneShipment(existing)
	c.Date = s.Date
	c.LRNumber = s.LRNumber
	c.Type = s.Type
	c.TruckID = s.TruckID
	c.DriverID = s.DriverID
	c.Client = s.Client
	c.Consignor = s.Consignor
	c.Consignee = s.Consignee
	c.Transporter = s.Transporter
	c.Route = s.Route
	c.Item = s.Item
	c.Packages = s.Packages
	c.UnitWeight = s.UnitWeight
	c.Weight = s.Weight
	c.UpdatedAt = &now
	m.shipments[s.ID] = c
	m.Writes++
	return nil
}

func (m *MemoryStore) SaveTrip(_ context.Context, id string, trip, emptyTrip models.TripLedger) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.shipments[id]
	if !ok {
		return ErrNotFound
	}
	if s.Status == models.StatusInvoiced {
		return ErrShipmentNotActive
	}
	now := time.Now().UTC()
	s.Trip = trip
	s.Trip.GenericExpenses = append([]models.GenericExpense(nil), trip.GenericExpenses...)
	s.EmptyTrip = emptyTrip
	s.EmptyTrip.GenericExpenses = append([]models.GenericExpense(nil), emptyTrip.GenericExpenses...)
	s.UpdatedAt = &now
	m.Writes++
	return nil
}

func (m *MemoryStore) DeleteShipment(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.shipments[id]; !ok {
		return ErrNotFound
	}
	delete(m.shipments, id)
	m.Writes++
	return nil
}

func (m *MemoryStore) ListShipments(_ context.Context, endAt string, limit int) ([]*models.Shipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.shipments))
	for k := range m.shipments {
		if endAt == "" || k <= endAt {
			keys = append(keys, k)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}

	out := make([]*models.Shipment, len(keys))
	for i, k := range keys {
		out[i] = cloneShipment(m.shipments[k])
	}
	return out, nil
}

func (m *MemoryStore) DeductFuelOnce(_ context.Context, shipmentID, vehicleID string, liters float64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.shipments[shipmentID]
	if !ok {
		return false, ErrNotFound
	}
	if s.FuelAlreadyDeducted {
		return false, nil
	}
	v, ok := m.vehicles[vehicleID]
	if !ok {
		return false, fmt.Errorf("vehicle %s: %w", vehicleID, ErrNotFound)
	}
	s.FuelAlreadyDeducted = true
	v.FuelBalance -= liters
	m.Writes++
	return true, nil
}

// ==================== Invoices ====================

func (m *MemoryStore) CreateInvoice(_ context.Context, inv *models.Invoice, num DocumentNumber) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Check everything before the first write.
	for _, id := range inv.ShipmentIDs {
		s, ok := m.shipments[id]
		if !ok {
			return fmt.Errorf("shipment %s: %w", id, ErrNotFound)
		}
		if s.Status != models.StatusActive {
			return ErrShipmentNotActive
		}
	}
	party, ok := m.parties[partyKey(partyKindOf(inv.InvoiceType), inv.Party.ID)]
	if !ok {
		return fmt.Errorf("party %s: %w", inv.Party.ID, ErrNotFound)
	}

	if inv.ID == "" {
		inv.ID = NewKey()
	}
	seqKey := num.DocType + ":" + num.DatePrefix
	m.sequences[seqKey]++
	inv.InvoiceNumber = num.Format(m.sequences[seqKey])
	m.invoices[inv.ID] = cloneInvoice(inv)
	for _, id := range inv.ShipmentIDs {
		s := m.shipments[id]
		s.Status = models.StatusInvoiced
		s.InvoiceID = inv.ID
		t := inv.CreatedAt
		s.UpdatedAt = &t
	}
	party.Outstanding += inv.GrandTotal
	m.Writes++
	return nil
}

func (m *MemoryStore) GetInvoice(_ context.Context, id string) (*models.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	inv, ok := m.invoices[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneInvoice(inv), nil
}

// ==================== Parties ====================

func (m *MemoryStore) SaveParty(_ context.Context, p *models.Party) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.ID == "" {
		p.ID = NewKey()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	key := partyKey(p.Kind, p.ID)
	c := *p
	if existing, ok := m.parties[key]; ok {
		c.Outstanding = existing.Outstanding
	}
	m.parties[key] = &c
	m.Writes++
	return nil
}

func (m *MemoryStore) GetParty(_ context.Context, kind models.PartyKind, id string) (*models.Party, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.parties[partyKey(kind, id)]
	if !ok {
		return nil, ErrNotFound
	}
	c := *p
	return &c, nil
}

// ==================== Vehicles ====================

func (m *MemoryStore) SaveVehicle(_ context.Context, v *models.Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v.ID == "" {
		v.ID = NewKey()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	c := *v
	if existing, ok := m.vehicles[v.ID]; ok {
		c.FuelBalance = existing.FuelBalance
	}
	m.vehicles[v.ID] = &c
	m.Writes++
	return nil
}

func (m *MemoryStore) GetVehicle(_ context.Context, id string) (*models.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.vehicles[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *v
	return &c, nil
}

func (m *MemoryStore) GetVehiclePayment(_ context.Context, shipmentID string) (*models.VehiclePayment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.payments[shipmentID]
	if !ok {
		return nil, ErrNotFound
	}
	c := *p
	return &c, nil
}

// VehiclePayments returns every recorded vehicle payment.
func (m *MemoryStore) VehiclePayments() []models.VehiclePayment {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.VehiclePayment, 0, len(m.payments))
	for _, p := range m.payments {
		out = append(out, *p)
	}
	return out
}

func (m *MemoryStore) UpsertVehiclePayment(_ context.Context, p *models.VehiclePayment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.payments[p.ShipmentID]; ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	}
	if p.ID == "" {
		p.ID = NewKey()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	c := *p
	m.payments[p.ShipmentID] = &c
	m.Writes++
	return nil
}

func (m *MemoryStore) DeleteVehiclePayment(_ context.Context, shipmentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.payments[shipmentID]; ok {
		delete(m.payments, shipmentID)
		m.Writes++
	}
	return nil
}

// ==================== Company ====================

func (m *MemoryStore) SaveCompany(_ context.Context, c *models.CompanyProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	c.ID = companyProfileID
	cp := *c
	cp.Mobile = append([]models.MobileEntry(nil), c.Mobile...)
	m.company = &cp
	m.Writes++
	return nil
}

func (m *MemoryStore) GetCompany(_ context.Context) (*models.CompanyProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.company == nil {
		return nil, ErrNotFound
	}
	c := *m.company
	c.Mobile = append([]models.MobileEntry(nil), m.company.Mobile...)
	return &c, nil
}

// ==================== Sequences ====================

func (m *MemoryStore) Next(_ context.Context, docType, datePrefix string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := docType + ":" + datePrefix
	m.sequences[key]++
	return m.sequences[key], nil
}
