package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"lorryledger/models"
	"lorryledger/repository"
	"lorryledger/utils"
)

type RouteInput struct {
	From     string  `json:"from" validate:"required"`
	To       string  `json:"to" validate:"required"`
	Distance float64 `json:"distance" validate:"gte=0"`
}

// ShipmentInput is the editable part of a shipment. Driver, packages and
// weight are optional.
type ShipmentInput struct {
	Date            time.Time           `json:"date" validate:"required"`
	LRNumber        string              `json:"lr_number" validate:"required"`
	Type            models.ShipmentType `json:"type" validate:"required,oneof=own market market_company"`
	TruckID         string              `json:"truck_id" validate:"required"`
	DriverID        string              `json:"driver_id"`
	ClientID        string              `json:"client_id" validate:"required"`
	ClientName      string              `json:"client_name"`
	ConsignorID     string              `json:"consignor_id"`
	ConsignorName   string              `json:"consignor_name"`
	ConsigneeID     string              `json:"consignee_id"`
	ConsigneeName   string              `json:"consignee_name"`
	TransporterID   string              `json:"transporter_id" validate:"required_if=Type market_company"`
	TransporterName string              `json:"transporter_name"`
	Route           RouteInput          `json:"route"`
	Item            string              `json:"item" validate:"required"`
	Packages        int                 `json:"packages" validate:"gte=0"`
	UnitWeight      float64             `json:"unit_weight" validate:"gte=0"`
	// Weight overrides Packages x UnitWeight when set.
	Weight *float64 `json:"weight,omitempty" validate:"omitempty,gte=0"`
}

func (in ShipmentInput) weight() float64 {
	if in.Weight != nil {
		return *in.Weight
	}
	return utils.Mul(float64(in.Packages), in.UnitWeight)
}

// TripInput carries the hand-entered figures of one trip leg. A nil tax
// percentage means DefaultTaxPercent.
type TripInput struct {
	BillingRate      float64  `json:"billing_rate"`
	BillingAmount    float64  `json:"billing_amount"`
	FreightRate      float64  `json:"freight_rate"`
	FreightAmount    float64  `json:"freight_amount"`
	Advance          float64  `json:"advance"`
	Shortage         float64  `json:"shortage"`
	StartingOdometer float64  `json:"starting_odometer"`
	EndingOdometer   float64  `json:"ending_odometer"`
	CGSTPercent      *float64 `json:"cgst_percent,omitempty"`
	SGSTPercent      *float64 `json:"sgst_percent,omitempty"`
}

// ShipmentService is the LR record manager.
type ShipmentService struct {
	Shipments repository.ShipmentRepository
	Vehicles  repository.VehicleRepository
	Numbers   *Numberer
	Logger    *zap.Logger

	validate *validator.Validate
	now      func() time.Time
}

func NewShipmentService(
	shipments repository.ShipmentRepository,
	vehicles repository.VehicleRepository,
	numbers *Numberer,
	logger *zap.Logger,
) *ShipmentService {
	return &ShipmentService{
		Shipments: shipments,
		Vehicles:  vehicles,
		Numbers:   numbers,
		Logger:    logger,
		validate:  newValidator(),
		now:       time.Now,
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *ShipmentService) validateInput(in ShipmentInput) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		// Namespace is "ShipmentInput.route.from"; drop the type name.
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		verr.Add(field, validationMessage(fe))
	}
	return verr
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	}
	return "is invalid"
}

func applyInput(sh *models.Shipment, in ShipmentInput) {
	sh.Date = in.Date
	sh.LRNumber = strings.TrimSpace(in.LRNumber)
	sh.Type = in.Type
	sh.TruckID = in.TruckID
	sh.DriverID = in.DriverID
	sh.Client = models.PartyRef{ID: in.ClientID, Name: in.ClientName}
	sh.Consignor = models.PartyRef{ID: in.ConsignorID, Name: in.ConsignorName}
	sh.Consignee = models.PartyRef{ID: in.ConsigneeID, Name: in.ConsigneeName}
	sh.Transporter = models.PartyRef{ID: in.TransporterID, Name: in.TransporterName}
	sh.Route = models.Route{From: in.Route.From, To: in.Route.To, Distance: in.Route.Distance}
	sh.Item = in.Item
	sh.Packages = in.Packages
	sh.UnitWeight = in.UnitWeight
	sh.Weight = in.weight()
}

// NextLRNumber suggests the next LR number for date.
func (s *ShipmentService) NextLRNumber(ctx context.Context, date time.Time) (string, error) {
	return s.Numbers.Next(ctx, DocLR, date)
}

// CreateShipment validates in and stores a new active shipment with
// zeroed trip ledgers.
func (s *ShipmentService) CreateShipment(ctx context.Context, sess Session, in ShipmentInput) (*models.Shipment, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	sh := &models.Shipment{
		Status:    models.StatusActive,
		CreatedBy: sess.UserID,
		CreatedAt: s.now().UTC(),
	}
	applyInput(sh, in)

	if err := s.Shipments.CreateShipment(ctx, sh); err != nil {
		return nil, storeErr("create shipment", err)
	}
	s.Logger.Info("shipment created",
		zap.String("id", sh.ID), zap.String("lr_number", sh.LRNumber), zap.String("user", sess.UserID))
	return sh, nil
}

func (s *ShipmentService) ReadShipment(ctx context.Context, id string) (*models.Shipment, error) {
	sh, err := s.Shipments.GetShipment(ctx, id)
	if err != nil {
		return nil, storeErr("read shipment "+id, err)
	}
	return sh, nil
}

// UpdateShipment rewrites the descriptive fields. When the weight changes
// on an already rated active shipment the amounts are re-derived from the
// stored rates; expense entries and tax percentages are kept.
func (s *ShipmentService) UpdateShipment(ctx context.Context, sess Session, id string, in ShipmentInput) (*models.Shipment, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}
	sh, err := s.Shipments.GetShipment(ctx, id)
	if err != nil {
		return nil, storeErr("read shipment "+id, err)
	}

	oldWeight := sh.Weight
	applyInput(sh, in)

	if sh.Status == models.StatusActive && sh.Weight != oldWeight && sh.Trip.BillingRate != 0 {
		rerate(sh)
		if err := s.saveTrip(ctx, sh); err != nil {
			return nil, err
		}
		s.Logger.Info("shipment re-rated for new weight",
			zap.String("id", id), zap.Float64("old_weight", oldWeight), zap.Float64("weight", sh.Weight))
	}

	if err := s.Shipments.UpdateShipment(ctx, sh); err != nil {
		return nil, storeErr("update shipment "+id, err)
	}
	s.Logger.Info("shipment updated", zap.String("id", id), zap.String("user", sess.UserID))
	return sh, nil
}

func rerate(sh *models.Shipment) {
	sh.Trip.BillingAmount = AmountFromRate(sh.Trip.BillingRate, sh.Weight)
	if sh.Trip.FreightRate != 0 {
		sh.Trip.FreightAmount = AmountFromRate(sh.Trip.FreightRate, sh.Weight)
	}
	ComputeTotals(&sh.Trip, sh.EmptyTrip.GenericExpenses)
}

func validateExpenses(verr *ValidationError, field string, entries []models.GenericExpense) {
	for i, e := range entries {
		if !e.Type.Valid() {
			verr.Add(fmt.Sprintf("%s[%d].type", field, i), fmt.Sprintf("unknown expense category %q", e.Type))
		}
		if e.Amount < 0 {
			verr.Add(fmt.Sprintf("%s[%d].amount", field, i), "must be at least 0")
		}
	}
}

func taxPercent(p *float64) float64 {
	if p == nil {
		return DefaultTaxPercent
	}
	return *p
}

func applyTrip(prev models.TripLedger, in TripInput, weight float64, expenses []models.GenericExpense) models.TripLedger {
	t := prev
	t.BillingRate, t.BillingAmount = syncRate(prev.BillingRate, prev.BillingAmount, in.BillingRate, in.BillingAmount, weight)
	t.FreightRate, t.FreightAmount = syncRate(prev.FreightRate, prev.FreightAmount, in.FreightRate, in.FreightAmount, weight)
	t.Advance = in.Advance
	t.Shortage = in.Shortage
	t.StartingOdometer = in.StartingOdometer
	t.EndingOdometer = in.EndingOdometer
	t.CGSTPercent = taxPercent(in.CGSTPercent)
	t.SGSTPercent = taxPercent(in.SGSTPercent)
	t.GenericExpenses = append([]models.GenericExpense(nil), expenses...)
	return t
}

// SaveTripDetails stores both trip legs with recomputed totals, then
// deducts the trip's fuel from the vehicle (once per shipment) and keeps
// the vehicle-work payment in step with the Vehicle Work total.
func (s *ShipmentService) SaveTripDetails(
	ctx context.Context,
	sess Session,
	id string,
	trip, emptyTrip TripInput,
	expenses, emptyTripExpenses []models.GenericExpense,
) (*models.Shipment, error) {
	verr := &ValidationError{}
	validateExpenses(verr, "generic_expenses", expenses)
	validateExpenses(verr, "empty_trip_generic_expenses", emptyTripExpenses)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	sh, err := s.Shipments.GetShipment(ctx, id)
	if err != nil {
		return nil, storeErr("read shipment "+id, err)
	}
	if sh.Status == models.StatusInvoiced {
		return nil, conflictf("shipment %s is already invoiced", sh.LRNumber)
	}

	vehicle, err := s.Vehicles.GetVehicle(ctx, sh.TruckID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, storeErr("read vehicle "+sh.TruckID, err)
	}

	sh.Trip = applyTrip(sh.Trip, trip, sh.Weight, expenses)
	sh.EmptyTrip = applyTrip(sh.EmptyTrip, emptyTrip, sh.Weight, emptyTripExpenses)
	ComputeTotals(&sh.Trip, sh.EmptyTrip.GenericExpenses)
	ComputeTotals(&sh.EmptyTrip, nil)
	if vehicle != nil {
		sh.Trip.FuelUsed = FuelUsed(sh.Trip.TotalKm, vehicle.Average)
		sh.EmptyTrip.FuelUsed = FuelUsed(sh.EmptyTrip.TotalKm, vehicle.Average)
	} else {
		sh.Trip.FuelUsed, sh.EmptyTrip.FuelUsed = 0, 0
	}

	if err := s.saveTrip(ctx, sh); err != nil {
		return nil, err
	}

	if err := s.deductFuel(ctx, sh, vehicle); err != nil {
		return nil, err
	}
	if err := s.syncVehicleWorkPayment(ctx, sh); err != nil {
		return nil, err
	}

	s.Logger.Info("trip details saved", zap.String("id", id), zap.String("user", sess.UserID))
	return sh, nil
}

// saveTrip writes sh's ledgers unless an invoice took the shipment after it was read.
func (s *ShipmentService) saveTrip(ctx context.Context, sh *models.Shipment) error {
	err := s.Shipments.SaveTrip(ctx, sh.ID, sh.Trip, sh.EmptyTrip)
	if errors.Is(err, repository.ErrShipmentNotActive) {
		return conflictf("shipment %s is already invoiced", sh.LRNumber)
	}
	if err != nil {
		return storeErr("save trip details "+sh.ID, err)
	}
	return nil
}

func (s *ShipmentService) deductFuel(ctx context.Context, sh *models.Shipment, vehicle *models.Vehicle) error {
	liters := utils.Sum(sh.Trip.FuelUsed, sh.EmptyTrip.FuelUsed)
	if vehicle == nil || sh.Type != models.ShipmentOwn || liters <= 0 || sh.FuelAlreadyDeducted {
		return nil
	}
	deducted, err := s.Shipments.DeductFuelOnce(ctx, sh.ID, vehicle.ID, liters)
	if err != nil {
		return storeErr("deduct fuel", err)
	}
	if deducted {
		sh.FuelAlreadyDeducted = true
		s.Logger.Info("fuel deducted",
			zap.String("shipment", sh.ID), zap.String("vehicle", vehicle.ID), zap.Float64("liters", liters))
	}
	return nil
}

func (s *ShipmentService) syncVehicleWorkPayment(ctx context.Context, sh *models.Shipment) error {
	amount := utils.Sum(sh.Trip.Expenses.VehicleWorkAmount, sh.EmptyTrip.Expenses.VehicleWorkAmount)

	existing, err := s.Vehicles.GetVehiclePayment(ctx, sh.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return storeErr("read vehicle payment", err)
	}

	if amount <= 0 {
		if existing == nil {
			return nil
		}
		if err := s.Vehicles.DeleteVehiclePayment(ctx, sh.ID); err != nil {
			return storeErr("remove vehicle payment", err)
		}
		return nil
	}

	p := &models.VehiclePayment{
		ShipmentID: sh.ID,
		VehicleID:  sh.TruckID,
		Type:       models.PaymentVehicleWork,
		Amount:     amount,
		Date:       sh.Date,
		Note:       "Vehicle work for LR " + sh.LRNumber,
	}
	if existing != nil {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	}
	if err := s.Vehicles.UpsertVehiclePayment(ctx, p); err != nil {
		return storeErr("save vehicle payment", err)
	}
	return nil
}

// DeleteShipment removes a shipment and its vehicle-work payment. Invoiced
// shipments are referenced by an invoice and cannot be deleted.
func (s *ShipmentService) DeleteShipment(ctx context.Context, sess Session, id string) error {
	sh, err := s.Shipments.GetShipment(ctx, id)
	if err != nil {
		return storeErr("read shipment "+id, err)
	}
	if sh.Status == models.StatusInvoiced {
		return conflictf("shipment %s is on invoice %s and cannot be deleted", sh.LRNumber, sh.InvoiceID)
	}
	if err := s.Vehicles.DeleteVehiclePayment(ctx, id); err != nil {
		return storeErr("remove vehicle payment", err)
	}
	if err := s.Shipments.DeleteShipment(ctx, id); err != nil {
		return storeErr("delete shipment "+id, err)
	}
	s.Logger.Info("shipment deleted", zap.String("id", id), zap.String("user", sess.UserID))
	return nil
}
