package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"lorryledger/models"
	"lorryledger/repository"
	"lorryledger/utils"
)

// Invoices always carry 9% CGST and 9% SGST.
const (
	InvoiceCGSTPercent = 9.0
	InvoiceSGSTPercent = 9.0
)

// paidTolerance absorbs paise rounding when comparing credit to the grand total.
const paidTolerance = 0.01

type InvoiceService struct {
	Shipments repository.ShipmentRepository
	Invoices  repository.InvoiceRepository
	Parties   repository.PartyRepository
	Company   repository.CompanyRepository
	Logger    *zap.Logger

	now func() time.Time
}

func NewInvoiceService(
	shipments repository.ShipmentRepository,
	invoices repository.InvoiceRepository,
	parties repository.PartyRepository,
	company repository.CompanyRepository,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		Shipments: shipments,
		Invoices:  invoices,
		Parties:   parties,
		Company:   company,
		Logger:    logger,
		now:       time.Now,
	}
}

// ApplyCredit works out how much of grandTotal an outstanding credit
// (a negative outstanding) already pays.
func ApplyCredit(outstanding, grandTotal float64) (float64, models.PaymentStatus) {
	paid := 0.0
	if outstanding < 0 {
		paid = utils.Round2(math.Min(-outstanding, grandTotal))
	}
	switch {
	case paid > 0 && math.Abs(paid-grandTotal) <= paidTolerance:
		return paid, models.PaymentPaid
	case paid > 0:
		return paid, models.PaymentPartial
	}
	return 0, models.PaymentPending
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func typeLabel(isMarket bool) string {
	if isMarket {
		return "market"
	}
	return "own"
}

// GenerateInvoice bills the given shipments to their common party. Every
// check runs before the single atomic write, so a rejected call changes
// nothing.
func (s *InvoiceService) GenerateInvoice(ctx context.Context, sess Session, shipmentIDs []string, isMarket bool) (*models.Invoice, error) {
	ids := dedupe(shipmentIDs)
	if len(ids) == 0 {
		verr := &ValidationError{}
		verr.Add("shipment_ids", "select at least one shipment")
		return nil, verr
	}

	company, err := s.Company.GetCompany(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &PreconditionError{Message: "company profile is not set up"}
	}
	if err != nil {
		return nil, storeErr("read company profile", err)
	}
	if missing := company.Bank.MissingFields(); len(missing) > 0 {
		return nil, &PreconditionError{Message: "bank details missing: " + strings.Join(missing, ", ")}
	}

	shipments, err := s.Shipments.GetShipments(ctx, ids)
	if err != nil {
		return nil, storeErr("read shipments", err)
	}

	var (
		kind  models.PartyKind
		party models.PartyRef
		first *models.Shipment
	)
	for _, sh := range shipments {
		if sh.Status == models.StatusInvoiced {
			return nil, conflictf("LR %s is already on invoice %s", sh.LRNumber, sh.InvoiceID)
		}
		if sh.Trip.BillingAmount <= 0 {
			return nil, conflictf("LR %s has no billing amount; complete its trip details first", sh.LRNumber)
		}
		if sh.Type.IsMarket() != isMarket {
			return nil, conflictf("LR %s is a %s shipment and cannot go on a %s invoice",
				sh.LRNumber, typeLabel(sh.Type.IsMarket()), typeLabel(isMarket))
		}

		k, ref := sh.BillingParty()
		if ref.ID == "" {
			return nil, conflictf("LR %s has no %s to bill", sh.LRNumber, k)
		}
		if first == nil {
			kind, party, first = k, ref, sh
			continue
		}
		if k != kind || ref.ID != party.ID {
			return nil, conflictf("LR %s is billed to %s %q but LR %s is billed to %s %q",
				first.LRNumber, kind, party.Name, sh.LRNumber, k, ref.Name)
		}
	}

	inv := &models.Invoice{
		InvoiceType: models.InvoiceClient,
		Party:       party,
		Company:     *company,
		ShipmentIDs: ids,
		CGSTPercent: InvoiceCGSTPercent,
		SGSTPercent: InvoiceSGSTPercent,
		CreatedBy:   sess.UserID,
		CreatedAt:   s.now().UTC(),
	}
	if kind == models.PartyTransporter {
		inv.InvoiceType = models.InvoiceTransporter
	}

	amounts := make([]float64, len(shipments))
	for i, sh := range shipments {
		amounts[i] = sh.Trip.BillingAmount
		inv.Items = append(inv.Items, models.InvoiceLineItem{
			ShipmentID: sh.ID,
			Date:       sh.Date,
			LRNumber:   sh.LRNumber,
			TruckID:    sh.TruckID,
			From:       sh.Route.From,
			To:         sh.Route.To,
			Consignor:  sh.Consignor.Name,
			Consignee:  sh.Consignee.Name,
			Weight:     sh.Weight,
			Amount:     sh.Trip.BillingAmount,
		})
	}
	inv.Subtotal = utils.Sum(amounts...)
	inv.CGSTAmount = utils.Percent(inv.Subtotal, inv.CGSTPercent)
	inv.SGSTAmount = utils.Percent(inv.Subtotal, inv.SGSTPercent)
	inv.GrandTotal = utils.Sum(inv.Subtotal, inv.CGSTAmount, inv.SGSTAmount)
	inv.AmountInWords = utils.AmountInWords(inv.GrandTotal)

	p, err := s.Parties.GetParty(ctx, kind, party.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &PreconditionError{Message: "no ledger account for " + string(kind) + " " + party.Name}
	}
	if err != nil {
		return nil, storeErr("read party", err)
	}
	inv.PaidAmount, inv.PaymentStatus = ApplyCredit(p.Outstanding, inv.GrandTotal)

	// The number is drawn inside the commit, so a rejected commit leaves no gap.
	if err := s.Invoices.CreateInvoice(ctx, inv, NewDocumentNumber(DocInvoice, inv.CreatedAt)); err != nil {
		if errors.Is(err, repository.ErrShipmentNotActive) {
			return nil, conflictf("a selected shipment was invoiced in the meantime")
		}
		return nil, storeErr("create invoice", err)
	}

	s.Logger.Info("invoice generated",
		zap.String("id", inv.ID),
		zap.String("number", inv.InvoiceNumber),
		zap.String("party", party.ID),
		zap.Int("shipments", len(ids)),
		zap.Float64("grand_total", inv.GrandTotal),
		zap.String("payment_status", string(inv.PaymentStatus)),
		zap.String("user", sess.UserID),
	)
	return inv, nil
}

func (s *InvoiceService) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	inv, err := s.Invoices.GetInvoice(ctx, id)
	if err != nil {
		return nil, storeErr("read invoice "+id, err)
	}
	return inv, nil
}
