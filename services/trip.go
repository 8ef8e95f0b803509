package services

import (
	"math"

	"lorryledger/models"
	"lorryledger/utils"
)

// DefaultTaxPercent applies to CGST and SGST when a trip save does not say otherwise.
const DefaultTaxPercent = 9.0

// AggregateExpenses sums entries into their category buckets. Entries whose
// type is not a known category are skipped; callers validate first.
func AggregateExpenses(entries []models.GenericExpense) models.ExpenseTotals {
	var totals models.ExpenseTotals
	for _, e := range entries {
		if bucket := totals.Bucket(e.Type); bucket != nil {
			*bucket = utils.Sum(*bucket, e.Amount)
		}
	}
	return totals
}

func sumExpenses(entries []models.GenericExpense) float64 {
	amounts := make([]float64, len(entries))
	for i, e := range entries {
		amounts[i] = e.Amount
	}
	return utils.Sum(amounts...)
}

// TotalKm never goes negative, whatever order the odometer readings came in.
func TotalKm(startingOdometer, endingOdometer float64) float64 {
	return math.Max(0, endingOdometer-startingOdometer)
}

// FuelUsed converts distance to liters using the vehicle's km/l average.
func FuelUsed(totalKm, average float64) float64 {
	return utils.Div(totalKm, average)
}

func RateFromAmount(amount, weight float64) float64 {
	return utils.Div(amount, weight)
}

func AmountFromRate(rate, weight float64) float64 {
	if weight <= 0 {
		return 0
	}
	return utils.Mul(rate, weight)
}

// syncRate keeps amount = rate * weight, deriving whichever side did not
// change from the one that did.
func syncRate(prevRate, prevAmount, rate, amount, weight float64) (float64, float64) {
	switch {
	case amount != prevAmount:
		return RateFromAmount(amount, weight), amount
	case rate != prevRate:
		return rate, AmountFromRate(rate, weight)
	}
	return rate, amount
}

// ComputeTotals recomputes every derived field of t from its inputs.
// otherLegExpenses are the generic expenses of the sibling leg, which count
// towards the loaded leg's total expenses.
func ComputeTotals(t *models.TripLedger, otherLegExpenses []models.GenericExpense) {
	t.TotalKm = TotalKm(t.StartingOdometer, t.EndingOdometer)
	t.Expenses = AggregateExpenses(t.GenericExpenses)

	t.CGSTAmount = utils.Percent(t.BillingAmount, t.CGSTPercent)
	t.SGSTAmount = utils.Percent(t.BillingAmount, t.SGSTPercent)
	t.TotalBillingAmount = utils.Sum(t.BillingAmount, t.CGSTAmount, t.SGSTAmount)

	t.TotalExpenses = utils.Sum(sumExpenses(t.GenericExpenses), sumExpenses(otherLegExpenses), t.Advance)
	t.DriverPayable = utils.Sum(t.FreightAmount, -t.Advance)

	// Shortage is in kg against a per-tonne rate.
	shortageCharge := utils.Mul(t.Shortage/1000, t.BillingRate)
	t.ClientBalance = utils.Sum(t.BillingAmount, -t.Advance, -shortageCharge)
}

// IsCompleted reports whether trip details have been entered for s. It is a
// data-entry flag and independent of s.Status.
func IsCompleted(s *models.Shipment) bool {
	return s.Trip.Expenses.Any() || len(s.Trip.GenericExpenses) > 0
}
