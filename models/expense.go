package models

import "time"

// ExpenseCategory tags a generic expense entry. The set is closed: only the
// constants below map to a bucket in ExpenseTotals.
type ExpenseCategory string

const (
	ExpenseTyre             ExpenseCategory = "Tyre"
	ExpenseToll             ExpenseCategory = "Toll"
	ExpenseFood             ExpenseCategory = "Food"
	ExpenseLoadingUnloading ExpenseCategory = "Loading/Unloading"
	ExpensePoliceChallan    ExpenseCategory = "Police Challan"
	ExpenseTAC              ExpenseCategory = "TAC"
	ExpensePermit           ExpenseCategory = "Permit"
	ExpenseBrokerage        ExpenseCategory = "Brokerage"
	ExpenseVehicleWork      ExpenseCategory = "Vehicle Work"
	ExpenseCommission       ExpenseCategory = "Commission"
	ExpenseTirpalRope       ExpenseCategory = "Tirpal/Rope"
	ExpenseOther            ExpenseCategory = "Other"
)

var ExpenseCategories = []ExpenseCategory{
	ExpenseTyre, ExpenseToll, ExpenseFood, ExpenseLoadingUnloading,
	ExpensePoliceChallan, ExpenseTAC, ExpensePermit, ExpenseBrokerage,
	ExpenseVehicleWork, ExpenseCommission, ExpenseTirpalRope, ExpenseOther,
}

// Valid is case-sensitive: "toll" is not a category.
func (c ExpenseCategory) Valid() bool {
	for _, known := range ExpenseCategories {
		if c == known {
			return true
		}
	}
	return false
}

type GenericExpense struct {
	Type     ExpenseCategory `json:"type" bson:"type"`
	Amount   float64         `json:"amount" bson:"amount"`
	Date     time.Time       `json:"date" bson:"date"`
	Note     string          `json:"note,omitempty" bson:"note,omitempty"`
	VendorID string          `json:"vendor_id,omitempty" bson:"vendor_id,omitempty"`
}

// ExpenseTotals holds one summed bucket per ExpenseCategory.
type ExpenseTotals struct {
	TyreExpenses             float64 `json:"tyre_expenses" bson:"tyre_expenses"`
	TollExpenses             float64 `json:"toll_expenses" bson:"toll_expenses"`
	FoodExpenses             float64 `json:"food_expenses" bson:"food_expenses"`
	LoadingUnloadingExpenses float64 `json:"loading_unloading_expenses" bson:"loading_unloading_expenses"`
	PoliceChallanExpenses    float64 `json:"police_challan_expenses" bson:"police_challan_expenses"`
	TACExpenses              float64 `json:"tac_expenses" bson:"tac_expenses"`
	PermitExpenses           float64 `json:"permit_expenses" bson:"permit_expenses"`
	BrokerageExpenses        float64 `json:"brokerage_expenses" bson:"brokerage_expenses"`
	VehicleWorkAmount        float64 `json:"vehicle_work_amount" bson:"vehicle_work_amount"`
	CommissionExpenses       float64 `json:"commission_expenses" bson:"commission_expenses"`
	TirpalRopeExpenses       float64 `json:"tirpal_rope_expenses" bson:"tirpal_rope_expenses"`
	OtherExpenses            float64 `json:"other_expenses" bson:"other_expenses"`
}

// Bucket returns the field that sums entries of category c, or nil when c
// is not a known category.
func (t *ExpenseTotals) Bucket(c ExpenseCategory) *float64 {
	switch c {
	case ExpenseTyre:
		return &t.TyreExpenses
	case ExpenseToll:
		return &t.TollExpenses
	case ExpenseFood:
		return &t.FoodExpenses
	case ExpenseLoadingUnloading:
		return &t.LoadingUnloadingExpenses
	case ExpensePoliceChallan:
		return &t.PoliceChallanExpenses
	case ExpenseTAC:
		return &t.TACExpenses
	case ExpensePermit:
		return &t.PermitExpenses
	case ExpenseBrokerage:
		return &t.BrokerageExpenses
	case ExpenseVehicleWork:
		return &t.VehicleWorkAmount
	case ExpenseCommission:
		return &t.CommissionExpenses
	case ExpenseTirpalRope:
		return &t.TirpalRopeExpenses
	case ExpenseOther:
		return &t.OtherExpenses
	}
	return nil
}

// Any reports whether at least one bucket is non-zero.
func (t ExpenseTotals) Any() bool {
	for _, c := range ExpenseCategories {
		if *t.Bucket(c) != 0 {
			return true
		}
	}
	return false
}
