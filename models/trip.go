package models

// TripLedger is the financial detail of one leg of a shipment. The loaded
// leg and the empty return leg each carry one.
type TripLedger struct {
	BillingRate   float64 `json:"billing_rate" bson:"billing_rate"`
	BillingAmount float64 `json:"billing_amount" bson:"billing_amount"`
	FreightRate   float64 `json:"freight_rate" bson:"freight_rate"`
	FreightAmount float64 `json:"freight_amount" bson:"freight_amount"`
	Advance       float64 `json:"advance" bson:"advance"`
	Shortage      float64 `json:"shortage" bson:"shortage"`

	StartingOdometer float64 `json:"starting_odometer" bson:"starting_odometer"`
	EndingOdometer   float64 `json:"ending_odometer" bson:"ending_odometer"`
	TotalKm          float64 `json:"total_km" bson:"total_km"`
	FuelUsed         float64 `json:"fuel_used" bson:"fuel_used"` // liters

	GenericExpenses []GenericExpense `json:"generic_expenses" bson:"generic_expenses"`
	Expenses        ExpenseTotals    `json:"expenses" bson:"expenses"`

	CGSTPercent float64 `json:"cgst_percent" bson:"cgst_percent"`
	SGSTPercent float64 `json:"sgst_percent" bson:"sgst_percent"`
	CGSTAmount  float64 `json:"cgst_amount" bson:"cgst_amount"`
	SGSTAmount  float64 `json:"sgst_amount" bson:"sgst_amount"`

	TotalBillingAmount float64 `json:"total_billing_amount" bson:"total_billing_amount"`
	TotalExpenses      float64 `json:"total_expenses" bson:"total_expenses"`
	DriverPayable      float64 `json:"driver_payable" bson:"driver_payable"`
	ClientBalance      float64 `json:"client_balance" bson:"client_balance"`
}
