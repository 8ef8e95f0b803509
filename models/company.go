package models

import "time"

type MobileEntry struct {
	Number string `json:"number" bson:"number" db:"number"`
	Label  string `json:"label" bson:"label" db:"label"`
}

type BankDetails struct {
	AccountName   string `json:"account_name" bson:"account_name"`
	BankName      string `json:"bank_name" bson:"bank_name"`
	AccountNumber string `json:"account_number" bson:"account_number"`
	IFSC          string `json:"ifsc" bson:"ifsc"`
	Branch        string `json:"branch" bson:"branch"`
}

// MissingFields lists the bank fields an invoice cannot be issued without.
func (b BankDetails) MissingFields() []string {
	var missing []string
	if b.BankName == "" {
		missing = append(missing, "bank_name")
	}
	if b.AccountNumber == "" {
		missing = append(missing, "account_number")
	}
	if b.IFSC == "" {
		missing = append(missing, "ifsc")
	}
	return missing
}

// CompanyProfile is the issuing company, set up once and copied onto every invoice.
type CompanyProfile struct {
	ID          int64         `json:"id" bson:"_id,omitempty" db:"id"`
	CompanyName string        `json:"company_name" bson:"name" db:"company_name"`
	Address     string        `json:"address" bson:"address" db:"address"`
	City        string        `json:"city" bson:"city" db:"city"`
	State       string        `json:"state" bson:"state" db:"state"`
	Pincode     string        `json:"pincode" bson:"pincode" db:"pincode"`
	GSTIN       string        `json:"gstin" bson:"gstin" db:"gstin"`
	Footnote    string        `json:"footnote" bson:"footnote" db:"footnote"`
	Mobile      []MobileEntry `json:"mobile" bson:"mobile" db:"mobile"`
	Bank        BankDetails   `json:"bank" bson:"bank" db:"bank"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at" db:"created_at"`
}
