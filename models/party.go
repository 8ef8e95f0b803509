package models

import "time"

type PartyKind string

const (
	PartyClient      PartyKind = "client"
	PartyTransporter PartyKind = "transporter"
)

// Party is a client or transporter with a signed running balance. It is
// identified by Kind and ID together.
// Outstanding < 0 means the party holds credit; > 0 means it owes us.
type Party struct {
	ID          string    `json:"id" bson:"party_id" db:"id"`
	Kind        PartyKind `json:"kind" bson:"kind" db:"kind"`
	Name        string    `json:"name" bson:"name" db:"name"`
	GSTIN       string    `json:"gstin,omitempty" bson:"gstin,omitempty" db:"gstin"`
	Address     string    `json:"address,omitempty" bson:"address,omitempty" db:"address"`
	Outstanding float64   `json:"outstanding" bson:"outstanding" db:"outstanding"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}
