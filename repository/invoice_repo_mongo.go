package repository

import (
	"context"
	"errors"
	"fmt"

	"lorryledger/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoInvoiceRepo struct {
	DB *mongo.Database
}

func NewMongoInvoiceRepo(db *mongo.Database) *MongoInvoiceRepo {
	return &MongoInvoiceRepo{DB: db}
}

// CreateInvoice runs the number draw, the invoice insert, the shipment
// flips and the outstanding increment in one session transaction.
func (r *MongoInvoiceRepo) CreateInvoice(ctx context.Context, inv *models.Invoice, num DocumentNumber) error {
	if inv.ID == "" {
		inv.ID = NewKey()
	}

	sess, err := r.DB.Client().StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		seq, err := nextMongoSequence(sc, r.DB, num.DocType, num.DatePrefix)
		if err != nil {
			return nil, err
		}
		inv.InvoiceNumber = num.Format(seq)

		if _, err := r.DB.Collection(colInvoices).InsertOne(sc, inv); err != nil {
			return nil, fmt.Errorf("insert invoice: %w", err)
		}

		res, err := r.DB.Collection(colShipments).UpdateMany(sc,
			bson.M{"_id": bson.M{"$in": inv.ShipmentIDs}, "status": models.StatusActive},
			bson.M{"$set": bson.M{
				"status":     models.StatusInvoiced,
				"invoice_id": inv.ID,
				"updated_at": inv.CreatedAt,
			}},
		)
		if err != nil {
			return nil, fmt.Errorf("mark shipments invoiced: %w", err)
		}
		if res.ModifiedCount != int64(len(inv.ShipmentIDs)) {
			return nil, ErrShipmentNotActive
		}

		res, err = r.DB.Collection(colParties).UpdateOne(sc,
			bson.M{"kind": partyKindOf(inv.InvoiceType), "party_id": inv.Party.ID},
			bson.M{"$inc": bson.M{"outstanding": inv.GrandTotal}},
		)
		if err != nil {
			return nil, fmt.Errorf("update outstanding: %w", err)
		}
		if res.MatchedCount == 0 {
			return nil, fmt.Errorf("party %s: %w", inv.Party.ID, ErrNotFound)
		}
		return nil, nil
	})
	return err
}

func (r *MongoInvoiceRepo) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	var inv models.Invoice
	err := r.DB.Collection(colInvoices).FindOne(ctx, bson.M{"_id": id}).Decode(&inv)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get invoice %s: %w", id, err)
	}
	return &inv, nil
}
