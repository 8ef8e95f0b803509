package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lorryledger/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	colShipments       = "shipments"
	colVehicles        = "vehicles"
	colVehiclePayments = "vehicle_payments"
	colInvoices        = "invoices"
	colParties         = "parties"
	colSequences       = "sequences"
)

type MongoShipmentRepo struct {
	DB *mongo.Database
}

func NewMongoShipmentRepo(db *mongo.Database) *MongoShipmentRepo {
	return &MongoShipmentRepo{DB: db}
}

func (r *MongoShipmentRepo) CreateShipment(ctx context.Context, s *models.Shipment) error {
	if s.ID == "" {
		s.ID = NewKey()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	if _, err := r.DB.Collection(colShipments).InsertOne(ctx, s); err != nil {
		return fmt.Errorf("insert shipment: %w", err)
	}
	return nil
}

func (r *MongoShipmentRepo) GetShipment(ctx context.Context, id string) (*models.Shipment, error) {
	var s models.Shipment
	err := r.DB.Collection(colShipments).FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get shipment %s: %w", id, err)
	}
	return &s, nil
}

func (r *MongoShipmentRepo) GetShipments(ctx context.Context, ids []string) ([]*models.Shipment, error) {
	cur, err := r.DB.Collection(colShipments).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("get shipments: %w", err)
	}
	defer cur.Close(ctx)

	byID := make(map[string]*models.Shipment, len(ids))
	for cur.Next(ctx) {
		var s models.Shipment
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		byID[s.ID] = &s
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	out := make([]*models.Shipment, 0, len(ids))
	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("shipment %s: %w", id, ErrNotFound)
		}
		out = append(out, s)
	}
	return out, nil
}

// UpdateShipment $sets the descriptive fields only.
func (r *MongoShipmentRepo) UpdateShipment(ctx context.Context, s *models.Shipment) error {
	now := time.Now().UTC()
	s.UpdatedAt = &now

	update := bson.M{"$set": bson.M{
		"date":        s.Date,
		"lr_number":   s.LRNumber,
		"type":        s.Type,
		"truck_id":    s.TruckID,
		"driver_id":   s.DriverID,
		"client":      s.Client,
		"consignor":   s.Consignor,
		"consignee":   s.Consignee,
		"transporter": s.Transporter,
		"route":       s.Route,
		"item":        s.Item,
		"packages":    s.Packages,
		"unit_weight": s.UnitWeight,
		"weight":      s.Weight,
		"updated_at":  now,
	}}

	res, err := r.DB.Collection(colShipments).UpdateOne(ctx, bson.M{"_id": s.ID}, update)
	if err != nil {
		return fmt.Errorf("update shipment %s: %w", s.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoShipmentRepo) SaveTrip(ctx context.Context, id string, trip, emptyTrip models.TripLedger) error {
	res, err := r.DB.Collection(colShipments).UpdateOne(ctx,
		bson.M{"_id": id, "status": bson.M{"$ne": models.StatusInvoiced}},
		bson.M{"$set": bson.M{
			"trip":       trip,
			"empty_trip": emptyTrip,
			"updated_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		return fmt.Errorf("save trip %s: %w", id, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.DB.Collection(colShipments).CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("save trip %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrShipmentNotActive
}

func (r *MongoShipmentRepo) DeleteShipment(ctx context.Context, id string) error {
	res, err := r.DB.Collection(colShipments).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete shipment %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoShipmentRepo) ListShipments(ctx context.Context, endAt string, limit int) ([]*models.Shipment, error) {
	filter := bson.M{}
	if endAt != "" {
		filter["_id"] = bson.M{"$lte": endAt}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.DB.Collection(colShipments).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	defer cur.Close(ctx)

	var out []*models.Shipment
	for cur.Next(ctx) {
		var s models.Shipment
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, cur.Err()
}

func (r *MongoShipmentRepo) DeductFuelOnce(ctx context.Context, shipmentID, vehicleID string, liters float64) (bool, error) {
	sess, err := r.DB.Client().StartSession()
	if err != nil {
		return false, err
	}
	defer sess.EndSession(ctx)

	deducted, err := sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := r.DB.Collection(colShipments).UpdateOne(sc,
			bson.M{"_id": shipmentID, "fuel_already_deducted": bson.M{"$ne": true}},
			bson.M{"$set": bson.M{"fuel_already_deducted": true}},
		)
		if err != nil {
			return false, fmt.Errorf("mark fuel deducted: %w", err)
		}
		if res.ModifiedCount == 0 {
			return false, nil
		}

		res, err = r.DB.Collection(colVehicles).UpdateOne(sc,
			bson.M{"_id": vehicleID},
			bson.M{"$inc": bson.M{"fuel_balance": -liters}},
		)
		if err != nil {
			return false, fmt.Errorf("deduct fuel: %w", err)
		}
		if res.MatchedCount == 0 {
			return false, fmt.Errorf("vehicle %s: %w", vehicleID, ErrNotFound)
		}
		return true, nil
	})
	if err != nil {
		return false, err
	}
	return deducted.(bool), nil
}
