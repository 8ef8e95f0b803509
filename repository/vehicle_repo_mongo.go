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

type MongoVehicleRepo struct {
	DB *mongo.Database
}

func NewMongoVehicleRepo(db *mongo.Database) *MongoVehicleRepo {
	return &MongoVehicleRepo{DB: db}
}

func (r *MongoVehicleRepo) SaveVehicle(ctx context.Context, v *models.Vehicle) error {
	if v.ID == "" {
		v.ID = NewKey()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	_, err := r.DB.Collection(colVehicles).UpdateOne(ctx,
		bson.M{"_id": v.ID},
		bson.M{
			"$set":         bson.M{"number": v.Number, "average": v.Average},
			"$setOnInsert": bson.M{"fuel_balance": v.FuelBalance, "created_at": v.CreatedAt},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save vehicle: %w", err)
	}
	return nil
}

func (r *MongoVehicleRepo) GetVehicle(ctx context.Context, id string) (*models.Vehicle, error) {
	var v models.Vehicle
	err := r.DB.Collection(colVehicles).FindOne(ctx, bson.M{"_id": id}).Decode(&v)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get vehicle %s: %w", id, err)
	}
	return &v, nil
}

func (r *MongoVehicleRepo) GetVehiclePayment(ctx context.Context, shipmentID string) (*models.VehiclePayment, error) {
	var p models.VehiclePayment
	err := r.DB.Collection(colVehiclePayments).FindOne(ctx, bson.M{"shipment_id": shipmentID}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get vehicle payment for %s: %w", shipmentID, err)
	}
	return &p, nil
}

func (r *MongoVehicleRepo) UpsertVehiclePayment(ctx context.Context, p *models.VehiclePayment) error {
	if p.ID == "" {
		p.ID = NewKey()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	res := r.DB.Collection(colVehiclePayments).FindOneAndUpdate(ctx,
		bson.M{"shipment_id": p.ShipmentID},
		bson.M{
			"$set": bson.M{
				"vehicle_id": p.VehicleID, "type": p.Type, "amount": p.Amount,
				"date": p.Date, "note": p.Note,
			},
			"$setOnInsert": bson.M{"_id": p.ID, "created_at": p.CreatedAt},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)
	if err := res.Decode(p); err != nil {
		return fmt.Errorf("upsert vehicle payment: %w", err)
	}
	return nil
}

func (r *MongoVehicleRepo) DeleteVehiclePayment(ctx context.Context, shipmentID string) error {
	_, err := r.DB.Collection(colVehiclePayments).DeleteOne(ctx, bson.M{"shipment_id": shipmentID})
	if err != nil {
		return fmt.Errorf("delete vehicle payment for %s: %w", shipmentID, err)
	}
	return nil
}
