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

type MongoPartyRepo struct {
	DB *mongo.Database
}

func NewMongoPartyRepo(db *mongo.Database) *MongoPartyRepo {
	return &MongoPartyRepo{DB: db}
}

func (r *MongoPartyRepo) SaveParty(ctx context.Context, p *models.Party) error {
	if p.ID == "" {
		p.ID = NewKey()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := r.DB.Collection(colParties).UpdateOne(ctx,
		bson.M{"kind": p.Kind, "party_id": p.ID},
		bson.M{
			"$set": bson.M{"name": p.Name, "gstin": p.GSTIN, "address": p.Address},
			"$setOnInsert": bson.M{"outstanding": p.Outstanding, "created_at": p.CreatedAt},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save party: %w", err)
	}
	return nil
}

func (r *MongoPartyRepo) GetParty(ctx context.Context, kind models.PartyKind, id string) (*models.Party, error) {
	var p models.Party
	err := r.DB.Collection(colParties).FindOne(ctx, bson.M{"kind": kind, "party_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get party %s: %w", id, err)
	}
	return &p, nil
}
