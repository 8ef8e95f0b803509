package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoSequenceRepo struct {
	DB *mongo.Database
}

func NewMongoSequenceRepo(db *mongo.Database) *MongoSequenceRepo {
	return &MongoSequenceRepo{DB: db}
}

func (r *MongoSequenceRepo) Next(ctx context.Context, docType, datePrefix string) (int64, error) {
	return nextMongoSequence(ctx, r.DB, docType, datePrefix)
}

// nextMongoSequence bumps the counter; pass a session context to make it
// part of a transaction.
func nextMongoSequence(ctx context.Context, db *mongo.Database, docType, datePrefix string) (int64, error) {
	var counter struct {
		Value int64 `bson:"value"`
	}
	err := db.Collection(colSequences).FindOneAndUpdate(ctx,
		bson.M{"_id": docType + ":" + datePrefix},
		bson.M{"$inc": bson.M{"value": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next %s sequence: %w", docType, err)
	}
	return counter.Value, nil
}
