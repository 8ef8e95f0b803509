package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDB struct {
	Client *mongo.Client
	URL    string
	Name   string
}

func NewMongoDB(url, name string) *MongoDB {
	return &MongoDB{URL: url, Name: name}
}

func (m *MongoDB) Connect(ctx context.Context) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(m.URL))
	if err != nil {
		return err
	}
	m.Client = client
	return m.Client.Ping(ctx, nil)
}

func (m *MongoDB) Disconnect(ctx context.Context) error {
	if m.Client == nil {
		return nil
	}
	return m.Client.Disconnect(ctx)
}

// Database returns the ledger database. Invoice commits use multi-document
// transactions, so the deployment must be a replica set.
func (m *MongoDB) Database() *mongo.Database {
	return m.Client.Database(m.Name)
}

// EnsureIndexes creates the unique indexes the repositories' upserts rely on.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	unique := map[string]bson.D{
		"vehicle_payments": {{Key: "shipment_id", Value: 1}},
		"parties":          {{Key: "kind", Value: 1}, {Key: "party_id", Value: 1}},
	}
	for coll, keys := range unique {
		_, err := m.Database().Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    keys,
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("index %s: %w", coll, err)
		}
	}
	return nil
}
