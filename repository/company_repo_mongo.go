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

const companyProfileID = 1

type MongoCompanyRepo struct {
	DB *mongo.Database
}

func NewMongoCompanyRepo(db *mongo.Database) *MongoCompanyRepo {
	return &MongoCompanyRepo{DB: db}
}

// SaveCompany keeps a single profile document, replacing it on every save.
func (r *MongoCompanyRepo) SaveCompany(ctx context.Context, c *models.CompanyProfile) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	c.ID = companyProfileID

	_, err := r.DB.Collection("company_profile").ReplaceOne(ctx,
		bson.M{"_id": c.ID}, c, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save company profile: %w", err)
	}
	return nil
}

func (r *MongoCompanyRepo) GetCompany(ctx context.Context) (*models.CompanyProfile, error) {
	var c models.CompanyProfile
	err := r.DB.Collection("company_profile").FindOne(ctx, bson.M{"_id": companyProfileID}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get company profile: %w", err)
	}
	return &c, nil
}
