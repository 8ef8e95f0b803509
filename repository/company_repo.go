package repository

import (
	"context"

	"lorryledger/models"
)

// CompanyRepository stores the issuing company's profile (the initial setup).
type CompanyRepository interface {
	SaveCompany(ctx context.Context, c *models.CompanyProfile) error
	// GetCompany returns the latest profile, or ErrNotFound before setup.
	GetCompany(ctx context.Context) (*models.CompanyProfile, error)
}
