package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lorryledger/models"
)

type PostgresCompanyRepo struct {
	DB *sql.DB
}

func NewPostgresCompanyRepo(db *sql.DB) *PostgresCompanyRepo {
	return &PostgresCompanyRepo{DB: db}
}

// SaveCompany inserts or updates the company profile
func (r *PostgresCompanyRepo) SaveCompany(ctx context.Context, c *models.CompanyProfile) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	mobileJSON, err := json.Marshal(c.Mobile)
	if err != nil {
		return err
	}
	bankJSON, err := json.Marshal(c.Bank)
	if err != nil {
		return err
	}

	// If ID is passed → UPDATE, else INSERT
	if c.ID > 0 {
		_, err = r.DB.ExecContext(ctx, `
			UPDATE company_profile
			SET company_name=$1, gstin=$2, address=$3, city=$4, state=$5,
				pincode=$6, mobile=$7, footnote=$8, bank=$9
			WHERE id=$10
		`, c.CompanyName, c.GSTIN, c.Address, c.City, c.State,
			c.Pincode, mobileJSON, c.Footnote, bankJSON, c.ID)
	} else {
		err = r.DB.QueryRowContext(ctx, `
			INSERT INTO company_profile
			(company_name, gstin, address, city, state, pincode, mobile, footnote, bank, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
			RETURNING id
		`, c.CompanyName, c.GSTIN, c.Address, c.City, c.State,
			c.Pincode, mobileJSON, c.Footnote, bankJSON, c.CreatedAt).Scan(&c.ID)
	}
	if err != nil {
		return fmt.Errorf("save company profile: %w", err)
	}
	return nil
}

// GetCompany fetches the latest company profile
func (r *PostgresCompanyRepo) GetCompany(ctx context.Context) (*models.CompanyProfile, error) {
	c := &models.CompanyProfile{}
	var mobileJSON, bankJSON []byte

	err := r.DB.QueryRowContext(ctx, `
		SELECT id, company_name, address, city, state, pincode, gstin, footnote, mobile, bank, created_at
		FROM company_profile
		ORDER BY id DESC LIMIT 1
	`).Scan(&c.ID, &c.CompanyName, &c.Address, &c.City, &c.State,
		&c.Pincode, &c.GSTIN, &c.Footnote, &mobileJSON, &bankJSON, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get company profile: %w", err)
	}

	if len(mobileJSON) > 0 {
		if err := json.Unmarshal(mobileJSON, &c.Mobile); err != nil {
			return nil, err
		}
	}
	if len(bankJSON) > 0 {
		if err := json.Unmarshal(bankJSON, &c.Bank); err != nil {
			return nil, err
		}
	}
	return c, nil
}
