package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lorryledger/models"
)

type PostgresPartyRepo struct {
	DB *sql.DB
}

func NewPostgresPartyRepo(db *sql.DB) *PostgresPartyRepo {
	return &PostgresPartyRepo{DB: db}
}

// SaveParty upserts the party's details under (kind, id), so a client and a
// transporter may share an id. Outstanding is only written on insert;
// afterwards it moves through invoice commits.
func (r *PostgresPartyRepo) SaveParty(ctx context.Context, p *models.Party) error {
	if p.ID == "" {
		p.ID = NewKey()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO parties(id, kind, name, gstin, address, outstanding, created_at)
		VALUES($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT(kind, id) DO UPDATE SET name = EXCLUDED.name, gstin = EXCLUDED.gstin, address = EXCLUDED.address
	`, p.ID, p.Kind, p.Name, p.GSTIN, p.Address, p.Outstanding, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("save party: %w", err)
	}
	return nil
}

func (r *PostgresPartyRepo) GetParty(ctx context.Context, kind models.PartyKind, id string) (*models.Party, error) {
	var p models.Party
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, kind, name, gstin, address, outstanding, created_at
		FROM parties WHERE id = $1 AND kind = $2
	`, id, kind).Scan(&p.ID, &p.Kind, &p.Name, &p.GSTIN, &p.Address, &p.Outstanding, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get party %s: %w", id, err)
	}
	return &p, nil
}
