package repository

import (
	"context"
	"database/sql"
	"fmt"
)

type PostgresSequenceRepo struct {
	DB *sql.DB
}

func NewPostgresSequenceRepo(db *sql.DB) *PostgresSequenceRepo {
	return &PostgresSequenceRepo{DB: db}
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (r *PostgresSequenceRepo) Next(ctx context.Context, docType, datePrefix string) (int64, error) {
	return nextSequence(ctx, r.DB, docType, datePrefix)
}

// nextSequence bumps the counter through q, which may be a transaction.
func nextSequence(ctx context.Context, q rowQuerier, docType, datePrefix string) (int64, error) {
	var value int64
	err := q.QueryRowContext(ctx, `
		INSERT INTO sequences(doc_type, date_prefix, value)
		VALUES($1, $2, 1)
		ON CONFLICT(doc_type, date_prefix) DO UPDATE SET value = sequences.value + 1
		RETURNING value
	`, docType, datePrefix).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("next %s sequence: %w", docType, err)
	}
	return value, nil
}
