package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lorryledger/models"
)

func TestPostgresSavePartyUpsertsOnKindAndID(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()
	repo := NewPostgresPartyRepo(conn)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT(kind, id) DO UPDATE")).
		WithArgs("p1", "transporter", "Marudhar Roadways", "", "", 0.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SaveParty(ctx, &models.Party{ID: "p1", Kind: models.PartyTransporter, Name: "Marudhar Roadways"}))

	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM parties WHERE id = $1 AND kind = $2")).
		WithArgs("p1", "transporter").
		WillReturnRows(sqlmock.NewRows([]string{"id", "kind", "name", "gstin", "address", "outstanding", "created_at"}).
			AddRow("p1", "transporter", "Marudhar Roadways", "", "", 0.0, created))

	p, err := repo.GetParty(ctx, models.PartyTransporter, "p1")
	require.NoError(t, err)
	assert.Equal(t, models.PartyTransporter, p.Kind)
	assert.Equal(t, "Marudhar Roadways", p.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
