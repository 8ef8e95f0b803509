package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lorryledger/repository"
)

func TestNumbererFormatsPerDayAndType(t *testing.T) {
	ctx := context.Background()
	n := NewNumberer(repository.NewMemoryStore())
	day := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)

	next := func(doc DocumentType, at time.Time) string {
		v, err := n.Next(ctx, doc, at)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "LR20260305001", next(DocLR, day))
	assert.Equal(t, "LR20260305002", next(DocLR, day))
	assert.Equal(t, "INV20260305001", next(DocInvoice, day))
	assert.Equal(t, "LR20260306001", next(DocLR, day.AddDate(0, 0, 1)))
}
