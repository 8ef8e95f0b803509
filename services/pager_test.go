package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lorryledger/models"
	"lorryledger/repository"
)

var pagerBase = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func seedKeyed(t *testing.T, store *repository.MemoryStore, key string, date time.Time, status models.ShipmentStatus) {
	t.Helper()
	require.NoError(t, store.CreateShipment(context.Background(), &models.Shipment{
		ID:       key,
		Date:     date,
		LRNumber: "LR-" + key,
		Type:     models.ShipmentOwn,
		Status:   status,
	}))
}

func assertDateOrder(t *testing.T, items []*models.Shipment) {
	t.Helper()
	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].Date.After(items[i-1].Date),
			"%s dated after %s", items[i].ID, items[i-1].ID)
	}
}

func TestPagerWalksEveryActiveShipmentOnce(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()

	var want []string
	for i := 1; i <= 120; i++ {
		key := fmt.Sprintf("k%03d", i)
		status := models.StatusActive
		if i%3 == 0 {
			status = models.StatusInvoiced
		} else {
			want = append(want, key)
		}
		// Backdated entries: business dates do not follow key order.
		seedKeyed(t, store, key, pagerBase.AddDate(0, 0, (i*7)%31), status)
	}

	p := NewPager(store, 10)
	page, err := p.LoadPage(ctx, PageInitial)
	require.NoError(t, err)

	var (
		got   []string
		sizes []int
	)
	for {
		assertDateOrder(t, page.Items)
		sizes = append(sizes, len(page.Items))
		for _, s := range page.Items {
			assert.Equal(t, models.StatusActive, s.Status)
			got = append(got, s.ID)
		}
		if !page.HasMore {
			break
		}
		page, err = p.LoadPage(ctx, PageNext)
		if errors.Is(err, ErrNoMoreRecords) {
			break
		}
		require.NoError(t, err)
	}

	assert.ElementsMatch(t, want, got)
	for _, n := range sizes[:len(sizes)-1] {
		assert.Equal(t, 10, n)
	}

	cursor := p.lastKey
	_, err = p.LoadPage(ctx, PageNext)
	assert.ErrorIs(t, err, ErrNoMoreRecords)
	assert.Equal(t, cursor, p.lastKey)
}

func TestPagerFillsPagePastInvoicedRecords(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()

	for i := 1; i <= 5; i++ {
		seedKeyed(t, store, fmt.Sprintf("a%02d", i), pagerBase.AddDate(0, 0, i), models.StatusActive)
	}
	for i := 1; i <= 20; i++ {
		seedKeyed(t, store, fmt.Sprintf("b%02d", i), pagerBase.AddDate(0, 1, i), models.StatusInvoiced)
	}

	page, err := NewPager(store, 5).LoadPage(ctx, PageInitial)
	require.NoError(t, err)

	require.Len(t, page.Items, 5)
	assert.Equal(t, "a05", page.Items[0].ID)
	assert.Equal(t, "a01", page.Items[4].ID)
	assert.False(t, page.HasMore)
}

func TestPagerSortsBatchByBusinessDate(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	seedKeyed(t, store, "k1", pagerBase.AddDate(0, 0, 3), models.StatusActive)
	seedKeyed(t, store, "k2", pagerBase.AddDate(0, 0, 1), models.StatusActive)
	seedKeyed(t, store, "k3", pagerBase.AddDate(0, 0, 2), models.StatusActive)

	page, err := NewPager(store, 50).LoadPage(ctx, PageInitial)
	require.NoError(t, err)

	ids := make([]string, len(page.Items))
	for i, s := range page.Items {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{"k1", "k3", "k2"}, ids)
	assert.Equal(t, "k1", page.Cursor)
}

func TestPagerNextBeforeInitial(t *testing.T) {
	store := repository.NewMemoryStore()
	seedKeyed(t, store, "k1", pagerBase, models.StatusActive)

	_, err := NewPager(store, 10).LoadPage(context.Background(), PageNext)
	assert.ErrorIs(t, err, ErrNoMoreRecords)
}

func TestPagerEmptyStore(t *testing.T) {
	page, err := NewPager(repository.NewMemoryStore(), 10).LoadPage(context.Background(), PageInitial)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasMore)
}

func TestPagerResumeFromCursor(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	for i := 1; i <= 7; i++ {
		seedKeyed(t, store, fmt.Sprintf("k%d", i), pagerBase.AddDate(0, 0, i), models.StatusActive)
	}

	first, err := NewPager(store, 3).LoadPage(ctx, PageInitial)
	require.NoError(t, err)
	require.True(t, first.HasMore)
	assert.Equal(t, "k5", first.Cursor)

	p := NewPager(store, 3)
	p.Resume(first.Cursor)
	second, err := p.LoadPage(ctx, PageNext)
	require.NoError(t, err)

	require.Len(t, second.Items, 3)
	assert.Equal(t, "k4", second.Items[0].ID)
	assert.Equal(t, "k2", second.Items[2].ID)
	assert.True(t, second.HasMore)

	third, err := p.LoadPage(ctx, PageNext)
	require.NoError(t, err)
	require.Len(t, third.Items, 1)
	assert.Equal(t, "k1", third.Items[0].ID)
	assert.False(t, third.HasMore)
}
