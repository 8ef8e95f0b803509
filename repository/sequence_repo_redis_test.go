package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSequenceNext(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	repo := NewRedisSequenceRepo(client)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := repo.Next(ctx, "INV", "20260315")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	got, err := repo.Next(ctx, "LR", "20260315")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)

	assert.Equal(t, sequenceTTL, mr.TTL("seq:INV:20260315"))
}

func TestRedisSequenceUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	mr.Close()

	_, err := NewRedisSequenceRepo(client).Next(context.Background(), "INV", "20260315")
	assert.Error(t, err)
}
