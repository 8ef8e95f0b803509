package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counters are per day, so they only need to outlive the day they count.
const sequenceTTL = 48 * time.Hour

type RedisSequenceRepo struct {
	Client *redis.Client
}

func NewRedisSequenceRepo(client *redis.Client) *RedisSequenceRepo {
	return &RedisSequenceRepo{Client: client}
}

func (r *RedisSequenceRepo) Next(ctx context.Context, docType, datePrefix string) (int64, error) {
	key := fmt.Sprintf("seq:%s:%s", docType, datePrefix)

	pipe := r.Client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, sequenceTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("next %s sequence: %w", docType, err)
	}
	return incr.Val(), nil
}
