package storage

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/minishop/minishop/internal/core/domain"
)

const (
	productKeyPrefix = "product:"
	productCacheTTL  = 30 * time.Second
)

// RedisAdapter is a read-through product cache. Entries are dropped on every
// product mutation, and the short TTL bounds staleness if an invalidation is
// lost. It never participates in purchase coordination; that stays with the
// database row lock.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	raw, err := r.client.Get(ctx, productKeyPrefix+id).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get cached product")
	}

	var product domain.Product
	if err := json.Unmarshal(raw, &product); err != nil {
		return nil, errors.Wrap(err, "decode cached product")
	}
	return &product, nil
}

func (r *RedisAdapter) SetProduct(ctx context.Context, product *domain.Product) error {
	raw, err := json.Marshal(product)
	if err != nil {
		return errors.Wrap(err, "encode product")
	}
	return r.client.Set(ctx, productKeyPrefix+product.ID, raw, productCacheTTL).Err()
}

func (r *RedisAdapter) InvalidateProduct(ctx context.Context, id string) error {
	return r.client.Del(ctx, productKeyPrefix+id).Err()
}
