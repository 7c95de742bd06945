package port

import (
	"context"

	"github.com/minishop/minishop/internal/core/domain"
)

type ProductCache interface {
	// GetProduct returns the cached product, or (nil, nil) on a miss
	GetProduct(ctx context.Context, id string) (*domain.Product, error)

	// SetProduct caches a product with the adapter's TTL
	SetProduct(ctx context.Context, product *domain.Product) error

	// InvalidateProduct drops the cache entry after a mutation
	InvalidateProduct(ctx context.Context, id string) error
}
