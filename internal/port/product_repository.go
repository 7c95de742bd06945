package port

import (
	"context"

	"github.com/minishop/minishop/internal/core/domain"
)

type ProductRepository interface {
	// GetProduct retrieves a product by ID, ErrProductNotFound if absent
	GetProduct(ctx context.Context, id string) (*domain.Product, error)

	// SearchProducts returns summaries matching the filter, ordered by name
	SearchProducts(ctx context.Context, filter domain.SearchFilter) ([]domain.ProductSummary, error)

	// InsertProduct persists a new product row
	InsertProduct(ctx context.Context, product *domain.Product) error

	// UpdateStock overwrites stock_qty, ErrProductNotFound if absent
	UpdateStock(ctx context.Context, id string, stockQty int) error
}
