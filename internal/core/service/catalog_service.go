package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/minishop/minishop/internal/core/domain"
	"github.com/minishop/minishop/internal/port"
)

// CatalogService carries the staff operations: product creation and direct
// stock overwrites. Both are single-statement writes with no check-then-act
// sequence, so no locking is involved.
type CatalogService struct {
	products port.ProductRepository
	cache    port.ProductCache
	log      logrus.FieldLogger
}

func NewCatalogService(products port.ProductRepository, cache port.ProductCache, log logrus.FieldLogger) *CatalogService {
	return &CatalogService{products: products, cache: cache, log: log}
}

type AddProductInput struct {
	Name        string
	Category    string
	Description *string
	Price       decimal.Decimal
	StockQty    int
}

func (s *CatalogService) AddProduct(ctx context.Context, in AddProductInput) (*domain.Product, error) {
	if in.Name == "" {
		return nil, errors.Wrap(domain.ErrInvalidInput, "name is required")
	}
	if in.Price.IsNegative() {
		return nil, errors.Wrap(domain.ErrInvalidInput, "price cannot be negative")
	}
	if in.StockQty < 0 {
		return nil, errors.Wrap(domain.ErrInvalidInput, "stock quantity cannot be negative")
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		StockQty:    in.StockQty,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.products.InsertProduct(ctx, product); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"product_id": product.ID,
		"name":       product.Name,
	}).Info("product added")

	return product, nil
}

// UpdateStock unconditionally overwrites the product's stock quantity.
func (s *CatalogService) UpdateStock(ctx context.Context, productID string, stockQty int) error {
	if stockQty < 0 {
		return errors.Wrap(domain.ErrInvalidInput, "stock quantity cannot be negative")
	}

	if err := s.products.UpdateStock(ctx, productID, stockQty); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateProduct(ctx, productID); err != nil {
			s.log.WithError(err).WithField("product_id", productID).
				Warn("failed to invalidate product cache")
		}
	}

	s.log.WithFields(logrus.Fields{
		"product_id": productID,
		"stock_qty":  stockQty,
	}).Info("stock updated")

	return nil
}
