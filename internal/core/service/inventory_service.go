package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/minishop/minishop/internal/core/domain"
	"github.com/minishop/minishop/internal/port"
)

// InventoryService serves read-only product lookups. No locking.
type InventoryService struct {
	products port.ProductRepository
	cache    port.ProductCache
	log      logrus.FieldLogger
}

func NewInventoryService(products port.ProductRepository, cache port.ProductCache, log logrus.FieldLogger) *InventoryService {
	return &InventoryService{products: products, cache: cache, log: log}
}

// SearchProducts returns product summaries matching the filter, ordered by
// name ascending. Absent filter fields apply no condition.
func (s *InventoryService) SearchProducts(ctx context.Context, filter domain.SearchFilter) ([]domain.ProductSummary, error) {
	return s.products.SearchProducts(ctx, filter)
}

// GetProduct reads a product through the cache. A cache failure degrades to
// a direct repository read.
func (s *InventoryService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if s.cache != nil {
		cached, err := s.cache.GetProduct(ctx, id)
		if err != nil {
			s.log.WithError(err).WithField("product_id", id).Warn("product cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	product, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetProduct(ctx, product); err != nil {
			s.log.WithError(err).WithField("product_id", id).Warn("product cache write failed")
		}
	}

	return product, nil
}
