package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/minishop/minishop/internal/core/domain"
	"github.com/minishop/minishop/internal/port"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)

// PurchaseService converts a stock reservation into a committed sale. All
// coordination between concurrent callers is delegated to the repository's
// row-locking transaction; the service itself holds no shared state.
type PurchaseService struct {
	purchases port.PurchaseRepository
	cache     port.ProductCache
	log       logrus.FieldLogger
}

// NewPurchaseService constructs the service. cache may be nil when the
// process runs without Redis.
func NewPurchaseService(purchases port.PurchaseRepository, cache port.ProductCache, log logrus.FieldLogger) *PurchaseService {
	return &PurchaseService{purchases: purchases, cache: cache, log: log}
}

// CreatePurchase records a sale of quantity units of the product to the
// customer. The stock check, price snapshot, purchase insert and stock
// decrement happen as one atomic unit under an exclusive lock on the product
// row, so two concurrent purchases can never both observe the pre-decrement
// stock. Insufficient stock is terminal; ErrTxConflict is safe to retry.
func (s *PurchaseService) CreatePurchase(ctx context.Context, customerID, productID string, quantity int) (*domain.Purchase, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	purchase, err := s.purchases.CreatePurchase(ctx, customerID, productID, quantity)
	if err != nil {
		var insufficient *domain.InsufficientStockError
		if errors.As(err, &insufficient) {
			s.log.WithFields(logrus.Fields{
				"product_id": productID,
				"requested":  insufficient.Requested,
				"available":  insufficient.Available,
			}).Warn("purchase rejected: insufficient stock")
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateProduct(ctx, productID); err != nil {
			s.log.WithError(err).WithField("product_id", productID).
				Warn("failed to invalidate product cache")
		}
	}

	s.log.WithFields(logrus.Fields{
		"purchase_id": purchase.ID,
		"product_id":  productID,
		"customer_id": customerID,
		"quantity":    quantity,
		"total":       purchase.TotalAmount.String(),
	}).Info("purchase committed")

	return purchase, nil
}
