package port

import (
	"context"

	"github.com/minishop/minishop/internal/core/domain"
)

type PurchaseRepository interface {
	// CreatePurchase runs the atomic purchase unit: lock the product row,
	// validate stock, insert the purchase and decrement stock in one
	// transaction. Returns the committed purchase.
	CreatePurchase(ctx context.Context, customerID, productID string, quantity int) (*domain.Purchase, error)

	// SalesReport joins purchases with customers and products, filtered and
	// ordered by created_at descending
	SalesReport(ctx context.Context, filter domain.ReportFilter) ([]domain.SaleRecord, error)
}
