package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description *string         `db:"description" json:"description,omitempty"`
	Category    string          `db:"category" json:"category"`
	Price       decimal.Decimal `db:"price" json:"price"`
	StockQty    int             `db:"stock_qty" json:"stock_qty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// ProductSummary is the search-result projection of a product.
type ProductSummary struct {
	ID       string          `db:"id" json:"id"`
	Name     string          `db:"name" json:"name"`
	Category string          `db:"category" json:"category"`
	Price    decimal.Decimal `db:"price" json:"price"`
	StockQty int             `db:"stock_qty" json:"stock_qty"`
}

// SearchFilter narrows a product search. Nil/empty fields apply no condition.
type SearchFilter struct {
	Keyword  string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}
