package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PurchaseStatus string

const (
	PurchaseStatusPaid PurchaseStatus = "PAID"
)

// Purchase is immutable once committed. UnitPrice is the product price read
// under the row lock at purchase time, not a live join to the catalog.
type Purchase struct {
	ID          string          `db:"id" json:"id"`
	CustomerID  string          `db:"customer_id" json:"customer_id"`
	ProductID   string          `db:"product_id" json:"product_id"`
	Quantity    int             `db:"quantity" json:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	TotalAmount decimal.Decimal `db:"total_amount" json:"total_amount"`
	Status      PurchaseStatus  `db:"status" json:"status"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// SaleRecord is one row of the sales report: a purchase joined with the
// customer email and product name.
type SaleRecord struct {
	PurchaseID    string          `db:"purchase_id" json:"purchase_id"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	CustomerEmail string          `db:"customer_email" json:"customer_email"`
	ProductName   string          `db:"product_name" json:"product_name"`
	Quantity      int             `db:"quantity" json:"quantity"`
	UnitPrice     decimal.Decimal `db:"unit_price" json:"unit_price"`
	TotalAmount   decimal.Decimal `db:"total_amount" json:"total_amount"`
}

// ReportFilter narrows a sales report. StartDate is an inclusive lower bound
// on created_at; EndDate covers the whole given calendar day. Nil fields
// apply no condition.
type ReportFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	MinTotal  *decimal.Decimal
}
