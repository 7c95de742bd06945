package storage

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/minishop/minishop/internal/core/domain"
)

// maxSearchResults bounds product searches to avoid unbounded scans.
const maxSearchResults = 100

// MySQL server error codes for lock wait timeout and deadlock.
const (
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDeadlock        = 1213
)

type MySQLAdapter struct {
	db *sqlx.DB
}

func NewMySQLAdapter(db *sqlx.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

// CreatePurchase executes the whole purchase as one transaction: an
// exclusive lock on the product row, the stock check against the locked
// value, the purchase insert with the lock-time price and the stock
// decrement. Validation failure rolls back with no rows modified. Contention
// is scoped to the single product row, so purchases of distinct products
// never block each other.
func (m *MySQLAdapter) CreatePurchase(ctx context.Context, customerID, productID string, quantity int) (*domain.Purchase, error) {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	var locked struct {
		Price    decimal.Decimal `db:"price"`
		StockQty int             `db:"stock_qty"`
	}
	err = tx.GetContext(ctx, &locked,
		`SELECT price, stock_qty FROM products WHERE id = ? FOR UPDATE`, productID)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, translateMySQLError(err, "lock product row")
	}

	var customerExists bool
	err = tx.GetContext(ctx, &customerExists,
		`SELECT EXISTS(SELECT 1 FROM customers WHERE id = ?)`, customerID)
	if err != nil {
		return nil, translateMySQLError(err, "check customer")
	}
	if !customerExists {
		return nil, domain.ErrCustomerNotFound
	}

	if locked.StockQty < quantity {
		return nil, &domain.InsufficientStockError{Requested: quantity, Available: locked.StockQty}
	}

	purchase := &domain.Purchase{
		ID:          uuid.NewString(),
		CustomerID:  customerID,
		ProductID:   productID,
		Quantity:    quantity,
		UnitPrice:   locked.Price,
		TotalAmount: locked.Price.Mul(decimal.NewFromInt(int64(quantity))).Round(2),
		Status:      domain.PurchaseStatusPaid,
		CreatedAt:   time.Now().UTC(),
	}

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO purchases (id, customer_id, product_id, quantity, unit_price, total_amount, status, created_at)
		VALUES (:id, :customer_id, :product_id, :quantity, :unit_price, :total_amount, :status, :created_at)`,
		purchase)
	if err != nil {
		return nil, translateMySQLError(err, "insert purchase")
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE products
		SET stock_qty = stock_qty - ?, updated_at = ?
		WHERE id = ?`,
		quantity, purchase.CreatedAt, productID)
	if err != nil {
		return nil, translateMySQLError(err, "decrement stock")
	}

	if err := tx.Commit(); err != nil {
		return nil, translateMySQLError(err, "commit purchase")
	}

	return purchase, nil
}

func (m *MySQLAdapter) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	err := m.db.GetContext(ctx, &product, `
		SELECT id, name, description, category, price, stock_qty, created_at, updated_at
		FROM products WHERE id = ?`, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "query product")
	}
	return &product, nil
}

func (m *MySQLAdapter) SearchProducts(ctx context.Context, filter domain.SearchFilter) ([]domain.ProductSummary, error) {
	query := `SELECT id, name, category, price, stock_qty FROM products WHERE 1=1`
	var args []interface{}

	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		// The keyword is embedded in a LIKE pattern unescaped, so % and _
		// in it act as wildcards, not literals.
		query += ` AND LOWER(name) LIKE ?`
		args = append(args, "%"+strings.ToLower(kw)+"%")
	}
	if filter.MinPrice != nil {
		query += ` AND price >= ?`
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query += ` AND price <= ?`
		args = append(args, *filter.MaxPrice)
	}

	query += ` ORDER BY name ASC LIMIT ?`
	args = append(args, maxSearchResults)

	summaries := []domain.ProductSummary{}
	if err := m.db.SelectContext(ctx, &summaries, query, args...); err != nil {
		return nil, errors.Wrap(err, "search products")
	}
	return summaries, nil
}

func (m *MySQLAdapter) InsertProduct(ctx context.Context, product *domain.Product) error {
	_, err := m.db.NamedExecContext(ctx, `
		INSERT INTO products (id, name, description, category, price, stock_qty, created_at, updated_at)
		VALUES (:id, :name, :description, :category, :price, :stock_qty, :created_at, :updated_at)`,
		product)
	if err != nil {
		return errors.Wrap(err, "insert product")
	}
	return nil
}

func (m *MySQLAdapter) UpdateStock(ctx context.Context, id string, stockQty int) error {
	result, err := m.db.ExecContext(ctx, `
		UPDATE products SET stock_qty = ?, updated_at = ? WHERE id = ?`,
		stockQty, time.Now().UTC(), id)
	if err != nil {
		return errors.Wrap(err, "update stock")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update stock rows affected")
	}
	if rows == 0 {
		// RowsAffected is 0 both for a missing row and for an unchanged
		// value, so disambiguate with an existence check.
		var exists bool
		if err := m.db.GetContext(ctx, &exists,
			`SELECT EXISTS(SELECT 1 FROM products WHERE id = ?)`, id); err != nil {
			return errors.Wrap(err, "check product")
		}
		if !exists {
			return domain.ErrProductNotFound
		}
	}
	return nil
}

func (m *MySQLAdapter) SalesReport(ctx context.Context, filter domain.ReportFilter) ([]domain.SaleRecord, error) {
	query := `
		SELECT
			p.id           AS purchase_id,
			p.created_at   AS created_at,
			c.email        AS customer_email,
			pr.name        AS product_name,
			p.quantity     AS quantity,
			p.unit_price   AS unit_price,
			p.total_amount AS total_amount
		FROM purchases p
		JOIN customers c ON c.id = p.customer_id
		JOIN products pr ON pr.id = p.product_id
		WHERE 1=1`
	var args []interface{}

	if filter.StartDate != nil {
		query += ` AND p.created_at >= ?`
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		// End date is inclusive of the whole calendar day.
		query += ` AND p.created_at < ?`
		args = append(args, filter.EndDate.AddDate(0, 0, 1))
	}
	if filter.MinTotal != nil {
		query += ` AND p.total_amount >= ?`
		args = append(args, *filter.MinTotal)
	}

	query += ` ORDER BY p.created_at DESC`

	records := []domain.SaleRecord{}
	if err := m.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, errors.Wrap(err, "query sales report")
	}
	return records, nil
}

// translateMySQLError maps transient server errors to ErrTxConflict so
// callers can distinguish retriable failures from business errors.
func translateMySQLError(err error, msg string) error {
	var mysqlErr *mysql.MySQLError
	if stderrors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlErrLockWaitTimeout, mysqlErrDeadlock:
			return errors.Wrapf(domain.ErrTxConflict, "%s: %s", msg, mysqlErr.Message)
		}
	}
	return errors.Wrap(err, msg)
}
