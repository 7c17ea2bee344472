package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"orderdesk/internal/model"

	"github.com/jackc/pgx/v5"
)

// OrderRepository defines operations for order data
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindAll(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	UpdateProcess(ctx context.Context, id string, from, to model.OrderStatus) (bool, error)
	CountByProcess(ctx context.Context) (map[model.OrderStatus]int64, error)
}

type orderRepository struct {
	db DBTX
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db DBTX) OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, order_no, order_date, location,
        customer_name, customer_address, customer_country, customer_city, customer_phone, customer_email,
        salesman, conference, agency, guide, products, process, total, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	var process string
	err := row.Scan(
		&o.ID, &o.OrderNo, &o.Date, &o.Location,
		&o.Customer.Name, &o.Customer.Address, &o.Customer.Country, &o.Customer.City, &o.Customer.Phone, &o.Customer.Email,
		&o.Shipping.Salesman, &o.Shipping.Conference, &o.Shipping.Agency, &o.Shipping.Guide,
		&o.Products, &process, &o.Total, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		// a column that does not decode, such as malformed products JSONB
		var argErr pgx.ScanArgError
		if errors.As(err, &argErr) {
			return nil, fmt.Errorf("%w: order %s: %w", ErrCorruptRow, o.ID, err)
		}
		return nil, err
	}
	st, err := model.ParseOrderStatus(process)
	if err != nil {
		return nil, fmt.Errorf("%w: order %s: %w", ErrCorruptRow, o.ID, err)
	}
	o.Process = st
	if o.Products == nil {
		o.Products = []model.Product{}
	}
	return &o, nil
}

// Create inserts a new order with its line items
func (r *orderRepository) Create(ctx context.Context, o *model.Order) error {
	products := o.Products
	if products == nil {
		products = []model.Product{}
	}
	sql := `INSERT INTO orders (` + orderColumns + `)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.db.Exec(ctx, sql,
		o.ID, o.OrderNo, o.Date, o.Location,
		o.Customer.Name, o.Customer.Address, o.Customer.Country, o.Customer.City, o.Customer.Phone, o.Customer.Email,
		o.Shipping.Salesman, o.Shipping.Conference, o.Shipping.Agency, o.Shipping.Guide,
		products, string(o.Process), o.Total, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if numericOutOfRange(err) {
			return fmt.Errorf("failed to create order: %w: %w", ErrValueOutOfRange, err)
		}
		return unavailable("failed to create order", err)
	}
	return nil
}

// FindByID retrieves an order by its ID. Returns nil when absent.
func (r *orderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	sql := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrder(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, unavailable("failed to find order by ID", err)
	}
	return o, nil
}

// FindAll retrieves orders newest first, optionally within [From, To)
func (r *orderRepository) FindAll(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + orderColumns + ` FROM orders`)

	args := []interface{}{}
	var conditions []string
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("order_date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("order_date < $%d", len(args)))
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY order_date DESC, created_at DESC")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, unavailable("failed to query orders", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, unavailable("failed to scan order row", err)
		}
		orders = append(orders, *o)
	}
	if err = rows.Err(); err != nil {
		return nil, unavailable("error iterating order rows", err)
	}
	return orders, nil
}

// UpdateProcess moves an order from one state to another. The update only
// applies while the stored state still equals from; false means it did not.
func (r *orderRepository) UpdateProcess(ctx context.Context, id string, from, to model.OrderStatus) (bool, error) {
	sql := `UPDATE orders SET process = $1, updated_at = NOW() WHERE id = $2 AND process = $3`
	cmdTag, err := r.db.Exec(ctx, sql, string(to), id, string(from))
	if err != nil {
		return false, unavailable("failed to update order process", err)
	}
	return cmdTag.RowsAffected() == 1, nil
}

// CountByProcess tallies all orders per state
func (r *orderRepository) CountByProcess(ctx context.Context) (map[model.OrderStatus]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT process, COUNT(*) FROM orders GROUP BY process`)
	if err != nil {
		return nil, unavailable("failed to count orders by process", err)
	}
	defer rows.Close()

	counts := make(map[model.OrderStatus]int64, len(model.Statuses))
	for rows.Next() {
		var process string
		var n int64
		if err := rows.Scan(&process, &n); err != nil {
			return nil, unavailable("failed to scan process count", err)
		}
		st, err := model.ParseOrderStatus(process)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptRow, err)
		}
		counts[st] = n
	}
	if err = rows.Err(); err != nil {
		return nil, unavailable("error iterating process counts", err)
	}
	return counts, nil
}
