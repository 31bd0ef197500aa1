package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecostore/backend/internal/domain/order"
)

const (
	orderColumns = `id, user_id, order_date, delivery_date, shipping_address,
		subtotal, discount, shipping_cost, final_price,
		order_status, payment_method, payment_status,
		payment_id, provider_order_id, coupon_code`

	createOrderSQL = `INSERT INTO orders (id, user_id, order_date, delivery_date, shipping_address,
		subtotal, discount, shipping_cost, final_price,
		order_status, payment_method, payment_status,
		payment_id, provider_order_id, coupon_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	createOrderLineSQL = `INSERT INTO order_items (order_id, product_id, quantity, unit_price, line_price)
		VALUES ($1, $2, $3, $4, $5)`

	updateOrderSQL = `UPDATE orders SET delivery_date = $2, order_status = $3,
		payment_method = $4, payment_status = $5, payment_id = $6, provider_order_id = $7
		WHERE id = $1`

	deleteOrderSQL = `DELETE FROM orders WHERE id = $1`

	getOrderByIDSQL = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	listOrdersByUserSQL = `SELECT ` + orderColumns + ` FROM orders
		WHERE user_id = $1 ORDER BY order_date DESC`

	listAllOrdersSQL = `SELECT ` + orderColumns + ` FROM orders ORDER BY order_date DESC`

	listOrderLinesSQL = `SELECT order_id, product_id, quantity, unit_price, line_price
		FROM order_items WHERE order_id = ANY($1) ORDER BY id`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Orders and
// their lines live in separate tables; Create writes both in one transaction.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists the order and all of its lines atomically.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, createOrderSQL,
		o.ID, o.UserID, o.OrderDate, o.DeliveryDate, o.ShippingAddress,
		o.Subtotal, o.Discount, o.ShippingCost, o.FinalPrice,
		o.Status, o.PaymentMethod, o.PaymentStatus,
		o.PaymentID, o.ProviderOrderID, o.CouponCode,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}

	for _, line := range o.Lines {
		_, err = tx.Exec(ctx, createOrderLineSQL,
			o.ID, line.ProductID, line.Quantity, line.UnitPrice, line.Price,
		)
		if err != nil {
			return fmt.Errorf("creating order line for %q: %w", o.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing order %q: %w", o.ID, err)
	}
	return nil
}

// Update overwrites the mutable fields of an order. Lines are immutable after
// creation and are not touched.
func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	tag, err := r.pool.Exec(ctx, updateOrderSQL,
		o.ID, o.DeliveryDate, o.Status,
		o.PaymentMethod, o.PaymentStatus, o.PaymentID, o.ProviderOrderID,
	)
	if err != nil {
		return fmt.Errorf("updating order %q: %w", o.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// Delete removes an order; its lines cascade.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteOrderSQL, id)
	if err != nil {
		return fmt.Errorf("deleting order %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// GetByID returns a single order with its lines.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	orders := []order.Order{o}
	if err := r.attachLines(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// ListByUser returns the user's orders with lines, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %d: %w", userID, err)
	}

	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %d: %w", userID, err)
	}
	if err := r.attachLines(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListAll returns every order with lines, newest first.
func (r *OrderRepository) ListAll(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listAllOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	if err := r.attachLines(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachLines loads the lines of all given orders in one query and fans them
// out onto the matching order.
func (r *OrderRepository) attachLines(ctx context.Context, orders []order.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
	}

	rows, err := r.pool.Query(ctx, listOrderLinesSQL, ids)
	if err != nil {
		return fmt.Errorf("listing order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID string
			line    order.Line
		)
		if err := rows.Scan(&orderID, &line.ProductID, &line.Quantity, &line.UnitPrice, &line.Price); err != nil {
			return fmt.Errorf("scanning order line: %w", err)
		}
		if i, ok := index[orderID]; ok {
			orders[i].Lines = append(orders[i].Lines, line)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("listing order lines: %w", err)
	}
	return nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o             order.Order
		status        string
		paymentMethod string
		paymentStatus string
	)
	err := row.Scan(
		&o.ID, &o.UserID, &o.OrderDate, &o.DeliveryDate, &o.ShippingAddress,
		&o.Subtotal, &o.Discount, &o.ShippingCost, &o.FinalPrice,
		&status, &paymentMethod, &paymentStatus,
		&o.PaymentID, &o.ProviderOrderID, &o.CouponCode,
	)
	o.Status = order.Status(status)
	o.PaymentMethod = order.PaymentMethod(paymentMethod)
	o.PaymentStatus = order.PaymentStatus(paymentStatus)
	return o, err
}
