package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mercadito/backend/internal/entity"
	"github.com/mercadito/backend/internal/repository"
)

const orderColumns = "id, user_id, status, total_amount, delivery_address, municipality, phone, delivery_time, payment_method, notes, created_at"

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates an OrderRepository backed by Postgres.
func NewOrderRepository(db *sql.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// Create writes the order header, all line items and the stock decrements
// in one transaction, so a failed item insert or an oversold product rolls
// everything back.
func (r *orderRepository) Create(ctx context.Context, o *entity.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO orders ("+orderColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)",
		o.ID, o.UserID, o.Status, o.TotalAmount, o.DeliveryAddress, o.Municipality,
		o.Phone, o.DeliveryTime, o.PaymentMethod, o.Notes, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO order_items (order_id, product_id, product_name, quantity, price_at_purchase) VALUES ($1, $2, $3, $4, $5)",
			o.ID, item.ProductID, item.ProductName, item.Quantity, item.PriceAtPurchase,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}

		// Guarded decrement: zero rows affected means the stock check-then-act
		// race lost, and the whole order rolls back.
		res, err := tx.ExecContext(ctx,
			"UPDATE products SET stock = stock - $1 WHERE id = $2 AND stock >= $1",
			item.Quantity, item.ProductID,
		)
		if err != nil {
			return fmt.Errorf("failed to update product stock: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("%w: product %s", entity.ErrInsufficientStock, item.ProductID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id)

	var o entity.Order
	err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalAmount, &o.DeliveryAddress,
		&o.Municipality, &o.Phone, &o.DeliveryTime, &o.PaymentMethod, &o.Notes, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	items, err := r.findItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]entity.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalAmount, &o.DeliveryAddress,
			&o.Municipality, &o.Phone, &o.DeliveryTime, &o.PaymentMethod, &o.Notes, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.findItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (r *orderRepository) findItems(ctx context.Context, orderID string) ([]entity.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT order_id, product_id, product_name, quantity, price_at_purchase FROM order_items WHERE order_id = $1",
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.PriceAtPurchase); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *orderRepository) FindByUser(ctx context.Context, userID string) ([]entity.Order, error) {
	return r.queryOrders(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE user_id = $1 ORDER BY created_at DESC", userID)
}

func (r *orderRepository) FindAll(ctx context.Context) ([]entity.Order, error) {
	orders, err := r.queryOrders(ctx,
		"SELECT "+orderColumns+" FROM orders ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}

	// Attach customer contact info from profiles for the admin listing.
	for i := range orders {
		var name, email string
		err := r.db.QueryRowContext(ctx,
			"SELECT full_name, email FROM profiles WHERE user_id = $1", orders[i].UserID,
		).Scan(&name, &email)
		if err != nil && err != sql.ErrNoRows {
			return nil, fmt.Errorf("failed to query customer profile: %w", err)
		}
		orders[i].CustomerName = name
		orders[i].CustomerEmail = email
	}
	return orders, nil
}

func (r *orderRepository) FindSince(ctx context.Context, since time.Time) ([]entity.Order, error) {
	return r.queryOrders(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE created_at >= $1 ORDER BY created_at DESC", since)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, from, to entity.OrderStatus) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE orders SET status = $3 WHERE id = $1 AND status = $2",
		id, from, to,
	)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Either the order vanished or someone changed it first.
		return entity.ErrInvalidTransition
	}
	return nil
}

func (r *orderRepository) HasQualifyingPurchase(ctx context.Context, userID, productID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM order_items oi
			JOIN orders o ON o.id = oi.order_id
			WHERE oi.product_id = $1
			  AND o.user_id = $2
			  AND o.status IN ('confirmed', 'preparing', 'shipped', 'delivered')
		)`, productID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check purchase history: %w", err)
	}
	return exists, nil
}
