package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"install-scheduling-service/internal/domain"
	"install-scheduling-service/internal/ports"
)

// Postgres-backed implementation of the OrderRepository port.
type PostgresOrderRepository struct{ DB *sql.DB }

func NewPostgresOrderRepository(db *sql.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{DB: db}
}

// ListPendingOrders returns every order awaiting scheduling, oldest first.
func (r *PostgresOrderRepository) ListPendingOrders(ctx context.Context) ([]*domain.Order, error) {
	if r.DB == nil {
		return nil, errors.New("order repository: DB is nil")
	}

	query := `
	SELECT order_id, building_id, attempts
	FROM orders
	WHERE status = $1
	ORDER BY order_id;
	`
	rows, err := r.DB.QueryContext(ctx, query, string(domain.OrderPending))
	if err != nil {
		return nil, fmt.Errorf("list pending orders: query orders table: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0, 64)
	for rows.Next() {
		o := &domain.Order{Status: domain.OrderPending}
		if err := rows.Scan(&o.ID, &o.BuildingID, &o.Attempts); err != nil {
			return nil, fmt.Errorf("list pending orders: scan row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pending orders: row iteration: %w", err)
	}

	return orders, nil
}

// GetLineItems returns the ordered positions of one order.
func (r *PostgresOrderRepository) GetLineItems(ctx context.Context, orderID string) ([]domain.LineItem, error) {
	if r.DB == nil {
		return nil, errors.New("order repository: DB is nil")
	}

	query := `
	SELECT product_id, quantity, dismantle
	FROM order_items
	WHERE order_id = $1;
	`
	rows, err := r.DB.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("get line items: query order_items table: %w", err)
	}
	defer rows.Close()

	var items []domain.LineItem
	for rows.Next() {
		var item domain.LineItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.Dismantle); err != nil {
			return nil, fmt.Errorf("get line items: scan row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get line items: row iteration: %w", err)
	}

	return items, nil
}

// UpdateSchedule commits a schedule entry: scheduling fields and the
// pending -> scheduled transition happen in one statement, so a partially
// scheduled order can never be observed.
func (r *PostgresOrderRepository) UpdateSchedule(ctx context.Context, orderID string, entry domain.ScheduleEntry) error {
	if r.DB == nil {
		return errors.New("order repository: DB is nil")
	}

	query := `
	UPDATE orders
	SET status = $2,
		slot_id = $3,
		sequence = $4,
		scheduled_start = $5,
		scheduled_end = $6,
		travel_minutes = $7,
		travel_km = $8,
		attempts = attempts + 1
	WHERE order_id = $1;
	`
	res, err := r.DB.ExecContext(ctx, query, orderID, string(domain.OrderScheduled),
		entry.SlotID, entry.Sequence, entry.Start, entry.End, entry.TravelMinutes, entry.TravelKm)
	if err != nil {
		return fmt.Errorf("update schedule for order %q: %w", orderID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update schedule for order %q: %w", orderID, ports.ErrNotFound)
	}

	return nil
}

// UpdateStatus transitions an order's status.
func (r *PostgresOrderRepository) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	if r.DB == nil {
		return errors.New("order repository: DB is nil")
	}

	res, err := r.DB.ExecContext(ctx,
		`UPDATE orders SET status = $2 WHERE order_id = $1;`, orderID, string(status))
	if err != nil {
		return fmt.Errorf("update status for order %q: %w", orderID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update status for order %q: %w", orderID, ports.ErrNotFound)
	}

	return nil
}
