package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/portomercado/porto/internal/domain"
)

// OrderStore persists orders and their items. Creation is transactional:
// either the order row and every item land together, or nothing does.
type OrderStore struct {
	pool *pgxpool.Pool
}

// NewOrderStore creates a new PostgreSQL-backed order store.
func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

const orderColumns = `id, user_id, address_id, status, delivery_type,
	scheduled_date, scheduled_period, payment_method,
	discount_cents, total_cents, created_at, updated_at`

// CreateOrderWithItems inserts the order and all its items in one
// transaction and fills in generated IDs and timestamps.
func (s *OrderStore) CreateOrderWithItems(ctx context.Context, order *domain.Order, items []domain.OrderItem) error {
	if len(items) == 0 {
		return domain.ErrEmptyCart
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.Internal(err, "order.create", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	scheduledDate, err := nullableDate(order.ScheduledDate)
	if err != nil {
		return domain.Invalid("order.create", "scheduled date must be YYYY-MM-DD")
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (user_id, address_id, status, delivery_type,
			scheduled_date, scheduled_period, payment_method,
			discount_cents, total_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		order.UserID, order.AddressID, order.Status, order.DeliveryType,
		scheduledDate, nullableString(string(order.ScheduledPeriod)), order.PaymentMethod,
		order.DiscountCents, order.TotalCents,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return domain.Internal(err, "order.create", "failed to insert order")
	}

	for i := range items {
		items[i].OrderID = order.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, product_id, sku, name, quantity, unit_price_cents)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			items[i].OrderID, items[i].ProductID, items[i].SKU, items[i].Name,
			items[i].Quantity, items[i].UnitPriceCents,
		).Scan(&items[i].ID)
		if err != nil {
			return domain.Internal(err, "order.create", "failed to insert order item")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Internal(err, "order.create", "failed to commit order")
	}
	return nil
}

// GetOrder retrieves one order by ID.
func (s *OrderStore) GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	row := s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns), orderID)
	order, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, domain.Internal(err, "order.get", "failed to load order")
	}
	return order, nil
}

// GetOrderItems retrieves the items of one order in insertion order.
func (s *OrderStore) GetOrderItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, order_id, product_id, sku, name, quantity, unit_price_cents
		FROM order_items
		WHERE order_id = $1
		ORDER BY id`, orderID)
	if err != nil {
		return nil, domain.Internal(err, "order.get_items", "failed to load order items")
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.SKU,
			&item.Name, &item.Quantity, &item.UnitPriceCents); err != nil {
			return nil, domain.Internal(err, "order.get_items", "failed to scan order item")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "order.get_items", "failed to read order items")
	}
	return items, nil
}

// ListForUser returns the customer's orders in the given status set,
// newest first. An empty set matches every status.
func (s *OrderStore) ListForUser(ctx context.Context, userID uuid.UUID, statuses []domain.OrderStatus) ([]domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE user_id = $1`, orderColumns)
	args := []any{userID}
	if len(statuses) > 0 {
		query += ` AND status = ANY($2)`
		args = append(args, statusStrings(statuses))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Internal(err, "order.list", "failed to list orders")
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, domain.Internal(err, "order.list", "failed to scan order")
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "order.list", "failed to read orders")
	}
	return orders, nil
}

// ListAll returns orders across customers for the admin screen, with
// customer contact fields and item counts, newest first.
func (s *OrderStore) ListAll(ctx context.Context, statuses []domain.OrderStatus, limit int) ([]domain.AdminOrder, error) {
	if limit <= 0 {
		limit = 100
	}
	query := fmt.Sprintf(`
		SELECT %s, u.email, u.phone,
			(SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id) AS item_count
		FROM orders o
		JOIN users u ON u.id = o.user_id`, prefixedOrderColumns("o"))
	args := []any{}
	if len(statuses) > 0 {
		query += ` WHERE o.status = ANY($1)`
		args = append(args, statusStrings(statuses))
	}
	query += fmt.Sprintf(` ORDER BY o.created_at DESC LIMIT %d`, limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Internal(err, "order.list_all", "failed to list orders")
	}
	defer rows.Close()

	var orders []domain.AdminOrder
	for rows.Next() {
		var (
			ao              domain.AdminOrder
			scheduledDate   *time.Time
			scheduledPeriod *string
			phone           *string
		)
		if err := rows.Scan(&ao.ID, &ao.UserID, &ao.AddressID, &ao.Status, &ao.DeliveryType,
			&scheduledDate, &scheduledPeriod, &ao.PaymentMethod,
			&ao.DiscountCents, &ao.TotalCents, &ao.CreatedAt, &ao.UpdatedAt,
			&ao.CustomerEmail, &phone, &ao.ItemCount); err != nil {
			return nil, domain.Internal(err, "order.list_all", "failed to scan order")
		}
		applyNullables(&ao.Order, scheduledDate, scheduledPeriod)
		if phone != nil {
			ao.CustomerPhone = *phone
		}
		orders = append(orders, ao)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "order.list_all", "failed to read orders")
	}
	return orders, nil
}

// TransitionStatus applies a status change only if the order is still in
// the expected state, closing the race between two operators. The caller
// has already checked the transition table against `from`.
func (s *OrderStore) TransitionStatus(ctx context.Context, orderID uuid.UUID, from, to domain.OrderStatus) (*domain.Order, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE orders
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
		RETURNING %s`, orderColumns), to, orderID, from)

	order, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either the order vanished or its status moved under us.
		if _, getErr := s.GetOrder(ctx, orderID); getErr != nil {
			return nil, getErr
		}
		return nil, domain.ErrIllegalTransition
	}
	if err != nil {
		return nil, domain.Internal(err, "order.transition", "failed to update order status")
	}
	return order, nil
}

// CancelDanglingOrders cancels pending orders that have no items and are
// older than the grace window. Returns how many were canceled.
func (s *OrderStore) CancelDanglingOrders(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	tag, err := s.pool.Exec(ctx, `
		UPDATE orders o
		SET status = $1, updated_at = now()
		WHERE o.status = $2
		  AND o.created_at < $3
		  AND NOT EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = o.id)`,
		domain.StatusCanceled, domain.StatusPending, cutoff)
	if err != nil {
		return 0, domain.Internal(err, "order.cancel_dangling", "failed to cancel dangling orders")
	}
	return tag.RowsAffected(), nil
}

// =============================================================================
// Helpers
// =============================================================================

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		order           domain.Order
		scheduledDate   *time.Time
		scheduledPeriod *string
	)
	err := row.Scan(&order.ID, &order.UserID, &order.AddressID, &order.Status, &order.DeliveryType,
		&scheduledDate, &scheduledPeriod, &order.PaymentMethod,
		&order.DiscountCents, &order.TotalCents, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	applyNullables(&order, scheduledDate, scheduledPeriod)
	return &order, nil
}

func applyNullables(order *domain.Order, scheduledDate *time.Time, scheduledPeriod *string) {
	if scheduledDate != nil {
		order.ScheduledDate = scheduledDate.Format(domain.ScheduledDateLayout)
	}
	if scheduledPeriod != nil {
		order.ScheduledPeriod = domain.DeliveryPeriod(*scheduledPeriod)
	}
}

func nullableDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	day, err := time.Parse(domain.ScheduledDateLayout, value)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func nullableString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func statusStrings(statuses []domain.OrderStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func prefixedOrderColumns(alias string) string {
	return fmt.Sprintf(`%[1]s.id, %[1]s.user_id, %[1]s.address_id, %[1]s.status, %[1]s.delivery_type,
	%[1]s.scheduled_date, %[1]s.scheduled_period, %[1]s.payment_method,
	%[1]s.discount_cents, %[1]s.total_cents, %[1]s.created_at, %[1]s.updated_at`, alias)
}
