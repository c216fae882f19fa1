package mysql

import (
	"context"
	"database/sql"

	"ordering-system/internal/domain"
)

// MySQLOrderStore reads order counts from the checkout_orders table owned by
// the ordering web app. Counts are over distinct order codes: one checkout
// row exists per line item.
type MySQLOrderStore struct {
	db *sql.DB
}

func NewMySQLOrderStore(db *sql.DB) *MySQLOrderStore {
	return &MySQLOrderStore{db: db}
}

func (r *MySQLOrderStore) CountPendingOrders(ctx context.Context) (int, error) {
	query := `
        SELECT COUNT(DISTINCT order_code)
        FROM checkout_orders
        WHERE status = ?
    `
	var count int
	err := r.db.QueryRowContext(ctx, query, domain.StatusPending).Scan(&count)
	return count, err
}

func (r *MySQLOrderStore) CountUnseenOrdersForOwner(ctx context.Context) (int, error) {
	query := `
        SELECT COUNT(DISTINCT order_code)
        FROM checkout_orders
        WHERE status = ? AND is_seen_by_owner = FALSE
    `
	var count int
	err := r.db.QueryRowContext(ctx, query, domain.StatusPending).Scan(&count)
	return count, err
}

func (r *MySQLOrderStore) CountUnseenOrdersForCustomer(ctx context.Context, email string) (int, error) {
	query := `
        SELECT COUNT(DISTINCT order_code)
        FROM checkout_orders
        WHERE email = ?
          AND status IN (?, ?, ?, ?, ?, ?, ?)
          AND is_seen_by_customer = FALSE
    `
	args := make([]any, 0, len(domain.CustomerVisibleStatuses)+1)
	args = append(args, email)
	for _, status := range domain.CustomerVisibleStatuses {
		args = append(args, status)
	}

	var count int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}
