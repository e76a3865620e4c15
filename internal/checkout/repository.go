package checkout

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/panathinaikos/storefront/internal/domain"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Checkout turns the user's cart into an order inside one transaction:
// read the lines with current prices, create the order and its lines with
// those prices frozen, then clear the cart. Any failure rolls the whole
// sequence back and leaves the cart untouched. Product stock is neither
// checked nor decremented; that matches the storefront's behavior.
func (r *Repository) Checkout(ctx context.Context, userID, shippingAddress string) (*domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var cartID string
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM carts WHERE user_id = $1
	`, userID).Scan(&cartID)
	if err == sql.ErrNoRows {
		return nil, domain.ErrEmptyCart
	}
	if err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT cl.product_id, cl.quantity, p.price
		FROM cart_lines cl
		JOIN products p ON p.id = cl.product_id
		WHERE cl.cart_id = $1
	`, cartID)
	if err != nil {
		return nil, err
	}

	var lines []domain.OrderLine
	total := decimal.Zero
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ProductID, &line.Quantity, &line.UnitPrice); err != nil {
			_ = rows.Close()
			return nil, err
		}
		lines = append(lines, line)
		total = total.Add(line.Subtotal())
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	order := &domain.Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		Status:          domain.OrderStatusPending,
		Total:           total,
		ShippingAddress: shippingAddress,
		CreatedAt:       time.Now().UTC(),
	}
	order.UpdatedAt = order.CreatedAt

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, status, total, shipping_address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`, order.ID, order.UserID, order.Status, order.Total, order.ShippingAddress, order.CreatedAt)
	if err != nil {
		return nil, err
	}

	for i := range lines {
		lines[i].ID = uuid.New().String()
		lines[i].OrderID = order.ID
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_lines (id, order_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4, $5)
		`, lines[i].ID, order.ID, lines[i].ProductID, lines[i].Quantity, lines[i].UnitPrice)
		if err != nil {
			return nil, err
		}
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM cart_lines WHERE cart_id = $1
	`, cartID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	order.Lines = lines
	return order, nil
}

// GetByID returns the order only when owned by userID; anything else is
// domain.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	order := &domain.Order{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, status, total, shipping_address, created_at, updated_at
		FROM orders
		WHERE id = $1 AND user_id = $2
	`, orderID, userID).Scan(
		&order.ID, &order.UserID, &order.Status, &order.Total,
		&order.ShippingAddress, &order.CreatedAt, &order.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity, price
		FROM order_lines
		WHERE order_id = $1
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.Quantity, &line.UnitPrice); err != nil {
			return nil, err
		}
		order.Lines = append(order.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return order, nil
}

// ListByUser returns the user's orders newest first, lines loaded in a
// single batched query.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, status, total, shipping_address, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	orderMap := make(map[string]*domain.Order)
	var orderIDs []string

	for rows.Next() {
		var order domain.Order
		err := rows.Scan(&order.ID, &order.UserID, &order.Status, &order.Total,
			&order.ShippingAddress, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return nil, err
		}
		order.Lines = []domain.OrderLine{}
		orderMap[order.ID] = &order
		orderIDs = append(orderIDs, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(orderIDs) == 0 {
		return []domain.Order{}, nil
	}

	lineRows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity, price
		FROM order_lines
		WHERE order_id = ANY($1)
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer func() { _ = lineRows.Close() }()

	for lineRows.Next() {
		var line domain.OrderLine
		if err := lineRows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.Quantity, &line.UnitPrice); err != nil {
			return nil, err
		}
		order := orderMap[line.OrderID]
		order.Lines = append(order.Lines, line)
	}
	if err := lineRows.Err(); err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		orders = append(orders, *orderMap[id])
	}

	return orders, nil
}

// UpdateStatus is the administrative transition; order lines and totals
// stay frozen regardless.
func (r *Repository) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	if !status.Valid() {
		return &domain.ValidationError{Field: "status", Reason: "unknown order status"}
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = now()
		WHERE id = $2
	`, status, orderID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}
