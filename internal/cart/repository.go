package cart

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/panathinaikos/storefront/internal/domain"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// GetOrCreate returns the user's single cart, creating an empty one on
// first access. Idempotent; the cart row survives checkout.
func (r *Repository) GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error) {
	cart := &domain.Cart{}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO carts (id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = now()
		RETURNING id, user_id, created_at, updated_at
	`, uuid.New().String(), userID).Scan(
		&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AddLine adds delta to the line for (cart, product), inserting the line
// when absent. The unique constraint on (cart_id, product_id) guarantees
// quantity accumulation never duplicates a line.
func (r *Repository) AddLine(ctx context.Context, cartID, productID string, delta int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cart_lines (id, cart_id, product_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity
	`, uuid.New().String(), cartID, productID, delta)
	return err
}

// Lines returns the cart's lines priced live from the catalog.
func (r *Repository) Lines(ctx context.Context, cartID string) ([]domain.CartLine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT cl.id, cl.cart_id, cl.product_id, p.name, p.price, cl.quantity
		FROM cart_lines cl
		JOIN products p ON p.id = cl.product_id
		WHERE cl.cart_id = $1
		ORDER BY p.name
	`, cartID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	lines := []domain.CartLine{}
	for rows.Next() {
		var l domain.CartLine
		if err := rows.Scan(&l.ID, &l.CartID, &l.ProductID, &l.ProductName, &l.UnitPrice, &l.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}

	return lines, rows.Err()
}

// SetLineQuantity overwrites a line's quantity, deleting the line when the
// new quantity is zero or less. Lines not owned by userID are
// domain.ErrNotFound.
func (r *Repository) SetLineQuantity(ctx context.Context, userID, lineID string, quantity int) error {
	if quantity <= 0 {
		return r.RemoveLine(ctx, userID, lineID)
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE cart_lines cl
		SET quantity = $1
		FROM carts c
		WHERE cl.id = $2 AND cl.cart_id = c.id AND c.user_id = $3
	`, quantity, lineID, userID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (r *Repository) RemoveLine(ctx context.Context, userID, lineID string) error {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_lines cl
		USING carts c
		WHERE cl.id = $1 AND cl.cart_id = c.id AND c.user_id = $2
	`, lineID, userID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// Line fetches a single line with ownership enforced.
func (r *Repository) Line(ctx context.Context, userID, lineID string) (*domain.CartLine, error) {
	l := &domain.CartLine{}
	err := r.db.QueryRowContext(ctx, `
		SELECT cl.id, cl.cart_id, cl.product_id, p.name, p.price, cl.quantity
		FROM cart_lines cl
		JOIN carts c ON c.id = cl.cart_id
		JOIN products p ON p.id = cl.product_id
		WHERE cl.id = $1 AND c.user_id = $2
	`, lineID, userID).Scan(&l.ID, &l.CartID, &l.ProductID, &l.ProductName, &l.UnitPrice, &l.Quantity)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Total is computed live: current catalog price times quantity, summed.
// It changes when a product's price changes, unlike an order's total.
func (r *Repository) Total(ctx context.Context, cartID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(p.price * cl.quantity), 0)
		FROM cart_lines cl
		JOIN products p ON p.id = cl.product_id
		WHERE cl.cart_id = $1
	`, cartID).Scan(&total)
	return total, err
}

// ItemCount is the sum of quantities across lines.
func (r *Repository) ItemCount(ctx context.Context, cartID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(quantity), 0)
		FROM cart_lines
		WHERE cart_id = $1
	`, cartID).Scan(&count)
	return count, err
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
