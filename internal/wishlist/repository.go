package wishlist

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/panathinaikos/storefront/internal/domain"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Toggle flips wishlist membership for (user, product) and reports the
// resulting state: true when the product is now on the list.
func (r *Repository) Toggle(ctx context.Context, userID, productID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM wishlist_entries
		WHERE user_id = $1 AND product_id = $2
	`, userID, productID)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected > 0 {
		return false, nil
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO wishlist_entries (id, user_id, product_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id) DO NOTHING
	`, uuid.New().String(), userID, productID)
	if err != nil {
		return false, err
	}

	return true, nil
}

func (r *Repository) List(ctx context.Context, userID string, limit int) ([]domain.WishlistEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, product_id, added_at
		FROM wishlist_entries
		WHERE user_id = $1
		ORDER BY added_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	entries := []domain.WishlistEntry{}
	for rows.Next() {
		var e domain.WishlistEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.ProductID, &e.AddedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
