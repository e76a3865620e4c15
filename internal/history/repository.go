package history

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

// Record notes that the user viewed the product. A repeat view keeps the
// existing row; history is one entry per (user, product).
func (r *Repository) Record(ctx context.Context, userID, productID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO view_history (id, user_id, product_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id) DO NOTHING
	`, uuid.New().String(), userID, productID)
	return err
}

func (r *Repository) Recent(ctx context.Context, userID string, limit int) ([]domain.ViewRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, product_id, viewed_at
		FROM view_history
		WHERE user_id = $1
		ORDER BY viewed_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	records := []domain.ViewRecord{}
	for rows.Next() {
		var v domain.ViewRecord
		if err := rows.Scan(&v.ID, &v.UserID, &v.ProductID, &v.ViewedAt); err != nil {
			return nil, err
		}
		records = append(records, v)
	}

	return records, rows.Err()
}
