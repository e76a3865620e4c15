package rating

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

// Upsert creates or overwrites the single rating a user holds for a
// product, keyed by the unique (product_id, user_id) pair. Re-rating
// replaces both value and review.
func (r *Repository) Upsert(ctx context.Context, rating *domain.Rating) error {
	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}

	return r.db.QueryRowContext(ctx, `
		INSERT INTO ratings (id, product_id, user_id, value, review)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (product_id, user_id)
		DO UPDATE SET value = EXCLUDED.value, review = EXCLUDED.review
		RETURNING id, created_at
	`, rating.ID, rating.ProductID, rating.UserID, rating.Value, rating.Review).
		Scan(&rating.ID, &rating.CreatedAt)
}

// Summary derives the arithmetic mean and count for a product. A product
// with no ratings averages 0.
func (r *Repository) Summary(ctx context.Context, productID string) (domain.RatingSummary, error) {
	var s domain.RatingSummary
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(AVG(value), 0)::float8, COUNT(*)
		FROM ratings
		WHERE product_id = $1
	`, productID).Scan(&s.Average, &s.Count)
	return s, err
}

func (r *Repository) ListByProduct(ctx context.Context, productID string) ([]domain.Rating, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, user_id, value, review, created_at
		FROM ratings
		WHERE product_id = $1
		ORDER BY created_at DESC
	`, productID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return collectRatings(rows)
}

func (r *Repository) RecentByUser(ctx context.Context, userID string, limit int) ([]domain.Rating, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, user_id, value, review, created_at
		FROM ratings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return collectRatings(rows)
}

func collectRatings(rows *sql.Rows) ([]domain.Rating, error) {
	ratings := []domain.Rating{}
	for rows.Next() {
		var rt domain.Rating
		if err := rows.Scan(&rt.ID, &rt.ProductID, &rt.UserID, &rt.Value, &rt.Review, &rt.CreatedAt); err != nil {
			return nil, err
		}
		ratings = append(ratings, rt)
	}
	return ratings, rows.Err()
}
