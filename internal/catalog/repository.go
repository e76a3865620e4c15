package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

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

const productColumns = `
	id, name, slug, category_id, description, price, stock,
	size, type, season, brand, color, image_url, is_active, views,
	created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*domain.Product, error) {
	p := &domain.Product{}
	var imageURL sql.NullString
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.CategoryID, &p.Description, &p.Price,
		&p.Stock, &p.Size, &p.Type, &p.Season, &p.Brand, &p.Color,
		&imageURL, &p.IsActive, &p.Views, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.ImageURL = imageURL.String
	return p, nil
}

// FindActiveProduct resolves a product by id or slug. Inactive and missing
// products are both domain.ErrNotFound.
func (r *Repository) FindActiveProduct(ctx context.Context, idOrSlug string) (*domain.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE (id::text = $1 OR slug = $1) AND is_active
	`, idOrSlug))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

type ProductFilter struct {
	Search     string
	CategoryID string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Size       string
	Type       string
	Season     string
	SortBy     string
	Limit      int
	Offset     int
}

// List returns active products matching the filter. Query shape follows
// the storefront filter form: substring search over name, description and
// color, exact matches on the attribute fields, optional price bounds.
func (r *Repository) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	where := []string{"is_active"}
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		ph := arg("%" + f.Search + "%")
		where = append(where, fmt.Sprintf(
			"(name ILIKE %s OR description ILIKE %s OR color ILIKE %s)", ph, ph, ph))
	}
	if f.CategoryID != "" {
		where = append(where, "category_id = "+arg(f.CategoryID))
	}
	if f.MinPrice != nil {
		where = append(where, "price >= "+arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		where = append(where, "price <= "+arg(*f.MaxPrice))
	}
	if f.Size != "" {
		where = append(where, "size = "+arg(f.Size))
	}
	if f.Type != "" {
		where = append(where, "type = "+arg(f.Type))
	}
	if f.Season != "" {
		where = append(where, "season = "+arg(f.Season))
	}

	orderBy := "created_at DESC"
	switch f.SortBy {
	case "price_asc":
		orderBy = "price ASC"
	case "price_desc":
		orderBy = "price DESC"
	case "name_asc":
		orderBy = "name ASC"
	case "newest":
		orderBy = "created_at DESC"
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 12
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE %s
		ORDER BY %s
		LIMIT %s OFFSET %s`,
		productColumns, strings.Join(where, " AND "), orderBy,
		arg(limit), arg(max(f.Offset, 0)))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}

	return products, rows.Err()
}

// IncrementViews bumps the view counter with a single atomic update.
// Callers treat it as fire-and-forget; a lost increment under a crash is
// accepted behavior, the counter is not transactional with anything.
func (r *Repository) IncrementViews(ctx context.Context, productID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE products SET views = views + 1 WHERE id = $1
	`, productID)
	return err
}

// CreateCategory inserts a category, deriving the slug from the name when
// absent.
func (r *Repository) CreateCategory(ctx context.Context, c *domain.Category) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, slug, description, parent_id)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.Name, c.Slug, c.Description, c.ParentID)
	return err
}

func (r *Repository) CreateProduct(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (
			id, name, slug, category_id, description, price, stock,
			size, type, season, brand, color, image_url, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NULLIF($13, ''), $14)
	`, p.ID, p.Name, p.Slug, p.CategoryID, p.Description, p.Price, p.Stock,
		p.Size, p.Type, p.Season, p.Brand, p.Color, p.ImageURL, p.IsActive)
	return err
}
