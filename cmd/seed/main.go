// Seeds the catalog with a starter set of categories and products for
// local development. Safe to re-run: existing slugs are skipped.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/panathinaikos/storefront/internal/catalog"
	"github.com/panathinaikos/storefront/internal/domain"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	postgresURL := os.Getenv("POSTGRES_URL")
	if postgresURL == "" {
		logger.Error("POSTGRES_URL environment variable is required")
		os.Exit(1)
	}

	db, err := sql.Open("postgres", postgresURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	repo := catalog.NewRepository(db)

	categories := []domain.Category{
		{Name: "Clothes", Description: "Jerseys, hoodies, tracksuits"},
		{Name: "Accessories", Description: "Scarves, hats"},
		{Name: "Equipment", Description: "Balls and training equipment"},
	}

	categoryIDs := map[string]string{}
	for i := range categories {
		c := &categories[i]
		if err := repo.CreateCategory(ctx, c); err != nil {
			logger.Warn("skipping category", "name", c.Name, "error", err)
			if err := db.QueryRowContext(ctx,
				`SELECT id FROM categories WHERE slug = $1`, catalog.Slugify(c.Name),
			).Scan(&c.ID); err != nil {
				logger.Error("failed to resolve existing category", "name", c.Name, "error", err)
				os.Exit(1)
			}
		}
		categoryIDs[c.Name] = c.ID
		logger.Info("category ready", "name", c.Name, "id", c.ID)
	}

	price := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }

	products := []domain.Product{
		{
			Name: "Home Jersey 2024-25", CategoryID: categoryIDs["Clothes"],
			Description: "Official home jersey for the 2024-25 season.",
			Price:       price("79.99"), Stock: 50, Size: "M", Type: "MEN",
			Season: "2024-25", Brand: "Panathinaikos", Color: "Green", IsActive: true,
		},
		{
			Name: "Away Jersey 2024-25", CategoryID: categoryIDs["Clothes"],
			Description: "Official away jersey with a unique design.",
			Price:       price("79.99"), Stock: 40, Size: "L", Type: "MEN",
			Season: "2024-25", Brand: "Panathinaikos", Color: "White", IsActive: true,
		},
		{
			Name: "Retro Jersey 1971", CategoryID: categoryIDs["Clothes"],
			Description: "The classic jersey of the 1971 side.",
			Price:       price("69.99"), Stock: 30, Size: "M", Type: "MEN",
			Season: "RETRO", Brand: "Panathinaikos", Color: "Green", IsActive: true,
		},
		{
			Name: "Training Shirt", CategoryID: categoryIDs["Clothes"],
			Description: "Lightweight training shirt.",
			Price:       price("29.99"), Stock: 100, Size: "M", Type: "UNISEX",
			Season: "2024-25", Brand: "Panathinaikos", Color: "Green", IsActive: true,
		},
		{
			Name: "Supporter Scarf", CategoryID: categoryIDs["Accessories"],
			Description: "Knitted scarf in club colors.",
			Price:       price("14.99"), Stock: 200, Size: "ONE", Type: "UNISEX",
			Season: "CLASSIC", Brand: "Panathinaikos", Color: "Green", IsActive: true,
		},
		{
			Name: "Match Ball", CategoryID: categoryIDs["Equipment"],
			Description: "Official size 5 match ball.",
			Price:       price("24.99"), Stock: 80, Size: "ONE", Type: "UNISEX",
			Season: "2024-25", Brand: "Panathinaikos", Color: "White", IsActive: true,
		},
	}

	for i := range products {
		p := &products[i]
		if err := repo.CreateProduct(ctx, p); err != nil {
			logger.Warn("skipping product", "name", p.Name, "error", err)
			continue
		}
		logger.Info("product created", "name", p.Name, "slug", p.Slug, "price", p.Price)
	}

	logger.Info("seed complete")
}
