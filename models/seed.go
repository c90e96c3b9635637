package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type seedProduct struct {
	Name        string
	Description string
	Brand       string
	Price       string
}

var seedCatalog = []struct {
	Category Category
	Products []seedProduct
}{
	{
		Category: Category{Name: "Electronics", Description: "Gadgets and devices"},
		Products: []seedProduct{
			{Name: "iPhone", Description: "Great camera and performance", Brand: "Apple", Price: "70000"},
		},
	},
	{
		Category: Category{Name: "Cosmetics", Description: "Beauty and skin-care"},
		Products: []seedProduct{
			{Name: "Face Cream", Description: "Soft and smooth skin", Brand: "Fair & Lovely", Price: "500"},
		},
	},
}

// Seed inserts the sample catalog. Categories that already exist are skipped
// together with their products, so running it twice is harmless.
func Seed(ctx context.Context, db *gorm.DB) (int, error) {
	categories := NewCategoriesRepository(db)
	products := NewProductsRepository(db)

	inserted := 0
	for _, entry := range seedCatalog {
		category := entry.Category
		if err := categories.CreateCategory(ctx, &category); err != nil {
			if errors.Is(err, ErrCategoryExists) {
				continue
			}
			return inserted, fmt.Errorf("seed category %q: %w", category.Name, err)
		}

		for _, sp := range entry.Products {
			product := Product{
				Name:        sp.Name,
				Description: sp.Description,
				Brand:       sp.Brand,
				Price:       decimal.RequireFromString(sp.Price),
				CategoryID:  &category.ID,
			}
			if err := products.CreateProduct(ctx, &product); err != nil {
				return inserted, fmt.Errorf("seed product %q: %w", sp.Name, err)
			}
			inserted++
		}
	}
	return inserted, nil
}
