package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type ProductsRepository struct {
	db *gorm.DB
}

// ErrProductNotFound is returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

func (r *ProductsRepository) GetAllProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Order("products.id ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// GetProductsByCategory returns ErrCategoryNotFound when the category itself
// does not exist, so callers can tell an unknown id from an empty category.
func (r *ProductsRepository) GetProductsByCategory(ctx context.Context, categoryID uint) ([]Product, error) {
	if err := r.categoryExists(ctx, categoryID); err != nil {
		return nil, err
	}

	var products []Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Where("products.category_id = ?", categoryID).
		Order("products.id ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductsRepository) GetProductsByCategoryName(ctx context.Context, name string) ([]Product, error) {
	var category Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	var products []Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Where("products.category_id = ?", category.ID).
		Order("products.id ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductsRepository) GetProductsPage(ctx context.Context, offset, limit int) ([]Product, int64, error) {
	var products []Product
	var total int64

	// Count total before paging
	if err := r.db.WithContext(ctx).Model(&Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Preload("Category").
		Order("products.id ASC").
		Offset(offset).
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *ProductsRepository) GetByID(ctx context.Context, id uint) (*Product, error) {
	var product Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err // Other DB error
	}
	return &product, nil
}

func (r *ProductsRepository) CreateProduct(ctx context.Context, product *Product) error {
	if product.CategoryID != nil {
		if err := r.categoryExists(ctx, *product.CategoryID); err != nil {
			return err
		}
	}
	return r.db.WithContext(ctx).Omit("Category").Create(product).Error
}

// UpdateProduct replaces every writable column of the product with the given ID.
func (r *ProductsRepository) UpdateProduct(ctx context.Context, product *Product) error {
	if product.CategoryID != nil {
		if err := r.categoryExists(ctx, *product.CategoryID); err != nil {
			return err
		}
	}

	res := r.db.WithContext(ctx).Model(&Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"name":        product.Name,
			"description": product.Description,
			"brand":       product.Brand,
			"price":       product.Price,
			"category_id": product.CategoryID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *ProductsRepository) categoryExists(ctx context.Context, id uint) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
