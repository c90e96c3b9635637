package api

import "github.com/shopspring/decimal"

// Product is the wire representation of a catalog product.
type Product struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Brand        string          `json:"brand"`
	Price        decimal.Decimal `json:"price"`
	CategoryID   *uint           `json:"category_id"`
	CategoryName string          `json:"category_name,omitempty"`
}

// ProductInput is the body of both create and update calls. An update is a
// full replace, so every field is sent every time.
type ProductInput struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"required,max=1000"`
	Brand       string          `json:"brand" validate:"required,max=100"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	CategoryID  *uint           `json:"category_id,omitempty" validate:"omitempty,min=1"`
}

// Input returns the editable fields of p, ready to be sent back as an update.
func (p Product) Input() ProductInput {
	return ProductInput{
		Name:        p.Name,
		Description: p.Description,
		Brand:       p.Brand,
		Price:       p.Price,
		CategoryID:  p.CategoryID,
	}
}

type Category struct {
	ID          uint   `json:"category_id"`
	Name        string `json:"category_name"`
	Description string `json:"description"`
}

type CategoryInput struct {
	Name        string `json:"category_name" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=250"`
}
