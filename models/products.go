package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog.
// A product may be uncategorized, in which case CategoryID is nil.
type Product struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"not null"`
	Description string          `gorm:"not null;default:''"`
	Brand       string          `gorm:"not null;default:''"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CategoryID  *uint
	Category    *Category `gorm:"foreignKey:CategoryID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Product) TableName() string {
	return "products"
}
