package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultProductCategory is applied when no category is given
const DefaultProductCategory = "Widgets"

// LowStockThreshold is the stock level at or below which a product counts as low stock
const LowStockThreshold = 5

// Product represents a catalog product, optionally supplied by one distributor
// Backed by table `products`
type Product struct {
	ID            string           `json:"product_id" db:"product_id"`
	DistributorID *string          `json:"distributor_id" db:"distributor_id"`
	Name          string           `json:"product_name" db:"name"`
	SKU           string           `json:"product_sku" db:"sku"`
	Category      string           `json:"product_category" db:"category"`
	Price         *decimal.Decimal `json:"product_price" db:"price"`
	Stock         int              `json:"product_stock" db:"stock"`
	Status        Status           `json:"product_status" db:"status"`
	Description   *string          `json:"product_description,omitempty" db:"description"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
}

// ErrProductRequiredFields is returned when a required product field is missing
var ErrProductRequiredFields = errors.New("Product_name, Product_sku and Product_price are required")

// Validate checks the presence of required fields
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.SKU) == "" || p.Price == nil {
		return ErrProductRequiredFields
	}
	return nil
}

// Normalize applies defaults
func (p *Product) Normalize() {
	p.SKU = strings.TrimSpace(p.SKU)
	if strings.TrimSpace(p.Category) == "" {
		p.Category = DefaultProductCategory
	}
	if p.Stock < 0 {
		p.Stock = 0
	}
	p.Status = p.Status.OrDefault()
	p.DistributorID = nullIfBlank(p.DistributorID)
}
