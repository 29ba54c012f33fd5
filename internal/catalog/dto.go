package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductInput carries the fields accepted when adding a product.
// MRP is derived from unit price and GST, never supplied by the caller.
type CreateProductInput struct {
	Name         string          `json:"name" validate:"required"`
	Category     string          `json:"category" validate:"required"`
	SupplierID   string          `json:"supplier_id" validate:"required"`
	Quantity     int             `json:"quantity"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	GSTPercent   decimal.Decimal `json:"gst_percent"`
	ReorderLevel int             `json:"reorder_level"`
}

// UpdateProductInput carries optional replacement fields. Nil means keep.
// Quantity is deliberately absent; stock only moves through AdjustQuantity,
// checkout and returns.
type UpdateProductInput struct {
	Name         *string          `json:"name"`
	Category     *string          `json:"category"`
	SupplierID   *string          `json:"supplier_id"`
	CostPrice    *decimal.Decimal `json:"cost_price"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	GSTPercent   *decimal.Decimal `json:"gst_percent"`
	ReorderLevel *int             `json:"reorder_level"`
}

// AdjustQuantityInput describes a manual stock correction.
type AdjustQuantityInput struct {
	Delta  int    `json:"delta" validate:"required"`
	Reason string `json:"reason" validate:"required"`
}

// ProductDTO is the API shape of a product.
type ProductDTO struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	SupplierID   string          `json:"supplier_id"`
	SupplierName string          `json:"supplier_name,omitempty"`
	Quantity     int             `json:"quantity"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	GSTPercent   decimal.Decimal `json:"gst_percent"`
	MRP          decimal.Decimal `json:"mrp"`
	ReorderLevel int             `json:"reorder_level"`
	LowStock     bool            `json:"low_stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ListFilter narrows product listings.
type ListFilter struct {
	Search   string
	Category string
}
