package cart

import (
	"github.com/shopspring/decimal"

	"github.com/kiranapos/backend/pkg/enums"
)

// Line is one cart position. MRP is snapshotted when the line is added so a
// later catalog reprice does not change an open cart.
type Line struct {
	ID             string             `json:"id"`
	ProductID      string             `json:"product_id"`
	ProductName    string             `json:"product_name"`
	Category       string             `json:"category"`
	Quantity       int                `json:"quantity"`
	MRP            decimal.Decimal    `json:"mrp"`
	DiscountType   enums.DiscountType `json:"discount_type"`
	DiscountValue  decimal.Decimal    `json:"discount_value"`
	LineTotal      decimal.Decimal    `json:"line_total"`
	EffectiveTotal decimal.Decimal    `json:"effective_total"`
}

// AddItemInput describes a product being rung up.
type AddItemInput struct {
	ProductID     string          `json:"product_id" validate:"required"`
	Quantity      int             `json:"quantity" validate:"required,gt=0"`
	DiscountType  string          `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
}

// CartDTO is the API shape of an open cart.
type CartDTO struct {
	Lines    []Line          `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
}
