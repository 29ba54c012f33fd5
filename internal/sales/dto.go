package sales

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kiranapos/backend/pkg/enums"
)

// SaleLineDTO is the API shape of one committed sale line.
type SaleLineDTO struct {
	ProductID      string             `json:"product_id"`
	ProductName    string             `json:"product_name"`
	Category       string             `json:"category"`
	Quantity       int                `json:"quantity"`
	MRP            decimal.Decimal    `json:"mrp"`
	LineTotal      decimal.Decimal    `json:"line_total"`
	DiscountType   enums.DiscountType `json:"discount_type"`
	DiscountValue  decimal.Decimal    `json:"discount_value"`
	EffectiveTotal decimal.Decimal    `json:"effective_total"`
}

// SaleDTO is the API shape of a committed sale.
type SaleDTO struct {
	ID            string          `json:"id"`
	Date          time.Time       `json:"date"`
	SoldBy        string          `json:"sold_by"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone *string         `json:"customer_phone,omitempty"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	Lines         []SaleLineDTO   `json:"lines,omitempty"`
}

// ListFilter narrows sale listings. Zero values are ignored.
type ListFilter struct {
	From     time.Time
	To       time.Time
	SoldBy   string
	Customer string
	Limit    int
}
