package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kiranapos/backend/pkg/enums"
)

// SaleLine snapshots one cart line inside a committed sale. Product name and
// category are copied so the line stays meaningful if the product changes.
// EffectiveTotal starts post-discount and shrinks as refunds apply.
type SaleLine struct {
	ID             uint               `gorm:"column:id;primaryKey;autoIncrement"`
	SaleID         string             `gorm:"column:sale_id;index:idx_sale_lines_sale;not null"`
	ProductID      string             `gorm:"column:product_id;not null"`
	ProductName    string             `gorm:"column:product_name;not null"`
	Category       string             `gorm:"column:category;not null"`
	Quantity       int                `gorm:"column:quantity;not null"`
	MRP            decimal.Decimal    `gorm:"column:mrp;type:numeric(12,2);not null"`
	LineTotal      decimal.Decimal    `gorm:"column:line_total;type:numeric(12,2);not null"`
	DiscountType   enums.DiscountType `gorm:"column:discount_type;not null;default:'flat'"`
	DiscountValue  decimal.Decimal    `gorm:"column:discount_value;type:numeric(12,2);not null"`
	EffectiveTotal decimal.Decimal    `gorm:"column:effective_total;type:numeric(12,2);not null"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
}
