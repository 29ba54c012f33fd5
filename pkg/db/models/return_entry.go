package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReturnEntry is an append-only refund record against one sale line. Rows are
// never updated or deleted; cumulative quantities per (sale, product) are
// derived by summing them.
type ReturnEntry struct {
	ID           uint            `gorm:"column:id;primaryKey;autoIncrement"`
	SaleID       string          `gorm:"column:sale_id;index:idx_returns_sale_product;not null"`
	ProductID    string          `gorm:"column:product_id;index:idx_returns_sale_product;not null"`
	Quantity     int             `gorm:"column:quantity;not null"`
	RefundAmount decimal.Decimal `gorm:"column:refund_amount;type:numeric(12,2);not null"`
	Reason       string          `gorm:"column:reason;not null"`
	ProcessedBy  string          `gorm:"column:processed_by;not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}
