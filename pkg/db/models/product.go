package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item. MRP is derived from unit price and GST percent
// and recomputed whenever either changes. Quantity only moves through the
// transactional paths (checkout debit, return credit, manual adjustment).
type Product struct {
	ID           string          `gorm:"column:id;primaryKey"`
	Name         string          `gorm:"column:name;not null"`
	Category     string          `gorm:"column:category;not null"`
	SupplierID   string          `gorm:"column:supplier_id;not null"`
	Quantity     int             `gorm:"column:quantity;not null;default:0"`
	CostPrice    decimal.Decimal `gorm:"column:cost_price;type:numeric(12,2);not null"`
	UnitPrice    decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	GSTPercent   decimal.Decimal `gorm:"column:gst_percent;type:numeric(5,2);not null"`
	MRP          decimal.Decimal `gorm:"column:mrp;type:numeric(12,2);not null"`
	ReorderLevel int             `gorm:"column:reorder_level;not null;default:0"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}
