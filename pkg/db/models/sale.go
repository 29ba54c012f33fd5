package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is the committed master record of one checkout. Customer name/phone
// are value-copied at commit time so the historical record survives later
// customer edits. GrandTotal shrinks as refunds apply, floored at zero.
type Sale struct {
	ID            string          `gorm:"column:id;primaryKey"`
	Date          time.Time       `gorm:"column:date;not null"`
	SoldBy        string          `gorm:"column:sold_by;not null"`
	CustomerName  string          `gorm:"column:customer_name;not null"`
	CustomerPhone *string         `gorm:"column:customer_phone"`
	Subtotal      decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null"`
	GrandTotal    decimal.Decimal `gorm:"column:grand_total;type:numeric(12,2);not null"`

	Lines []SaleLine `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}
