package models

import (
	"time"

	"github.com/kiranapos/backend/pkg/enums"
)

// StockLogEntry is the append-only audit trail of every quantity mutation:
// checkout debits, return credits, and manual adjustments all write one.
type StockLogEntry struct {
	ID          uint                  `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID   string                `gorm:"column:product_id;index:idx_stock_logs_product;not null"`
	ProductName string                `gorm:"column:product_name;not null"`
	ChangeType  enums.StockChangeType `gorm:"column:change_type;not null"`
	Quantity    int                   `gorm:"column:quantity;not null"`
	Reason      string                `gorm:"column:reason;not null"`
	ChangedBy   string                `gorm:"column:changed_by;not null"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
}
