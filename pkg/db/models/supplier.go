package models

import "time"

// Supplier is a wholesale source for catalog products.
type Supplier struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Company   string    `gorm:"column:company;not null"`
	Phone     string    `gorm:"column:phone;uniqueIndex:idx_suppliers_phone;not null"`
	Email     *string   `gorm:"column:email;uniqueIndex:idx_suppliers_email"`
	Address   *string   `gorm:"column:address"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
