package models

import "time"

// Customer is an optional registered buyer. Walk-in sales carry no customer
// record; sales snapshot name/phone rather than referencing this row.
type Customer struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Phone     *string   `gorm:"column:phone;uniqueIndex:idx_customers_phone"`
	Email     *string   `gorm:"column:email;uniqueIndex:idx_customers_email"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
