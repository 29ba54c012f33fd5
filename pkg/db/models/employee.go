package models

import (
	"time"

	"github.com/kiranapos/backend/pkg/enums"
)

// Employee is a store operator. Credentials are bcrypt hashes; the id is a
// zero-padded sequence string.
type Employee struct {
	ID           string             `gorm:"column:id;primaryKey"`
	Name         string             `gorm:"column:name;not null"`
	Username     string             `gorm:"column:username;uniqueIndex:idx_employees_username;not null"`
	PasswordHash string             `gorm:"column:password_hash;not null"`
	Role         enums.EmployeeRole `gorm:"column:role;not null;default:'staff'"`
	Phone        *string            `gorm:"column:phone"`
	Email        *string            `gorm:"column:email"`
	JoinedAt     time.Time          `gorm:"column:joined_at;autoCreateTime"`
	LastLoginAt  *time.Time         `gorm:"column:last_login_at"`
}
