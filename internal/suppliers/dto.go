package suppliers

import "time"

// CreateSupplierInput carries the fields accepted when registering a supplier.
type CreateSupplierInput struct {
	Name    string `json:"name" validate:"required"`
	Company string `json:"company" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// UpdateSupplierInput carries optional replacement fields. Nil means keep.
type UpdateSupplierInput struct {
	Name    *string `json:"name"`
	Company *string `json:"company"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

// SupplierDTO is the API shape of a supplier.
type SupplierDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Company   string    `json:"company"`
	Phone     string    `json:"phone"`
	Email     *string   `json:"email,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
