package customers

import "time"

// CreateCustomerInput carries the fields accepted when registering a customer.
type CreateCustomerInput struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// CustomerDTO is the API shape of a customer.
type CustomerDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
