package employees

import (
	"time"

	"github.com/kiranapos/backend/pkg/enums"
)

// CreateEmployeeInput carries the fields accepted when registering an operator.
type CreateEmployeeInput struct {
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

// LoginInput carries operator credentials.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// EmployeeDTO is the API shape of an operator. Password hashes never leave
// the service.
type EmployeeDTO struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Username    string             `json:"username"`
	Role        enums.EmployeeRole `json:"role"`
	Phone       *string            `json:"phone,omitempty"`
	Email       *string            `json:"email,omitempty"`
	JoinedAt    time.Time          `json:"joined_at"`
	LastLoginAt *time.Time         `json:"last_login_at,omitempty"`
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token    string      `json:"token"`
	Employee EmployeeDTO `json:"employee"`
}
