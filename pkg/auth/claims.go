package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/kiranapos/backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	EmployeeID string
	Username   string
	Role       enums.EmployeeRole
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to operator terminals.
type AccessTokenClaims struct {
	EmployeeID string             `json:"employee_id"`
	Username   string             `json:"username"`
	Role       enums.EmployeeRole `json:"role"`
	jwt.RegisteredClaims
}
