package enums

import "fmt"

// EmployeeRole gates access to management endpoints.
type EmployeeRole string

const (
	EmployeeRoleAdmin EmployeeRole = "admin"
	EmployeeRoleStaff EmployeeRole = "staff"
)

var validEmployeeRoles = []EmployeeRole{
	EmployeeRoleAdmin,
	EmployeeRoleStaff,
}

// IsValid reports whether the value matches the canonical employee role enum.
func (r EmployeeRole) IsValid() bool {
	for _, candidate := range validEmployeeRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseEmployeeRole converts the raw string to EmployeeRole.
func ParseEmployeeRole(value string) (EmployeeRole, error) {
	for _, candidate := range validEmployeeRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid employee role %q", value)
}
