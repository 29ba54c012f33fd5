package middleware

import "context"

type contextKey string

const (
	ctxEmployeeID contextKey = "employee_id"
	ctxUsername   contextKey = "username"
	ctxRole       contextKey = "actor_role"
	ctxSessionJTI contextKey = "session_jti"
)

func EmployeeIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxEmployeeID)
}

// UsernameFromContext returns the operator behind the request; checkout,
// returns and stock adjustments record it as the acting user.
func UsernameFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxUsername)
}

func RoleFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxRole)
}

// SessionJTIFromContext returns the token's JTI. It doubles as the cart
// session id so each login works an isolated cart.
func SessionJTIFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxSessionJTI)
}

func stringFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// WithIdentity injects the operator identity; used by tests and the auth middleware.
func WithIdentity(ctx context.Context, employeeID, username, role, jti string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxEmployeeID, employeeID)
	ctx = context.WithValue(ctx, ctxUsername, username)
	ctx = context.WithValue(ctx, ctxRole, role)
	return context.WithValue(ctx, ctxSessionJTI, jti)
}
