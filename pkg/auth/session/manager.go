package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	apperrors "github.com/kiranapos/backend/pkg/errors"
)

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	SessionKey(accessID string) string
}

// Manager tracks live operator sessions in redis, keyed by the JWT ID. A token
// whose session record is gone (logout or TTL expiry) is rejected even if the
// signature is still valid.
type Manager struct {
	store sessionStore
	ttl   time.Duration
}

// NewManager wires a session manager over the shared redis client.
func NewManager(store sessionStore, ttl time.Duration) (*Manager, error) {
	if store == nil {
		return nil, errors.New("session manager requires a redis store")
	}
	if ttl <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	return &Manager{store: store, ttl: ttl}, nil
}

// Start records a new session for the token's JTI.
func (m *Manager) Start(ctx context.Context, jti, employeeID string) error {
	if jti == "" {
		return errors.New("session jti is required")
	}
	if err := m.store.Set(ctx, m.store.SessionKey(jti), employeeID, m.ttl); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	return nil
}

// Validate checks the session for jti is still live and returns the employee id it belongs to.
func (m *Manager) Validate(ctx context.Context, jti string) (string, error) {
	if jti == "" {
		return "", apperrors.New(apperrors.CodeUnauthorized, "missing session identifier")
	}
	employeeID, err := m.store.Get(ctx, m.store.SessionKey(jti))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", apperrors.New(apperrors.CodeUnauthorized, "session expired or revoked")
		}
		return "", apperrors.Wrap(apperrors.CodeDependency, err, "checking session")
	}
	return employeeID, nil
}

// End revokes the session for jti. Ending an already-gone session is not an error.
func (m *Manager) End(ctx context.Context, jti string) error {
	if jti == "" {
		return nil
	}
	if err := m.store.Del(ctx, m.store.SessionKey(jti)); err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}
	return nil
}
