package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kiranapos/backend/pkg/logger"
)

type memoryIdemStore struct {
	mu      sync.Mutex
	records map[string]string
}

func newMemoryIdemStore() *memoryIdemStore {
	return &memoryIdemStore{records: make(map[string]string)}
}

func (s *memoryIdemStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.records[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (s *memoryIdemStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; ok {
		return false, nil
	}
	s.records[key] = value.(string)
	return true, nil
}

func (s *memoryIdemStore) IdempotencyKey(scope, id string) string {
	return "kpos:idempotency:" + scope + ":" + id
}

func (s *memoryIdemStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.records, key)
	}
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func wrapHandler(store *memoryIdemStore, calls *int) http.Handler {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true}`))
	})
	return Idempotency(store, testLogger())(inner)
}

func TestIdempotencyRequiresHeaderOnCheckout(t *testing.T) {
	handler := wrapHandler(newMemoryIdemStore(), new(int))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without idempotency key got %d", resp.Code)
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newMemoryIdemStore()
	calls := 0
	handler := wrapHandler(store, &calls)

	body := `{"customer_id":"001"}`

	first := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	first.Header.Set("Idempotency-Key", "abc-123")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, first)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 on first call got %d", resp.Code)
	}

	second := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	second.Header.Set("Idempotency-Key", "abc-123")
	replay := httptest.NewRecorder()
	handler.ServeHTTP(replay, second)

	if replay.Code != http.StatusCreated {
		t.Fatalf("expected replayed 201 got %d", replay.Code)
	}
	if replay.Body.String() != resp.Body.String() {
		t.Fatalf("replayed body %q differs from original %q", replay.Body.String(), resp.Body.String())
	}
	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
}

func TestIdempotencyRejectsKeyReuseWithDifferentBody(t *testing.T) {
	store := newMemoryIdemStore()
	handler := wrapHandler(store, new(int))

	first := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"customer_id":"001"}`))
	first.Header.Set("Idempotency-Key", "abc-123")
	handler.ServeHTTP(httptest.NewRecorder(), first)

	second := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"customer_id":"002"}`))
	second.Header.Set("Idempotency-Key", "abc-123")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, second)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for reused key got %d", resp.Code)
	}
}

func TestIdempotencyIgnoresUnmatchedRoutes(t *testing.T) {
	calls := 0
	handler := wrapHandler(newMemoryIdemStore(), &calls)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sales", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected passthrough got %d", resp.Code)
	}
	if calls != 1 {
		t.Fatalf("expected handler to run, ran %d times", calls)
	}
}
