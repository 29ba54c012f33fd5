package cart

import "sync"

// Store holds open carts keyed by operator session. Carts are transient by
// design; a process restart empties them without losing committed data.
type Store interface {
	Get(sessionID string) []Line
	Put(sessionID string, lines []Line)
	Clear(sessionID string)
}

type memoryStore struct {
	mu    sync.RWMutex
	carts map[string][]Line
}

// NewMemoryStore builds the in-process cart store.
func NewMemoryStore() Store {
	return &memoryStore{carts: make(map[string][]Line)}
}

func (m *memoryStore) Get(sessionID string) []Line {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lines := m.carts[sessionID]
	copied := make([]Line, len(lines))
	copy(copied, lines)
	return copied
}

func (m *memoryStore) Put(sessionID string, lines []Line) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([]Line, len(lines))
	copy(copied, lines)
	m.carts[sessionID] = copied
}

func (m *memoryStore) Clear(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
}
