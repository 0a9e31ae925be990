package store

import (
	"errors"
	"sync"
	"time"

	"github.com/valefinance/vale/internal/domain"
)

var ErrNotFound = errors.New("not found")

// DB is the process-wide in-memory dataset. Every entity kind draws its id
// from the same counter, so ids are unique across agents, transactions,
// activities and integrations.
type DB struct {
	mu     sync.RWMutex
	nextID int64
	now    func() time.Time

	agents       map[int64]*domain.Agent
	transactions map[int64]*domain.Transaction
	activities   map[int64]*domain.Activity
	integrations map[string]*domain.Integration
	// integration names in seed order
	integrationOrder []string
}

func NewDB() *DB {
	return &DB{
		nextID:       1,
		now:          time.Now,
		agents:       make(map[int64]*domain.Agent),
		transactions: make(map[int64]*domain.Transaction),
		activities:   make(map[int64]*domain.Activity),
		integrations: make(map[string]*domain.Integration),
	}
}

// SetClock replaces the time source. Used by tests.
func (db *DB) SetClock(now func() time.Time) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.now = now
}

// allocID must be called with mu held for writing.
func (db *DB) allocID() int64 {
	id := db.nextID
	db.nextID++
	return id
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
