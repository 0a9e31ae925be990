package store

import (
	"context"
	"sort"

	"github.com/valefinance/vale/internal/domain"
)

type TransactionStore struct {
	db *DB
}

func NewTransactionStore(db *DB) *TransactionStore {
	return &TransactionStore{db: db}
}

// Create records the transaction as pending.
func (s *TransactionStore) Create(ctx context.Context, t *domain.Transaction) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	t.ID = s.db.allocID()
	t.Status = domain.TransactionPending
	if t.Currency == "" {
		t.Currency = domain.DefaultCurrency
	}
	t.CreatedAt = s.db.now()

	stored := *t
	s.db.transactions[t.ID] = &stored
	return nil
}

func (s *TransactionStore) List(ctx context.Context) ([]domain.Transaction, error) {
	return s.filter(func(*domain.Transaction) bool { return true }), nil
}

func (s *TransactionStore) ListByAgent(ctx context.Context, agentID int64) ([]domain.Transaction, error) {
	return s.filter(func(t *domain.Transaction) bool { return t.AgentID == agentID }), nil
}

func (s *TransactionStore) filter(keep func(*domain.Transaction) bool) []domain.Transaction {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := make([]domain.Transaction, 0)
	for _, t := range s.db.transactions {
		if keep(t) {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
