package store

import (
	"context"

	"github.com/valefinance/vale/internal/domain"
)

type IntegrationStore struct {
	db *DB
}

func NewIntegrationStore(db *DB) *IntegrationStore {
	return &IntegrationStore{db: db}
}

func (s *IntegrationStore) insert(i domain.Integration) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	i.ID = s.db.allocID()
	i.LastChecked = s.db.now()
	i.Metadata = cloneMap(i.Metadata)
	if _, exists := s.db.integrations[i.Name]; !exists {
		s.db.integrationOrder = append(s.db.integrationOrder, i.Name)
	}
	s.db.integrations[i.Name] = &i
}

// List returns integrations in seed order.
func (s *IntegrationStore) List(ctx context.Context) ([]domain.Integration, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := make([]domain.Integration, 0, len(s.db.integrationOrder))
	for _, name := range s.db.integrationOrder {
		out = append(out, *s.db.integrations[name])
	}
	return out, nil
}

// Update sets the status and merges metadata into the existing map.
func (s *IntegrationStore) Update(ctx context.Context, name, status string, metadata map[string]any) (*domain.Integration, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	i, ok := s.db.integrations[name]
	if !ok {
		return nil, ErrNotFound
	}
	i.Status = status
	i.LastChecked = s.db.now()
	if len(metadata) > 0 {
		merged := cloneMap(i.Metadata)
		for k, v := range metadata {
			merged[k] = v
		}
		i.Metadata = merged
	}
	out := *i
	return &out, nil
}
