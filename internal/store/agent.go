package store

import (
	"context"
	"sort"

	"github.com/valefinance/vale/internal/domain"
)

type AgentStore struct {
	db *DB
}

func NewAgentStore(db *DB) *AgentStore {
	return &AgentStore{db: db}
}

// Create assigns an id and stores the agent as inactive.
func (s *AgentStore) Create(ctx context.Context, a *domain.Agent) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	now := s.db.now()
	a.ID = s.db.allocID()
	a.Status = domain.AgentStatusInactive
	a.Configuration = cloneMap(a.Configuration)
	a.CreatedAt = now
	a.UpdatedAt = now

	stored := *a
	s.db.agents[a.ID] = &stored
	return nil
}

// insert stores a fully formed agent (seed data) without touching its status.
func (s *AgentStore) insert(a domain.Agent) *domain.Agent {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	now := s.db.now()
	a.ID = s.db.allocID()
	a.Configuration = cloneMap(a.Configuration)
	a.CreatedAt = now
	a.UpdatedAt = now
	s.db.agents[a.ID] = &a
	out := a
	return &out
}

func (s *AgentStore) GetByID(ctx context.Context, id int64) (*domain.Agent, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	a, ok := s.db.agents[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *a
	return &out, nil
}

// List returns agents ordered by id.
func (s *AgentStore) List(ctx context.Context) ([]domain.Agent, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := make([]domain.Agent, 0, len(s.db.agents))
	for _, a := range s.db.agents {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *AgentStore) Update(ctx context.Context, id int64, u domain.AgentUpdate) (*domain.Agent, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	a, ok := s.db.agents[id]
	if !ok {
		return nil, ErrNotFound
	}
	if u.Status != nil {
		a.Status = *u.Status
	}
	if u.WalletAddress != nil {
		a.WalletAddress = *u.WalletAddress
	}
	if u.WalletID != nil {
		a.WalletID = *u.WalletID
	}
	if u.WalletProvider != nil {
		a.WalletProvider = *u.WalletProvider
	}
	if u.Budget != nil {
		a.Budget = *u.Budget
	}
	a.UpdatedAt = s.db.now()

	out := *a
	return &out, nil
}

// Delete removes the agent only. Its transactions and activities stay.
func (s *AgentStore) Delete(ctx context.Context, id int64) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.agents[id]; !ok {
		return false, nil
	}
	delete(s.db.agents, id)
	return true, nil
}
