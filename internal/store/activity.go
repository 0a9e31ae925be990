package store

import (
	"context"
	"sort"

	"github.com/valefinance/vale/internal/domain"
)

type ActivityStore struct {
	db *DB
}

func NewActivityStore(db *DB) *ActivityStore {
	return &ActivityStore{db: db}
}

func (s *ActivityStore) Create(ctx context.Context, a *domain.Activity) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	a.ID = s.db.allocID()
	a.Metadata = cloneMap(a.Metadata)
	a.CreatedAt = s.db.now()

	stored := *a
	s.db.activities[a.ID] = &stored
	return nil
}

// List returns the newest activities first. A non-positive limit falls back
// to domain.DefaultActivityLimit.
func (s *ActivityStore) List(ctx context.Context, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		limit = domain.DefaultActivityLimit
	}

	s.db.mu.RLock()
	out := make([]domain.Activity, 0, len(s.db.activities))
	for _, a := range s.db.activities {
		out = append(out, *a)
	}
	s.db.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
