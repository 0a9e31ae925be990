package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/valefinance/vale/internal/domain"
	"github.com/valefinance/vale/internal/store"
)

// FeedService serves the read-mostly dashboard collections: transactions,
// the activity feed and integration status.
type FeedService struct {
	transactions domain.TransactionStore
	activities   domain.ActivityStore
	integrations domain.IntegrationStore
}

func NewFeedService(t domain.TransactionStore, a domain.ActivityStore, i domain.IntegrationStore) *FeedService {
	return &FeedService{transactions: t, activities: a, integrations: i}
}

func (s *FeedService) Transactions(ctx context.Context) ([]domain.Transaction, error) {
	return s.transactions.List(ctx)
}

// Activities returns the newest activities, at most limit of them.
func (s *FeedService) Activities(ctx context.Context, limit int) ([]domain.Activity, error) {
	return s.activities.List(ctx, limit)
}

func (s *FeedService) Integrations(ctx context.Context) ([]domain.Integration, error) {
	return s.integrations.List(ctx)
}

// UpdateIntegration sets an integration's status and merges metadata.
func (s *FeedService) UpdateIntegration(ctx context.Context, name, status string, metadata map[string]any) (*domain.Integration, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, fmt.Errorf("%w: status is required", ErrInvalidIntegration)
	}
	i, err := s.integrations.Update(ctx, name, status, metadata)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrIntegrationNotFound
		}
		return nil, err
	}
	return i, nil
}
