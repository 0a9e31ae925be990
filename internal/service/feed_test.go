package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valefinance/vale/internal/store"
)

func newTestFeed(t *testing.T) *FeedService {
	t.Helper()
	db := store.NewDB()
	data, err := store.LoadSeed("")
	require.NoError(t, err)
	store.Seed(db, data, true, nil)
	return NewFeedService(store.NewTransactionStore(db), store.NewActivityStore(db), store.NewIntegrationStore(db))
}

func TestFeedService_Lists(t *testing.T) {
	feed := newTestFeed(t)
	ctx := context.Background()

	integrations, err := feed.Integrations(ctx)
	require.NoError(t, err)
	assert.Len(t, integrations, 6)

	acts, err := feed.Activities(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, acts, 2)

	txs, err := feed.Transactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestFeedService_UpdateIntegration(t *testing.T) {
	feed := newTestFeed(t)
	ctx := context.Background()

	i, err := feed.UpdateIntegration(ctx, "Sei MCP Server", " offline ", map[string]any{"reason": "maintenance"})
	require.NoError(t, err)
	assert.Equal(t, "offline", i.Status)
	assert.Equal(t, "maintenance", i.Metadata["reason"])

	_, err = feed.UpdateIntegration(ctx, "Sei MCP Server", "", nil)
	assert.ErrorIs(t, err, ErrInvalidIntegration)

	_, err = feed.UpdateIntegration(ctx, "Stripe", "connected", nil)
	assert.ErrorIs(t, err, ErrIntegrationNotFound)
}
