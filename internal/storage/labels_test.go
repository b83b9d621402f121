package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshsymonds/paper-trail/internal/common"
)

func TestAddLabel_Idempotent(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.AddLabel(ctx, "Subscriptions"))
	require.NoError(t, store.AddLabel(ctx, "Subscriptions"))

	labels, err := store.GetLabels(ctx)
	require.NoError(t, err)
	assert.Contains(t, labels, "Subscriptions")
	assert.Len(t, labels, 7) // 6 seeded defaults plus one
}

func TestAddLabel_RejectsBlank(t *testing.T) {
	store := newTestStorage(t)

	assert.Error(t, store.AddLabel(context.Background(), "  "))
}

func TestDeleteLabel(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.DeleteLabel(ctx, "Travel"))

	labels, err := store.GetLabels(ctx)
	require.NoError(t, err)
	assert.NotContains(t, labels, "Travel")

	assert.ErrorIs(t, store.DeleteLabel(ctx, "Travel"), common.ErrNotFound)
}
