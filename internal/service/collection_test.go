package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentnotion/dentnotion/internal/api"
)

func TestCollectionRefetch(t *testing.T) {
	lists := []api.List[string]{
		{Count: 2, Results: []string{"a", "b"}},
		{Count: 3, Results: []string{"a", "b", "c"}},
	}
	calls := 0
	col := NewCollection(func(context.Context) (api.List[string], error) {
		list := lists[calls]
		calls++
		return list, nil
	})

	assert.False(t, col.Loaded())
	assert.Empty(t, col.Items())

	require.NoError(t, col.Refetch(context.Background()))
	assert.True(t, col.Loaded())
	assert.Equal(t, []string{"a", "b"}, col.Items())
	assert.Equal(t, 2, col.Count())

	// Refetch reuses the same closure; the caller never re-supplies parameters.
	require.NoError(t, col.Refetch(context.Background()))
	assert.Equal(t, 3, col.Count())
	assert.Equal(t, 2, calls)
}

func TestCollectionRefetchFailureKeepsItems(t *testing.T) {
	boom := errors.New("timeout")
	fail := false
	col := NewCollection(func(context.Context) (api.List[string], error) {
		if fail {
			return api.List[string]{}, boom
		}
		return api.List[string]{Count: 1, Results: []string{"a"}}, nil
	})

	require.NoError(t, col.Refetch(context.Background()))
	fail = true

	err := col.Refetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, col.Err(), boom)
	assert.Equal(t, []string{"a"}, col.Items(), "previous items survive a failed refetch")
	assert.True(t, col.Loaded())

	fail = false
	require.NoError(t, col.Refetch(context.Background()))
	assert.NoError(t, col.Err(), "a successful refetch clears the recorded error")
}
