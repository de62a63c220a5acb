package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteAll(t *testing.T) {
	t.Run("deletes in order", func(t *testing.T) {
		var seen []string
		del := func(_ context.Context, id string) error {
			seen = append(seen, id)
			return nil
		}

		n, err := DeleteAll(context.Background(), del, []string{"a", "b", "c"})
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.Equal(t, []string{"a", "b", "c"}, seen)
	})

	t.Run("stops at first failure", func(t *testing.T) {
		boom := errors.New("409 conflict")
		var seen []string
		del := func(_ context.Context, id string) error {
			seen = append(seen, id)
			if id == "b" {
				return boom
			}
			return nil
		}

		n, err := DeleteAll(context.Background(), del, []string{"a", "b", "c"})
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "delete b (2 of 3)")
		assert.Equal(t, 1, n)
		assert.Equal(t, []string{"a", "b"}, seen, "c is never attempted")
	})

	t.Run("empty input is a no-op", func(t *testing.T) {
		del := func(context.Context, string) error {
			t.Fatal("delete must not be called")
			return nil
		}
		n, err := DeleteAll(context.Background(), del, nil)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("honors context cancellation between deletes", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		del := func(context.Context, string) error {
			calls++
			cancel()
			return nil
		}

		n, err := DeleteAll(ctx, del, []string{"a", "b", "c"})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Contains(t, err.Error(), "bulk delete aborted after 1 of 3")
		assert.Equal(t, 1, n)
		assert.Equal(t, 1, calls)
	})
}
