package postgres

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentnotion/dentnotion/internal/ports"
	"github.com/dentnotion/dentnotion/internal/testutil"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// newTestPool connects to the advertised test database and skips when none is
// reachable, so the suite stays green on machines without Postgres.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	testutil.SkipIfNoTestDB(t)

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(envOr("TEST_DB_USER", "postgres"), envOr("TEST_DB_PASSWORD", "postgres")),
		Host:   fmt.Sprintf("%s:%s", os.Getenv("TEST_DB_HOST"), envOr("TEST_DB_PORT", "5432")),
		Path:   "/" + envOr("TEST_DB_NAME", "dentnotion_test"),
	}
	q := u.Query()
	q.Set("sslmode", "disable")
	u.RawQuery = q.Encode()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, u.String())
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pool.Ping(ctx))
	return pool
}

// newTestStorage gives every test its own record id so parallel runs against a
// shared database do not collide.
func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	pool := newTestPool(t)
	store := NewStorageWithID(pool, "test-"+uuid.NewString())
	require.NoError(t, store.EnsureSchema(context.Background()))
	t.Cleanup(func() {
		_ = store.Clear(context.Background())
	})
	return store
}

func TestLoadMissingRecord(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, ports.ErrNoRecord)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	store := newTestStorage(t)
	rec := testutil.NewRecord().Build()

	require.NoError(t, store.Save(context.Background(), rec))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rec, loaded)
}

func TestSaveOverwritesExistingRecord(t *testing.T) {
	store := newTestStorage(t)

	require.NoError(t, store.Save(context.Background(), testutil.NewRecord().Build()))
	require.NoError(t, store.Save(context.Background(), testutil.NewRecord().WithAccessToken("access-2").Build()))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "access-2", loaded.AccessToken)
}

func TestClear(t *testing.T) {
	store := newTestStorage(t)
	require.NoError(t, store.Save(context.Background(), testutil.NewRecord().Build()))

	require.NoError(t, store.Clear(context.Background()))
	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, ports.ErrNoRecord)

	require.NoError(t, store.Clear(context.Background()))
}

func TestRecordIDIsolation(t *testing.T) {
	pool := newTestPool(t)
	first := NewStorageWithID(pool, "test-a-"+uuid.NewString())
	second := NewStorageWithID(pool, "test-b-"+uuid.NewString())
	require.NoError(t, first.EnsureSchema(context.Background()))
	t.Cleanup(func() {
		_ = first.Clear(context.Background())
		_ = second.Clear(context.Background())
	})

	require.NoError(t, first.Save(context.Background(), testutil.NewRecord().Build()))

	_, err := second.Load(context.Background())
	assert.ErrorIs(t, err, ports.ErrNoRecord)
}
