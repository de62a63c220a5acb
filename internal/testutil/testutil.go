// Package testutil provides testing utilities and helpers for the session
// gateway.
package testutil

import (
	"io"
	"log/slog"
	"net"
	"os"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// TestingTB is the subset of *testing.T and *testing.B the helpers need.
type TestingTB interface {
	Helper()
	Fatalf(format string, args ...any)
	Skipf(format string, args ...any)
	Cleanup(func())
}

// SilentLogger returns a logger that discards output, for code paths that
// log on purpose during failure tests.
func SilentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SetupMiniRedis starts an in-process redis and returns a connected client.
// Both are torn down with the test.
func SetupMiniRedis(t TestingTB) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return mr, client
}

// SkipIfNoTestDB skips tests that need a real PostgreSQL instance unless one
// is advertised through TEST_DB_HOST.
func SkipIfNoTestDB(t TestingTB) {
	t.Helper()
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skipf("skipping: TEST_DB_HOST not set")
		return
	}
	port := os.Getenv("TEST_DB_PORT")
	if port == "" {
		port = "5432"
	}
	conn, err := net.Dial("tcp", net.JoinHostPort(host, port))
	if err != nil {
		t.Skipf("skipping: test database not reachable at %s:%s", host, port)
		return
	}
	_ = conn.Close()
}
