// Package mocks provides mock implementations for testing the session gateway.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the storage port. Hand-written doubles for the identity API live in the
// session subpackage; they are simple enough that codegen would add nothing.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
package mocks

// Generate mock for SessionStorage interface from internal/ports.
// This creates MockSessionStorage with Load, Save and Clear.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=session_storage_mock.go github.com/dentnotion/dentnotion/internal/ports SessionStorage
