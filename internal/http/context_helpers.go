package httpx

import (
	"context"

	domainsession "github.com/dentnotion/dentnotion/internal/domain/session"
)

// userKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type userKey struct{}

// SetUserInContext returns a child context that carries the authenticated user.
func SetUserInContext(ctx context.Context, user domainsession.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext returns the authenticated user from context and a boolean
// indicating presence.
func UserFromContext(ctx context.Context) (domainsession.User, bool) {
	if user, ok := ctx.Value(userKey{}).(domainsession.User); ok {
		return user, true
	}
	return domainsession.User{}, false
}
