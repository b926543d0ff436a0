package authapi

import (
	"context"

	"chirp/cmd/identity"
)

type contextKey struct{}

var accountKey contextKey

// WithAccount attaches the gate-resolved account to the request context.
func WithAccount(ctx context.Context, a identity.Account) context.Context {
	return context.WithValue(ctx, accountKey, a)
}

// AccountFrom returns the account attached by the session gate, if any.
func AccountFrom(ctx context.Context) (identity.Account, bool) {
	a, ok := ctx.Value(accountKey).(identity.Account)
	return a, ok
}
