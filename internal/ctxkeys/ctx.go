// Package ctxkeys holds the typed request-scoped values the middleware
// chain attaches for handlers and templates.
package ctxkeys

import (
	"context"

	"github.com/templui/userfiles/internal/config"
	"github.com/templui/userfiles/internal/model"
)

type key int

const (
	identityKey key = iota
	urlPathKey
	configKey
	csrfTokenKey
)

// value returns the zero T when k is unset
func value[T any](ctx context.Context, k key) T {
	v, _ := ctx.Value(k).(T)
	return v
}

// Identity returns the verified caller identity, or nil for an anonymous request
func Identity(ctx context.Context) *model.Identity {
	return value[*model.Identity](ctx, identityKey)
}

func WithIdentity(ctx context.Context, identity *model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func URLPath(ctx context.Context) string { return value[string](ctx, urlPathKey) }

func WithURLPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, urlPathKey, path)
}

// Config returns the sanitized config, never the one holding secrets
func Config(ctx context.Context) *config.Config { return value[*config.Config](ctx, configKey) }

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

func CSRFToken(ctx context.Context) string { return value[string](ctx, csrfTokenKey) }

func WithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfTokenKey, token)
}
