package middleware

import (
	"net/http"

	"github.com/templui/userfiles/internal/config"
	"github.com/templui/userfiles/internal/ctxkeys"
)

// Chain wraps h so that middlewares run in the order given: the first
// one sees the request first.
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := range middlewares {
		h = middlewares[len(middlewares)-1-i](h)
	}
	return h
}

// Config puts a copy of cfg without secrets on the request context for
// templates and cookie settings.
func Config(cfg *config.Config) func(http.Handler) http.Handler {
	sanitized := cfg.Sanitized()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(ctxkeys.WithConfig(r.Context(), sanitized)))
		})
	}
}

// WithURLPath records the request path so the layout can highlight
// navigation.
func WithURLPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(ctxkeys.WithURLPath(r.Context(), r.URL.Path)))
	})
}
