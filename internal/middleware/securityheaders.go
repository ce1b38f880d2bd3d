package middleware

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/templui/userfiles/internal/config"
)

// NonceMiddleware puts a fresh CSP nonce on the context where templates
// and SecurityHeaders read it with templ.GetNonce.
func NonceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b := make([]byte, 16)
		if _, err := rand.Read(b); err != nil {
			// no nonce: the CSP blocks inline scripts but pages still render
			slog.Error("failed to generate nonce", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		ctx := templ.WithNonce(r.Context(), base64.StdEncoding.EncodeToString(b))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SecurityHeaders sets the CSP and related headers. The storage origin is
// allowed for connect-src so the browser can PUT uploads directly to it.
func SecurityHeaders(cfg *config.Config) func(http.Handler) http.Handler {
	storageOrigin := storageOrigin(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nonce := templ.GetNonce(r.Context())

			scriptSrc := "'self'"
			if nonce != "" {
				scriptSrc += fmt.Sprintf(" 'nonce-%s'", nonce)
			}

			connectSrc := "'self'"
			if storageOrigin != "" {
				connectSrc += " " + storageOrigin
			}

			csp := strings.Join([]string{
				"default-src 'self'",
				"script-src " + scriptSrc,
				"style-src 'self' 'unsafe-inline'",
				"img-src 'self' data:",
				"connect-src " + connectSrc,
				"frame-ancestors 'none'",
				"base-uri 'self'",
				"form-action 'self' https://github.com https://accounts.google.com",
			}, "; ")

			h := w.Header()
			h.Set("Content-Security-Policy", csp)
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if cfg.IsProduction() {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// storageOrigin is the scheme and host presigned URLs point at
func storageOrigin(cfg *config.Config) string {
	if cfg.S3Endpoint != "" {
		u, err := url.Parse(cfg.S3Endpoint)
		if err != nil || u.Host == "" {
			return ""
		}
		return u.Scheme + "://" + u.Host
	}
	if cfg.S3Bucket == "" {
		return ""
	}
	// Virtual-hosted style AWS URLs
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
}
