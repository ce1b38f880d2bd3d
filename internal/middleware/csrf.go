package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/userfiles/internal/ctxkeys"
	"github.com/templui/userfiles/internal/httpx"
	"github.com/templui/userfiles/internal/service"
)

const (
	csrfCookieName = "csrf_token"
	csrfFormField  = "csrf_token"
	csrfHeader     = "X-CSRF-Token"
	csrfTokenLen   = 32
	csrfMaxAge     = 7 * 24 * 60 * 60
)

// CSRFProtection implements the double-submit cookie pattern for cookie
// sessions. It must run after AuthMiddleware. Every request gets a token in its context so pages can embed
// it; unsafe methods must echo it back in a header or form field.
func CSRFProtection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Bearer clients and anonymous callers carry no ambient credentials
		// to forge; the route's own auth check answers them.
		if !safeMethod(r.Method) && (service.BearerToken(r) != "" || ctxkeys.Identity(r.Context()) == nil) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := csrfToken(w, r)
		if err != nil {
			slog.Error("failed to generate csrf token", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		r = r.WithContext(ctxkeys.WithCSRFToken(r.Context(), token))

		if !safeMethod(r.Method) && !sameToken(token, submittedCSRFToken(r)) {
			slog.Warn("csrf validation failed", "method", r.Method, "path", r.URL.Path, "ip", getClientIP(r))
			if strings.HasPrefix(r.URL.Path, "/api/") {
				httpx.Error(w, http.StatusForbidden, "invalid csrf token")
			} else {
				http.Error(w, "Invalid CSRF token", http.StatusForbidden)
			}
			return
		}

		next.ServeHTTP(w, r)
	})
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// submittedCSRFToken reads the header set by page scripts, falling back to
// the hidden field plain forms post.
func submittedCSRFToken(r *http.Request) string {
	if token := r.Header.Get(csrfHeader); token != "" {
		return token
	}
	return r.PostFormValue(csrfFormField)
}

// csrfToken returns the token from the cookie, issuing a new cookie when
// the request has none or a malformed one.
func csrfToken(w http.ResponseWriter, r *http.Request) (string, error) {
	if c, err := r.Cookie(csrfCookieName); err == nil && len(c.Value) == base64.RawURLEncoding.EncodedLen(csrfTokenLen) {
		return c.Value, nil
	}

	b := make([]byte, csrfTokenLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := base64.RawURLEncoding.EncodeToString(b)

	cfg := ctxkeys.Config(r.Context())
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   csrfMaxAge,
		HttpOnly: true,
		Secure:   cfg != nil && cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return token, nil
}

func sameToken(expected, actual string) bool {
	return expected != "" && actual != "" &&
		subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1
}
