package middleware

import (
	"net/http"

	"github.com/templui/userfiles/internal/ctxkeys"
	"github.com/templui/userfiles/internal/httpx"
	"github.com/templui/userfiles/internal/service"
)

// AuthMiddleware verifies the session token and adds the caller's identity
// to the context if valid. A bearer header takes precedence over the cookie.
func AuthMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := service.BearerToken(r)
			fromCookie := false
			if token == "" {
				cookie, err := r.Cookie(service.SessionCookieName)
				if err != nil {
					// No session, continue anonymous
					next.ServeHTTP(w, r)
					return
				}
				token = cookie.Value
				fromCookie = true
			}

			identity, err := authService.VerifySession(token)
			if err != nil {
				// Invalid token, clear cookie and continue anonymous
				if fromCookie {
					authService.ClearSessionCookie(w)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth redirects anonymous page requests to the sign-in page
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.Identity(r.Context()) == nil {
			http.Redirect(w, r, "/auth", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// RequireIdentity rejects anonymous API requests with a 401 JSON error
func RequireIdentity(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.Identity(r.Context()) == nil {
			httpx.Error(w, http.StatusUnauthorized, service.ErrNotAuthenticated.Error())
			return
		}
		next.ServeHTTP(w, r)
	}
}

// RequireGuest sends signed-in callers straight to their files
func RequireGuest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.Identity(r.Context()) != nil {
			http.Redirect(w, r, "/app/files", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}
}
