package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/userfiles/internal/config"
	"github.com/templui/userfiles/internal/ctxkeys"
	"github.com/templui/userfiles/internal/model"
	"github.com/templui/userfiles/internal/service"
)

func newAuthService() *service.AuthService {
	return service.NewAuthService("test-secret", "http://localhost:8090", time.Hour, false)
}

// identityProbe records the identity the wrapped handler saw
func identityProbe(seen **model.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = ctxkeys.Identity(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}), mark("a"), mark("b"), mark("c"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestAuthMiddleware_Cookie(t *testing.T) {
	auth := newAuthService()
	token, _, err := auth.IssueSession(&model.Identity{Subject: "github|1", Name: "Alice", Provider: "github"})
	require.NoError(t, err)

	var seen *model.Identity
	h := AuthMiddleware(auth)(identityProbe(&seen))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: service.SessionCookieName, Value: token})
	h.ServeHTTP(httptest.NewRecorder(), r)

	require.NotNil(t, seen)
	assert.Equal(t, "github|1", seen.Subject)
	assert.Equal(t, "Alice", seen.Name)
}

func TestAuthMiddleware_Bearer(t *testing.T) {
	auth := newAuthService()
	token, _, err := auth.IssueSession(&model.Identity{Subject: "google|2"})
	require.NoError(t, err)

	var seen *model.Identity
	h := AuthMiddleware(auth)(identityProbe(&seen))

	r := httptest.NewRequest(http.MethodGet, "/api/files", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), r)

	require.NotNil(t, seen)
	assert.Equal(t, "google|2", seen.Subject)
}

func TestAuthMiddleware_InvalidCookieIsCleared(t *testing.T) {
	var seen *model.Identity
	h := AuthMiddleware(newAuthService())(identityProbe(&seen))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: service.SessionCookieName, Value: "garbage"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	assert.Nil(t, seen)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), service.SessionCookieName+"=;")
}

func TestAuthMiddleware_Anonymous(t *testing.T) {
	var seen *model.Identity
	h := AuthMiddleware(newAuthService())(identityProbe(&seen))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Nil(t, seen)
	assert.Empty(t, rec.Header().Get("Set-Cookie"))
}

func TestRequireAuth(t *testing.T) {
	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

	rec := httptest.NewRecorder()
	RequireAuth(ok)(rec, httptest.NewRequest(http.MethodGet, "/app/files", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth", rec.Header().Get("Location"))

	r := httptest.NewRequest(http.MethodGet, "/app/files", nil)
	r = r.WithContext(ctxkeys.WithIdentity(r.Context(), &model.Identity{Subject: "github|1"}))
	rec = httptest.NewRecorder()
	RequireAuth(ok)(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireIdentity(t *testing.T) {
	rec := httptest.NewRecorder()
	RequireIdentity(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})(rec, httptest.NewRequest(http.MethodGet, "/api/files", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"not authenticated"}`, rec.Body.String())
}

func TestRequireGuest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/auth", nil)
	r = r.WithContext(ctxkeys.WithIdentity(r.Context(), &model.Identity{Subject: "github|1"}))
	rec := httptest.NewRecorder()
	RequireGuest(func(w http.ResponseWriter, r *http.Request) {})(rec, r)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/app/files", rec.Header().Get("Location"))
}

func TestCSRFProtection(t *testing.T) {
	h := CSRFProtection(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	signedIn := func(r *http.Request) *http.Request {
		return r.WithContext(ctxkeys.WithIdentity(r.Context(), &model.Identity{Subject: "github|1"}))
	}

	// GET issues a token cookie
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, signedIn(httptest.NewRequest(http.MethodGet, "/app/files", nil)))
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	token := cookies[0].Value

	// POST without a token is rejected
	rec = httptest.NewRecorder()
	r := signedIn(httptest.NewRequest(http.MethodPost, "/api/files", nil))
	r.AddCookie(&http.Cookie{Name: csrfCookieName, Value: token})
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"invalid csrf token"}`, rec.Body.String())

	// POST with the matching header passes
	rec = httptest.NewRecorder()
	r = signedIn(httptest.NewRequest(http.MethodPost, "/api/files", nil))
	r.AddCookie(&http.Cookie{Name: csrfCookieName, Value: token})
	r.Header.Set(csrfHeader, token)
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Bearer clients skip the check
	rec = httptest.NewRecorder()
	r = signedIn(httptest.NewRequest(http.MethodDelete, "/api/files/1", nil))
	r.Header.Set("Authorization", "Bearer abc")
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCSRFProtectionLeavesAnonymousToAuth(t *testing.T) {
	called := false
	h := Chain(RequireIdentity(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}), AuthMiddleware(newAuthService()), CSRFProtection)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/files", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"not authenticated"}`, rec.Body.String())
	assert.False(t, called)
}

func TestNonceAndSecurityHeaders(t *testing.T) {
	cfg := &config.Config{AppEnv: "production", S3Endpoint: "http://localhost:9000", S3Bucket: "files"}

	var templNonce string
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		templNonce = templ.GetNonce(r.Context())
	}), NonceMiddleware, SecurityHeaders(cfg))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, templNonce)
	csp := rec.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "'nonce-"+templNonce+"'")
	assert.Contains(t, csp, "connect-src 'self' http://localhost:9000")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestStorageOrigin(t *testing.T) {
	assert.Equal(t, "https://files.s3.eu-central-1.amazonaws.com",
		storageOrigin(&config.Config{S3Bucket: "files", S3Region: "eu-central-1"}))
	assert.Equal(t, "https://minio.example.com",
		storageOrigin(&config.Config{S3Endpoint: "https://minio.example.com/path", S3Bucket: "files"}))
	assert.Empty(t, storageOrigin(&config.Config{}))
}

func TestRateLimit(t *testing.T) {
	limit := RateLimit(NewRateLimiter(2, time.Minute))(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	codes := []int{}
	for range 3 {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/auth/github", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		limit(rec, r)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// Another client is unaffected
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/auth/github", nil)
	r.RemoteAddr = "10.0.0.2:1234"
	limit(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.1:5555"
	assert.Equal(t, "192.0.2.1", getClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", getClientIP(r))
}

func TestConfigAndURLPath(t *testing.T) {
	cfg := &config.Config{AppName: "Files", JWTSecret: "secret"}

	var gotCfg *config.Config
	var gotPath string
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCfg = ctxkeys.Config(r.Context())
		gotPath = ctxkeys.URLPath(r.Context())
	}), Config(cfg), WithURLPath)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/app/files", nil))

	require.NotNil(t, gotCfg)
	assert.Equal(t, "Files", gotCfg.AppName)
	assert.Empty(t, gotCfg.JWTSecret)
	assert.Equal(t, "/app/files", gotPath)
	assert.True(t, strings.HasPrefix(gotPath, "/app"))
}
