package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/templui/userfiles/internal/ctxkeys"
)

// statusRecorder remembers the first status written through it
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	if sr.status == 0 {
		sr.status = code
		sr.ResponseWriter.WriteHeader(code)
	}
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.WriteHeader(http.StatusOK)
	}
	return sr.ResponseWriter.Write(b)
}

func quietPath(path string) bool {
	return strings.HasPrefix(path, "/assets/") || path == "/favicon.ico" || path == "/healthz"
}

// RequestLogging logs one line per request. Server errors log at error
// level so they reach Sentry.
func RequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if quietPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}

		attrs := []slog.Attr{
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			slog.String("remote_addr", getClientIP(r)),
		}
		if identity := ctxkeys.Identity(r.Context()); identity != nil {
			attrs = append(attrs, slog.String("external_id", identity.Subject))
		}

		level := slog.LevelInfo
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.LogAttrs(r.Context(), level, "http request", attrs...)
	})
}
