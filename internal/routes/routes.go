package routes

import (
	"io/fs"
	"net/http"

	"github.com/templui/userfiles/assets"
	"github.com/templui/userfiles/internal/app"
	"github.com/templui/userfiles/internal/handler"
	"github.com/templui/userfiles/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler()
	auth := handler.NewAuthHandler(app.AuthService, app.UserService, app.Cfg)
	files := handler.NewFileHandler(app.FileService, app.UserService)
	users := handler.NewUserHandler(app.UserService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	// Static files
	sub, _ := fs.Sub(assets.AssetsFS, ".")
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(sub))))

	mux.HandleFunc("GET /healthz", home.Health)

	// Home
	mux.HandleFunc("GET /{$}", home.HomePage)

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth()

	mux.HandleFunc("GET /auth", middleware.RequireGuest(auth.AuthPage))
	mux.HandleFunc("GET /auth/{provider}", rateLimiter(middleware.RequireGuest(auth.ProviderAuth)))
	mux.HandleFunc("GET /auth/{provider}/callback", rateLimiter(auth.ProviderCallback))
	mux.HandleFunc("POST /auth/logout", auth.Logout)

	// ============================================================================
	// PROTECTED ROUTES (/app/*)
	// ============================================================================

	mux.HandleFunc("GET /app/files", middleware.RequireAuth(files.FilesPage))
	mux.HandleFunc("GET /app/files/list", middleware.RequireAuth(files.FileListFragment))

	// ============================================================================
	// API (/api/*)
	// ============================================================================

	// Files
	mux.HandleFunc("POST /api/files/upload-url", middleware.RequireIdentity(files.UploadURL))
	mux.HandleFunc("POST /api/files", middleware.RequireIdentity(files.Save))
	mux.HandleFunc("GET /api/files", middleware.RequireIdentity(files.List))
	mux.HandleFunc("DELETE /api/files/{id}", middleware.RequireIdentity(files.Delete))

	// Users
	mux.HandleFunc("POST /api/users/ensure", middleware.RequireIdentity(users.Ensure))
	mux.HandleFunc("GET /api/users/me", middleware.RequireIdentity(users.Me))
	// No auth enforced on the user directory
	mux.HandleFunc("GET /api/users", users.List)

	// ============================================================================
	// FALLBACK
	// ============================================================================

	// 404
	mux.HandleFunc("/{path...}", home.NotFoundPage)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		// Config first, read by CSRF and the layout
		middleware.Config(app.Cfg),
		// Nonce must exist before SecurityHeaders builds the CSP
		middleware.NonceMiddleware,
		middleware.SecurityHeaders(app.Cfg),
		middleware.AuthMiddleware(app.AuthService),
		// After auth so the caller is logged
		middleware.RequestLogging,
		middleware.CSRFProtection,
		middleware.WithURLPath,
	)

	return handler
}
