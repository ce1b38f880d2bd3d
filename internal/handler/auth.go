package handler

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/templui/userfiles/internal/config"
	"github.com/templui/userfiles/internal/model"
	"github.com/templui/userfiles/internal/service"
	"github.com/templui/userfiles/internal/ui"
	"github.com/templui/userfiles/internal/ui/pages"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

const oauthStateCookie = "oauth_state"

var errInvalidUserInfo = errors.New("identity provider returned no user id")

// oauthProvider is an identity provider reached through the authorization code flow
type oauthProvider struct {
	label       string
	config      *oauth2.Config
	userInfoURL string
	// identity turns the provider's user info response into a caller identity
	identity func(body io.Reader) (*model.Identity, error)
}

type AuthHandler struct {
	authService  *service.AuthService
	userService  *service.UserService
	providers    map[string]*oauthProvider
	order        []string
	isProduction bool
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService, cfg *config.Config) *AuthHandler {
	h := &AuthHandler{
		authService:  authService,
		userService:  userService,
		providers:    map[string]*oauthProvider{},
		isProduction: cfg.IsProduction(),
	}

	if cfg.HasGitHub() {
		h.register("github", &oauthProvider{
			label: "GitHub",
			config: &oauth2.Config{
				ClientID:     cfg.GitHubClientID,
				ClientSecret: cfg.GitHubClientSecret,
				RedirectURL:  cfg.AppURL + "/auth/github/callback",
				Scopes:       []string{"read:user"},
				Endpoint:     github.Endpoint,
			},
			userInfoURL: "https://api.github.com/user",
			identity:    githubIdentity,
		})
	}

	if cfg.HasGoogle() {
		h.register("google", &oauthProvider{
			label: "Google",
			config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				RedirectURL:  cfg.AppURL + "/auth/google/callback",
				Scopes:       []string{"openid", "profile"},
				Endpoint:     google.Endpoint,
			},
			userInfoURL: "https://openidconnect.googleapis.com/v1/userinfo",
			identity:    googleIdentity,
		})
	}

	return h
}

func (h *AuthHandler) register(name string, p *oauthProvider) {
	h.providers[name] = p
	h.order = append(h.order, name)
}

func (h *AuthHandler) providerLinks() []pages.Provider {
	links := make([]pages.Provider, 0, len(h.order))
	for _, name := range h.order {
		links = append(links, pages.Provider{Label: h.providers[name].label, Href: "/auth/" + name})
	}
	return links
}

func (h *AuthHandler) AuthPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.Auth("", h.providerLinks()))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ProviderAuth redirects the user to the provider's consent screen
func (h *AuthHandler) ProviderAuth(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.providers[r.PathValue("provider")]
	if !ok {
		ui.RenderStatus(w, r, http.StatusNotFound, pages.NotFound())
		return
	}

	state, err := generateOAuthState()
	if err != nil {
		slog.Error("failed to generate oauth state", "error", err)
		ui.RenderStatus(w, r, http.StatusInternalServerError, pages.Auth("An error occurred. Please try again.", h.providerLinks()))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})

	http.Redirect(w, r, provider.config.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// ProviderCallback completes the sign-in: it resolves the caller's identity,
// provisions their user record and issues a session.
func (h *AuthHandler) ProviderCallback(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("provider")
	provider, ok := h.providers[name]
	if !ok {
		ui.RenderStatus(w, r, http.StatusNotFound, pages.NotFound())
		return
	}

	// Validate state parameter for CSRF protection
	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || cookie.Value != state {
		slog.Warn("oauth state validation failed", "provider", name, "error", err)
		h.authFailed(w, r)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:   oauthStateCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Warn("oauth callback missing code", "provider", name, "error", r.URL.Query().Get("error"))
		h.authFailed(w, r)
		return
	}

	identity, err := h.fetchIdentity(r, provider, code)
	if err != nil {
		slog.Error("oauth identity lookup failed", "provider", name, "error", err)
		h.authFailed(w, r)
		return
	}
	identity.Provider = name

	user, err := h.userService.Ensure(r.Context(), identity)
	if err != nil {
		slog.Error("failed to provision user", "error", err, "external_id", identity.Subject)
		ui.RenderStatus(w, r, http.StatusInternalServerError, pages.Auth("An error occurred. Please try again.", h.providerLinks()))
		return
	}

	token, expiresAt, err := h.authService.IssueSession(identity)
	if err != nil {
		slog.Error("failed to issue session", "error", err, "user_id", user.ID)
		ui.RenderStatus(w, r, http.StatusInternalServerError, pages.Auth("An error occurred. Please try again.", h.providerLinks()))
		return
	}

	h.authService.SetSessionCookie(w, token, expiresAt)

	slog.Info("user signed in", "user_id", user.ID, "provider", name)
	http.Redirect(w, r, "/app/files", http.StatusSeeOther)
}

func (h *AuthHandler) authFailed(w http.ResponseWriter, r *http.Request) {
	ui.RenderStatus(w, r, http.StatusUnauthorized, pages.Auth("OAuth authentication failed. Please try again.", h.providerLinks()))
}

// fetchIdentity exchanges the code and reads the provider's user info
func (h *AuthHandler) fetchIdentity(r *http.Request, provider *oauthProvider, code string) (*model.Identity, error) {
	token, err := provider.config.Exchange(r.Context(), code)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}

	client := provider.config.Client(r.Context(), token)
	resp, err := client.Get(provider.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info returned status %d", resp.StatusCode)
	}

	return provider.identity(resp.Body)
}

// githubIdentity reads GitHub's /user response. The display name is the
// profile name only; users without one are provisioned as Anonymous.
func githubIdentity(body io.Reader) (*model.Identity, error) {
	var info struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	err := json.NewDecoder(body).Decode(&info)
	if err != nil {
		return nil, fmt.Errorf("failed to decode github user info: %w", err)
	}
	if info.ID == 0 {
		return nil, errInvalidUserInfo
	}
	return &model.Identity{
		Subject: "github|" + strconv.FormatInt(info.ID, 10),
		Name:    info.Name,
	}, nil
}

// googleIdentity reads Google's OpenID Connect userinfo response
func googleIdentity(body io.Reader) (*model.Identity, error) {
	var info struct {
		Sub  string `json:"sub"`
		Name string `json:"name"`
	}
	err := json.NewDecoder(body).Decode(&info)
	if err != nil {
		return nil, fmt.Errorf("failed to decode google user info: %w", err)
	}
	if info.Sub == "" {
		return nil, errInvalidUserInfo
	}
	return &model.Identity{
		Subject: "google|" + info.Sub,
		Name:    info.Name,
	}, nil
}

// generateOAuthState creates a random state token for the authorization request
func generateOAuthState() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
