package service

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/templui/userfiles/internal/model"
	"github.com/templui/userfiles/internal/validation"
)

const SessionCookieName = "auth_token"

var ErrInvalidSession = errors.New("invalid session token")

// sessionClaims is the payload of a session token. The subject is the
// identity provider's stable user id prefixed with the provider name.
type sessionClaims struct {
	Name     string `json:"name,omitempty"`
	Provider string `json:"provider,omitempty"`
	jwt.RegisteredClaims
}

// AuthService signs and verifies the session tokens that carry a caller's
// identity after they signed in with an identity provider.
type AuthService struct {
	jwtSecret    []byte
	issuer       string
	jwtExpiry    time.Duration
	isProduction bool
	now          func() time.Time
}

func NewAuthService(jwtSecret, issuer string, jwtExpiry time.Duration, isProduction bool) *AuthService {
	return &AuthService{
		jwtSecret:    []byte(jwtSecret),
		issuer:       issuer,
		jwtExpiry:    jwtExpiry,
		isProduction: isProduction,
		now:          time.Now,
	}
}

// IssueSession signs a session token for the identity
func (s *AuthService) IssueSession(identity *model.Identity) (string, time.Time, error) {
	if identity == nil || identity.Subject == "" {
		return "", time.Time{}, ErrNotAuthenticated
	}

	now := s.now()
	expiresAt := now.Add(s.jwtExpiry)
	claims := sessionClaims{
		Name:     validation.NormalizeName(identity.Name),
		Provider: identity.Provider,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session: %w", err)
	}

	return tokenString, expiresAt, nil
}

// VerifySession checks a session token and returns the identity it carries
func (s *AuthService) VerifySession(tokenString string) (*model.Identity, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidSession
	}

	return &model.Identity{
		Subject:  claims.Subject,
		Name:     claims.Name,
		Provider: claims.Provider,
	}, nil
}

// BearerToken extracts the token from an "Authorization: Bearer" header
func BearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) < len("bearer ") || !strings.EqualFold(auth[:len("bearer ")], "bearer ") {
		return ""
	}
	return strings.TrimSpace(auth[len("bearer "):])
}

func (s *AuthService) SetSessionCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}
