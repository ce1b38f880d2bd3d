package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultDBConnection = "./data/userfiles.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"

type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppURL  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Session tokens issued after a successful identity provider login
	JWTSecret string
	JWTExpiry time.Duration

	// Identity providers (OAuth)
	GoogleClientID     string
	GoogleClientSecret string
	GitHubClientID     string
	GitHubClientSecret string

	// Observability (optional)
	SentryDSN string

	// Storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, DigitalOcean Spaces, etc.)
	S3Region         string
	S3Bucket         string
	S3AccessKey      string
	S3SecretKey      string
	S3Endpoint       string        // Optional: for S3-compatible services (MinIO, DO Spaces, R2, etc.)
	S3UploadExpiry   time.Duration // Lifetime of a presigned upload target
	S3DownloadExpiry time.Duration // Lifetime of a presigned retrieval URL

	// Uploads
	UploadMaxFilename int
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Files"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:  envRequired("APP_URL"), // Required: base URL for OAuth redirects
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", defaultDBConnection),

		// Sessions
		JWTSecret: envRequired("JWT_SECRET"),
		JWTExpiry: envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days

		// Identity providers
		GoogleClientID:     envString("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: envString("GOOGLE_CLIENT_SECRET", ""),
		GitHubClientID:     envString("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret: envString("GITHUB_CLIENT_SECRET", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage
		S3Region:         envRequired("S3_REGION"),
		S3Bucket:         envRequired("S3_BUCKET"),
		S3AccessKey:      envRequired("S3_ACCESS_KEY"),
		S3SecretKey:      envRequired("S3_SECRET_KEY"),
		S3Endpoint:       envString("S3_ENDPOINT", ""),
		S3UploadExpiry:   envDuration("S3_UPLOAD_EXPIRY", 15*time.Minute),
		S3DownloadExpiry: envDuration("S3_DOWNLOAD_EXPIRY", 1*time.Hour),

		UploadMaxFilename: envInt("UPLOAD_MAX_FILENAME", 255),
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// LoadDatabase loads only what the admin tooling needs to reach the database.
func LoadDatabase() *Config {
	_ = godotenv.Load()

	return &Config{
		AppEnv:       envString("APP_ENV", "development"),
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", defaultDBConnection),
	}
}

// LoadSession loads only what is needed to sign session tokens.
func LoadSession() *Config {
	_ = godotenv.Load()

	return &Config{
		AppEnv:    envString("APP_ENV", "development"),
		AppURL:    envRequired("APP_URL"),
		JWTSecret: envRequired("JWT_SECRET"),
		JWTExpiry: envDuration("JWT_EXPIRY", 168*time.Hour),
	}
}

// validateProduction ensures a production deployment can actually sign users in.
// Development may run without a provider and use a bearer token minted by hand.
func validateProduction(cfg *Config) {
	if cfg.GitHubClientID == "" && cfg.GoogleClientID == "" {
		slog.Error("production deployment requires at least one identity provider",
			"hint", "set GITHUB_CLIENT_ID/GITHUB_CLIENT_SECRET or GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// HasGitHub reports whether GitHub sign-in is configured.
func (c *Config) HasGitHub() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}

// HasGoogle reports whether Google sign-in is configured.
func (c *Config) HasGoogle() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// Sanitized returns a copy of the config with only public/safe fields.
// All secrets, credentials, and sensitive data are excluded.
// Safe to expose in ctx, templates and client-facing contexts.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName: c.AppName,
		AppEnv:  c.AppEnv,
		AppURL:  c.AppURL,
		Port:    c.Port,

		GoogleClientID: c.GoogleClientID,
		GitHubClientID: c.GitHubClientID,

		S3Endpoint: c.S3Endpoint, // Needed for CSP policies
		S3Bucket:   c.S3Bucket,
		S3Region:   c.S3Region,
	}
}
