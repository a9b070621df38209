package config

import (
	"fmt"
	"log/slog"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName     string
	AppEnv      string
	AppURL      string
	Port        string
	LogLevel    string
	CORSOrigins []string

	// Proxies allowed to set X-Forwarded-For / X-Real-IP (IPs or CIDRs)
	TrustedProxies []netip.Prefix

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Tokens
	TokenCodec  string // "plain" (base64 JSON, compatible with issued tokens) or "jwt"
	TokenSecret string
	TokenExpiry time.Duration

	// Bootstrap admin (optional)
	AdminEmail    string
	AdminPassword string

	// Uploads
	UploadsBackend  string // "local" or "s3"
	UploadsPath     string
	UploadMaxMemory int64

	// Email
	EmailFrom    string
	ContactEmail string
	ResendAPIKey string

	// Observability (optional)
	SentryDSN string

	// Storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, DigitalOcean Spaces, etc.)
	S3Region              string
	S3Bucket              string
	S3AccessKey           string
	S3SecretKey           string
	S3Endpoint            string        // Optional: for S3-compatible services (MinIO, DO Spaces, R2, etc.)
	S3PresignExpiryPublic time.Duration // Expiry for public upload URLs - default: 7 days
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:     envString("APP_NAME", "Acme Corp"),
		AppEnv:      envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:      envRequired("APP_URL"),
		Port:        envString("PORT", "8090"),
		LogLevel:    envString("LOG_LEVEL", ""),
		CORSOrigins: envList("CORS_ORIGINS"),

		TrustedProxies: envPrefixes("TRUSTED_PROXIES"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/corpsite.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Tokens
		TokenCodec:  envString("TOKEN_CODEC", "plain"),
		TokenSecret: envString("TOKEN_SECRET", ""),
		TokenExpiry: envDuration("TOKEN_EXPIRY", time.Hour),

		AdminEmail:    envString("ADMIN_EMAIL", ""),
		AdminPassword: envString("ADMIN_PASSWORD", ""),

		// Uploads
		UploadsBackend:  envString("UPLOADS_BACKEND", "local"),
		UploadsPath:     envString("UPLOADS_PATH", "./uploads"),
		UploadMaxMemory: envInt64("UPLOAD_MAX_MEMORY", 10<<20), // 10MB in memory, rest spooled to disk

		// Email (RESEND_API_KEY optional in development)
		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ContactEmail: envString("CONTACT_EMAIL", "hello@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage (only read when UPLOADS_BACKEND=s3)
		S3Region:              envString("S3_REGION", ""),
		S3Bucket:              envString("S3_BUCKET", ""),
		S3AccessKey:           envString("S3_ACCESS_KEY", ""),
		S3SecretKey:           envString("S3_SECRET_KEY", ""),
		S3Endpoint:            envString("S3_ENDPOINT", ""),
		S3PresignExpiryPublic: envDuration("S3_PRESIGN_EXPIRY_PUBLIC", 168*time.Hour),
	}

	validate(cfg)

	return cfg
}

// validate stops the process on combinations that can never work at runtime.
func validate(cfg *Config) {
	if cfg.TokenCodec != "plain" && cfg.TokenCodec != "jwt" {
		slog.Error("TOKEN_CODEC must be 'plain' or 'jwt'", "value", cfg.TokenCodec)
		os.Exit(1)
	}
	if cfg.TokenCodec == "jwt" && cfg.TokenSecret == "" {
		slog.Error("TOKEN_CODEC=jwt requires TOKEN_SECRET")
		os.Exit(1)
	}
	if cfg.UploadsBackend == "s3" && (cfg.S3Bucket == "" || cfg.S3Region == "") {
		slog.Error("UPLOADS_BACKEND=s3 requires S3_BUCKET and S3_REGION")
		os.Exit(1)
	}
	if cfg.IsProduction() && cfg.ResendAPIKey == "" {
		slog.Warn("RESEND_API_KEY not set, contact notifications will not be delivered")
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func envPrefixes(key string) []netip.Prefix {
	prefixes, err := parsePrefixes(envList(key))
	if err != nil {
		slog.Error("invalid "+key, "error", err)
		os.Exit(1)
	}
	return prefixes
}

// parsePrefixes accepts CIDRs and bare addresses, the latter as single-host prefixes.
func parsePrefixes(items []string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, item := range items {
		if strings.Contains(item, "/") {
			p, err := netip.ParsePrefix(item)
			if err != nil {
				return nil, err
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(item)
		if err != nil {
			return nil, fmt.Errorf("%q is neither an address nor a CIDR", item)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

func envInt64(key string, def int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		slog.Warn("config invalid integer, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
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

// Sanitized returns a copy of the config with only public/safe fields.
// Secrets and credentials are excluded.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:        c.AppName,
		AppEnv:         c.AppEnv,
		AppURL:         c.AppURL,
		Port:           c.Port,
		CORSOrigins:    c.CORSOrigins,
		TokenCodec:     c.TokenCodec,
		TokenExpiry:    c.TokenExpiry,
		UploadsBackend: c.UploadsBackend,
		EmailFrom:      c.EmailFrom,
		S3Endpoint:     c.S3Endpoint,
	}
}
