// config/config.go - Application configuration
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultJWTSecret = "teammatch-secret-change-in-production"
)

// Config holds everything main.go and the CLI need to start.
type Config struct {
	AppEnv string
	Port   string

	DBDriver    string
	DatabaseURL string
	SQLitePath  string

	JWTSecret string
	TokenTTL  time.Duration

	CORSOrigins string

	RateLimitEnabled    bool
	RateLimitMax        int
	RateLimitWindow     time.Duration
	AuthRateLimitMax    int
	AuthRateLimitWindow time.Duration

	LogLevel string

	// Zero disables the background invariant audit.
	AuditInterval time.Duration

	// Accounts allowed on /api/admin, lowercased.
	AdminEmails []string
}

// Load reads .env (if present) and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn("Warning: .env file not found, using system environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() *Config {
	return &Config{
		AppEnv:              getEnv("APP_ENV", EnvDevelopment),
		Port:                getEnv("PORT", "3000"),
		DBDriver:            strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		DatabaseURL:         databaseURL(),
		SQLitePath:          getEnv("SQLITE_PATH", "./data/teammatch.db"),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		TokenTTL:            time.Duration(getEnvInt("TOKEN_TTL_HOURS", 720)) * time.Hour,
		CORSOrigins:         getEnv("CORS_ORIGINS", "http://localhost:3000"),
		RateLimitEnabled:    !isFalse(os.Getenv("RATE_LIMIT_ENABLED")),
		RateLimitMax:        getEnvInt("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitWindow:     msOrDefault("RATE_LIMIT_WINDOW_MS", 15*time.Minute),
		AuthRateLimitMax:    getEnvInt("AUTH_RATE_LIMIT_MAX", 5),
		AuthRateLimitWindow: msOrDefault("AUTH_RATE_LIMIT_WINDOW_MS", 5*time.Minute),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		AuditInterval:       time.Duration(getEnvInt("AUDIT_INTERVAL_MINUTES", 0)) * time.Minute,
		AdminEmails:         splitList(os.Getenv("ADMIN_EMAILS")),
	}
}

// Validate checks the settings that must be right before serving traffic.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters long")
	}

	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return errors.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrapf(err, "invalid LOG_LEVEL %q", c.LogLevel)
	}

	if c.IsProduction() && (c.CORSOrigins == "" || c.CORSOrigins == "http://localhost:3000") {
		log.Warn("WARNING: CORS_ORIGINS not properly configured for production")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// SigningSecret falls back to a development secret so local tooling keeps working.
func (c *Config) SigningSecret() string {
	if c.JWTSecret == "" {
		return defaultJWTSecret
	}
	return c.JWTSecret
}

func databaseURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}

	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "")
	dbname := getEnv("DB_NAME", "teammatch")
	sslmode := getEnv("DB_SSLMODE", "disable")

	return "host=" + host + " port=" + port + " user=" + user + " password=" + password +
		" dbname=" + dbname + " sslmode=" + sslmode
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return def
}

func msOrDefault(key string, def time.Duration) time.Duration {
	ms := getEnvInt(key, 0)
	if ms <= 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

func isFalse(val string) bool {
	val = strings.ToLower(strings.TrimSpace(val))
	return val == "false" || val == "0" || val == "no"
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
