// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderSupabase = "supabase"
	ProviderFirebase = "firebase"

	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"

	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode            string        `mapstructure:"GIN_MODE"`
	ServerHost         string        `mapstructure:"SERVER_HOST"`
	ServerPort         string        `mapstructure:"SERVER_PORT"`
	ServerTimeout      time.Duration `mapstructure:"-"` // SERVER_TIMEOUT_SECONDS
	CORSAllowedOrigins []string      `mapstructure:"-"` // CORS_ALLOWED_ORIGINS, comma separated

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Auth provider selection
	AuthProvider        string        `mapstructure:"AUTH_PROVIDER"`
	AuthProviderTimeout time.Duration `mapstructure:"-"` // AUTH_PROVIDER_TIMEOUT_SECONDS

	// Supabase Configuration
	SupabaseURL        string `mapstructure:"SUPABASE_URL"`
	SupabaseProjectRef string `mapstructure:"SUPABASE_PROJECT_REF"`
	SupabaseAnonKey    string `mapstructure:"SUPABASE_ANON_KEY"`

	// Firebase Configuration
	FirebaseServiceAccountKeyPath string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_KEY_PATH"`
	FirebaseProjectID             string `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseWebAPIKey             string `mapstructure:"FIREBASE_WEB_API_KEY"`

	// Session Configuration
	SessionStore        string        `mapstructure:"SESSION_STORE"`
	SessionCookieName   string        `mapstructure:"SESSION_COOKIE_NAME"`
	SessionCookieDomain string        `mapstructure:"SESSION_COOKIE_DOMAIN"`
	SessionCookieSecure bool          `mapstructure:"SESSION_COOKIE_SECURE"`
	SessionTTL          time.Duration `mapstructure:"-"` // SESSION_TTL_HOURS

	// Redis Configuration
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// Database Configuration (audit trail)
	DBDriver          string        `mapstructure:"DB_DRIVER"`
	SQLitePath        string        `mapstructure:"SQLITE_PATH"`
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"-"` // DB_CONN_MAX_LIFETIME_MINUTES

	// Audit trail
	AuditRetentionDays        int    `mapstructure:"AUDIT_RETENTION_DAYS"`
	AuditRetentionJobSchedule string `mapstructure:"AUDIT_RETENTION_JOB_SCHEDULE"`
	AuditRecentLimit          int    `mapstructure:"AUDIT_RECENT_LIMIT"`
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Durations are configured as plain integers in their natural unit, so
	// they are read here instead of through Unmarshal.
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.AuthProviderTimeout = time.Duration(v.GetInt("AUTH_PROVIDER_TIMEOUT_SECONDS")) * time.Second
	cfg.SessionTTL = time.Duration(v.GetInt("SESSION_TTL_HOURS")) * time.Hour
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute
	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("AUTH_PROVIDER", ProviderSupabase)
	v.SetDefault("AUTH_PROVIDER_TIMEOUT_SECONDS", 10)
	v.SetDefault("SUPABASE_URL", "")
	v.SetDefault("SUPABASE_PROJECT_REF", "")
	v.SetDefault("SUPABASE_ANON_KEY", "")

	v.SetDefault("FIREBASE_SERVICE_ACCOUNT_KEY_PATH", "")
	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("FIREBASE_WEB_API_KEY", "")

	v.SetDefault("SESSION_STORE", SessionStoreMemory)
	v.SetDefault("SESSION_COOKIE_NAME", "docsign_session")
	v.SetDefault("SESSION_COOKIE_DOMAIN", "")
	v.SetDefault("SESSION_COOKIE_SECURE", false)
	v.SetDefault("SESSION_TTL_HOURS", 24*7)

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("DB_DRIVER", DBDriverSQLite)
	v.SetDefault("SQLITE_PATH", "docsign.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "docsign")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)

	v.SetDefault("AUDIT_RETENTION_DAYS", 90)
	v.SetDefault("AUDIT_RETENTION_JOB_SCHEDULE", "@daily")
	v.SetDefault("AUDIT_RECENT_LIMIT", 5)
}

// Validate checks that the settings required by the selected backends are present.
func (c *Config) Validate() error {
	switch c.AuthProvider {
	case ProviderSupabase:
		if strings.TrimSpace(c.SupabaseURL) == "" && strings.TrimSpace(c.SupabaseProjectRef) == "" {
			return fmt.Errorf("FATAL: SUPABASE_URL or SUPABASE_PROJECT_REF must be set when AUTH_PROVIDER=%s", ProviderSupabase)
		}
		if strings.TrimSpace(c.SupabaseAnonKey) == "" {
			return fmt.Errorf("FATAL: SUPABASE_ANON_KEY is not set")
		}
	case ProviderFirebase:
		if strings.TrimSpace(c.FirebaseServiceAccountKeyPath) == "" {
			return fmt.Errorf("FATAL: FIREBASE_SERVICE_ACCOUNT_KEY_PATH is not set. This is required for Firebase Admin SDK initialization")
		}
		if _, err := os.Stat(c.FirebaseServiceAccountKeyPath); os.IsNotExist(err) {
			return fmt.Errorf("FATAL: Firebase service account key file specified in FIREBASE_SERVICE_ACCOUNT_KEY_PATH (%s) not found", c.FirebaseServiceAccountKeyPath)
		}
		if strings.TrimSpace(c.FirebaseWebAPIKey) == "" {
			return fmt.Errorf("FATAL: FIREBASE_WEB_API_KEY is not set. Password sign-in goes through the Identity Toolkit API")
		}
	default:
		return fmt.Errorf("FATAL: unknown AUTH_PROVIDER %q (expected %s or %s)", c.AuthProvider, ProviderSupabase, ProviderFirebase)
	}

	switch c.SessionStore {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		return fmt.Errorf("FATAL: unknown SESSION_STORE %q", c.SessionStore)
	}

	switch c.DBDriver {
	case DBDriverSQLite, DBDriverPostgres:
	default:
		return fmt.Errorf("FATAL: unknown DB_DRIVER %q", c.DBDriver)
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("FATAL: SESSION_TTL_HOURS must be positive")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
