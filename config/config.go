package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds application configuration loaded from environment variables
// and an optional JSON file. Defaults suit local development.
type Config struct {
	AppName string
	Env     string // development, staging, production
	Port    string
	GinMode string

	// Storage selects the user repository: postgres or memory.
	Storage string

	// Database. DatabaseURL, when set, wins over the discrete fields.
	DatabaseURL   string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBMaxConns    int32
	DBMinConns    int32
	DBMaxConnLife time.Duration

	// Redis; an empty address disables rate limiting
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Auth tokens
	SecretKey string
	TokenTTL  time.Duration

	// CORS
	CORSAllowedOrigins string // comma-separated

	// Migrations
	MigrationsDir string
	AutoMigrate   bool

	RateLimitEnabled      bool
	RateLimitAllowPrivate bool

	// HTTP access log toggle (Gin logger)
	HTTPLogEnabled bool

	// cmd/seed
	SeedAdminEmail    string
	SeedAdminPassword string
	SeedAdminName     string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		AppName: getenv("APP_NAME", "vaccine-accounts"),
		Env:     getenv("APP_ENV", "development"),
		Port:    getenv("PORT", "8080"),
		GinMode: getenv("GIN_MODE", "release"),

		Storage: getenv("STORAGE", StoragePostgres),

		DatabaseURL:   getenv("DATABASE_URL", ""),
		DBHost:        getenv("DB_HOST", "localhost"),
		DBPort:        getenv("DB_PORT", "5432"),
		DBUser:        getenv("DB_USER", "postgres"),
		DBPassword:    getenv("DB_PASSWORD", "postgres"),
		DBName:        getenv("DB_NAME", "vaccines"),
		DBSSLMode:     getenv("DB_SSLMODE", "disable"),
		DBMaxConns:    int32(getint("DB_MAX_CONNS", 10)),
		DBMinConns:    int32(getint("DB_MIN_CONNS", 2)),
		DBMaxConnLife: getdur("DB_MAX_CONN_LIFETIME", time.Hour),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getint("REDIS_DB", 0),

		SecretKey: getenv("SECRET_KEY", ""),
		TokenTTL:  getdur("TOKEN_TTL", 48*time.Hour),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", "*"),

		MigrationsDir: getenv("MIGRATIONS_DIR", "db/migrations"),
		AutoMigrate:   getbool("AUTO_MIGRATE", true),

		RateLimitEnabled:      getbool("RATE_LIMIT_ENABLED", true),
		RateLimitAllowPrivate: getbool("RATE_LIMIT_ALLOW_PRIVATE", false),

		// HTTP access log toggle (default false; enable when needed)
		HTTPLogEnabled: getbool("HTTP_LOG_ENABLED", false),

		SeedAdminEmail:    getenv("SEED_ADMIN_EMAIL", ""),
		SeedAdminPassword: getenv("SEED_ADMIN_PASSWORD", ""),
		SeedAdminName:     getenv("SEED_ADMIN_NAME", "Administrator"),
	}
}

var (
	ErrNoSecretKey = errors.New("config: secret key is required")
	ErrBadStorage  = errors.New("config: storage must be postgres or memory")
)

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.SecretKey) == "" {
		errs = append(errs, ErrNoSecretKey)
	}
	if c.Storage != StoragePostgres && c.Storage != StorageMemory {
		errs = append(errs, ErrBadStorage)
	}
	return errors.Join(errs...)
}

// PostgresDSN returns a DSN compatible with pgx
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=" + c.DBSSLMode
}

// CORSOrigins returns the allowed origins as slice
func (c *Config) CORSOrigins() []string {
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
