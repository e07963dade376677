package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// StoreFile persists collections as a single JSON document on disk.
	StoreFile = "file"
	// StoreRedis persists collections under a single redis key.
	StoreRedis = "redis"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request timeout for the HTTP surface

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// TMDB upstream
	TMDBBaseURL   string        // ex: "https://api.themoviedb.org/3"
	TMDBAPIKey    string        // api_key query parameter, required
	RetryAttempts int           // additional attempts after the first failure
	RetryDelay    time.Duration // fixed delay between attempts

	// Guest sessions
	SessionExpiryBuffer time.Duration // session considered expired this long before expires_at
	SessionWaitTimeout  time.Duration // max wait for a creation already in flight

	// Collections persistence
	StoreBackend    string // "file" | "redis"
	CollectionsFile string // path of the JSON document (file backend)
	SeedFile        string // optional YAML file of starter collections

	// Redis (only read when StoreBackend == "redis")
	RedisAddr           string
	RedisUser           string
	RedisPassword       string
	RedisDB             int
	RedisDT             time.Duration // dial timeout
	RedisRT             time.Duration // read timeout
	RedisWT             time.Duration // write timeout
	RedisPoolSize       int
	RedisConnectTimeout time.Duration // total time to retry connecting
	RedisRetryInterval  time.Duration // initial wait between retries, grows exponentially
	RedisMaxWait        time.Duration // max wait between retries
	RedisPingTimeout    time.Duration // timeout for each ping attempt

	// HTTP perimeter
	CORSOrigins       []string // allowed origins for browser clients
	TrustProxy        bool     // true => trust X-Forwarded-For headers
	RateLimitBurst    int      // token bucket capacity per client IP
	RateLimitPerMin   int      // refill rate per client IP per minute
	RateLimitDisabled bool     // true => no rate limiting (dev/local)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("MOVIEDEX_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("MOVIEDEX_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("MOVIEDEX_REQUEST_TIMEOUT", 15*time.Second),

		// Logging
		LogLevel:  getenv("MOVIEDEX_LOG_LEVEL", "info"),
		PrettyLog: mustBool("MOVIEDEX_PRETTY_LOG", true),

		// TMDB
		TMDBBaseURL:   getenv("MOVIEDEX_TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		TMDBAPIKey:    requireEnv("MOVIEDEX_TMDB_API_KEY"),
		RetryAttempts: getenvInt("MOVIEDEX_RETRY_ATTEMPTS", 2),
		RetryDelay:    mustDuration("MOVIEDEX_RETRY_DELAY", time.Second),

		// Guest sessions
		SessionExpiryBuffer: mustDuration("MOVIEDEX_SESSION_EXPIRY_BUFFER", 5*time.Minute),
		SessionWaitTimeout:  mustDuration("MOVIEDEX_SESSION_WAIT_TIMEOUT", 5*time.Second),

		// Collections persistence
		StoreBackend:    getenv("MOVIEDEX_STORE_BACKEND", StoreFile),
		CollectionsFile: getenv("MOVIEDEX_COLLECTIONS_FILE", "collections.json"),
		SeedFile:        getenv("MOVIEDEX_SEED_FILE", ""),

		// HTTP perimeter
		CORSOrigins:       splitAndTrim(getenv("MOVIEDEX_CORS_ORIGINS", "*")),
		TrustProxy:        mustBool("MOVIEDEX_TRUST_PROXY", false),
		RateLimitBurst:    getenvInt("MOVIEDEX_RATE_LIMIT_BURST", 30),
		RateLimitPerMin:   getenvInt("MOVIEDEX_RATE_LIMIT_PER_MIN", 60),
		RateLimitDisabled: mustBool("MOVIEDEX_RATE_LIMIT_DISABLED", false),
	}

	switch cfg.StoreBackend {
	case StoreFile:
		// nothing more to load
	case StoreRedis:
		cfg.RedisAddr = requireEnv("MOVIEDEX_REDIS_ADDR")
		cfg.RedisUser = getenv("MOVIEDEX_REDIS_USERNAME", "default")
		cfg.RedisPassword = getenv("MOVIEDEX_REDIS_PASSWORD", "")
		cfg.RedisDB = getenvInt("MOVIEDEX_REDIS_DB", 0)
		cfg.RedisDT = mustDuration("MOVIEDEX_REDIS_DIAL_TIMEOUT", 5*time.Second)
		cfg.RedisRT = mustDuration("MOVIEDEX_REDIS_READ_TIMEOUT", 3*time.Second)
		cfg.RedisWT = mustDuration("MOVIEDEX_REDIS_WRITE_TIMEOUT", 3*time.Second)
		cfg.RedisPoolSize = getenvInt("MOVIEDEX_REDIS_POOL_SIZE", 10)
		cfg.RedisConnectTimeout = mustDuration("MOVIEDEX_REDIS_CONNECT_TIMEOUT", 30*time.Second)
		cfg.RedisRetryInterval = mustDuration("MOVIEDEX_REDIS_RETRY_INTERVAL", 2*time.Second)
		cfg.RedisMaxWait = mustDuration("MOVIEDEX_REDIS_MAX_WAIT", 10*time.Second)
		cfg.RedisPingTimeout = mustDuration("MOVIEDEX_REDIS_PING_TIMEOUT", 5*time.Second)
	default:
		panic(fmt.Sprintf("❌ FATAL: Unknown MOVIEDEX_STORE_BACKEND %q (want %q or %q)",
			cfg.StoreBackend, StoreFile, StoreRedis))
	}

	return cfg
}

// helpers

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
