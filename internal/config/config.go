package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Config contains runtime settings for the API server
type Config struct {
	LogLevel string
	GinMode  string
	Host     string // default 0.0.0.0
	Port     string // default 5000

	Store struct {
		Driver      string // memory, postgres or mysql
		DatabaseURL string
	}

	RabbitMQ struct {
		URL   string // events are disabled when empty
		Queue string
	}

	RateLimit struct {
		RedisURL        string // in-process limiter when empty
		WritesPerMinute int    // 0 disables limiting
	}

	Gemini struct {
		APIKey string
		Model  string
	}

	CORSOrigins     []string // empty allows every origin
	TrustedProxies  []string // IPs or CIDRs allowed to set X-Forwarded-For; empty trusts none
	ShutdownTimeout time.Duration
}

// Load reads an optional .env file and then populates config from the environment
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, which has the signature of os.LookupEnv
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	cfg := Config{
		LogLevel: get("LOG_LEVEL", "info"),
		GinMode:  get("GIN_MODE", "release"),
		Host:     get("HOST", "0.0.0.0"),
		Port:     get("PORT", "5000"),
	}

	if _, err := strconv.ParseUint(cfg.Port, 10, 16); err != nil {
		return cfg, fmt.Errorf("invalid PORT %q", cfg.Port)
	}

	cfg.Store.Driver = strings.ToLower(get("STORE_DRIVER", DriverMemory))
	cfg.Store.DatabaseURL = get("DATABASE_URL", "")
	switch cfg.Store.Driver {
	case DriverMemory:
	case DriverPostgres, DriverMySQL:
		if cfg.Store.DatabaseURL == "" {
			return cfg, fmt.Errorf("DATABASE_URL is required for STORE_DRIVER=%s", cfg.Store.Driver)
		}
	default:
		return cfg, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}

	cfg.RabbitMQ.URL = get("RABBITMQ_URL", "")
	cfg.RabbitMQ.Queue = get("RABBITMQ_QUEUE", "job_post_events")

	cfg.RateLimit.RedisURL = get("REDIS_URL", "")
	limit, err := strconv.Atoi(get("WRITE_RATE_LIMIT", "120"))
	if err != nil || limit < 0 {
		return cfg, fmt.Errorf("invalid WRITE_RATE_LIMIT %q", get("WRITE_RATE_LIMIT", ""))
	}
	cfg.RateLimit.WritesPerMinute = limit

	cfg.Gemini.APIKey = get("GEMINI_API_KEY", "")
	cfg.Gemini.Model = get("GEMINI_MODEL", "gemini-2.5-flash")

	cfg.CORSOrigins = splitList(get("CORS_ORIGINS", ""))

	cfg.TrustedProxies = splitList(get("TRUSTED_PROXIES", ""))
	for _, p := range cfg.TrustedProxies {
		if net.ParseIP(p) == nil {
			if _, _, err := net.ParseCIDR(p); err != nil {
				return cfg, fmt.Errorf("invalid TRUSTED_PROXIES entry %q", p)
			}
		}
	}

	timeout, err := time.ParseDuration(get("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return cfg, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}
	cfg.ShutdownTimeout = timeout

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
