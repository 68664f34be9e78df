package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Reference data backends.
const (
	SourceILP      = "ilp"
	SourcePostgres = "postgres"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	LogLevel          string

	// Reference data
	DataSource      string
	ILPServiceURL   string
	DatabaseURL     string
	RedisAddr       string
	RefDataCacheTTL time.Duration
	SeedPath        string

	// Planning
	LegTimeout          time.Duration
	PathWorkers         int
	DroneConcurrency    int
	SearchMaxIterations int
}

// Load reads a .env file when present, then the environment, falling back
// to defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:              Get("PORT", "8080"),
		ReadHeaderTimeout: getDuration("READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       getDuration("READ_TIMEOUT", 10*time.Second),
		// Planning calls can run several leg searches back to back.
		WriteTimeout:    getDuration("WRITE_TIMEOUT", 10*time.Minute),
		IdleTimeout:     getDuration("IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		LogLevel:        Get("LOG_LEVEL", "info"),

		DataSource:      strings.ToLower(Get("DATA_SOURCE", SourceILP)),
		ILPServiceURL:   Get("ILP_SERVICE_URL", "https://ilp-rest-2025-bvh6e9hschfagrgy.ukwest-01.azurewebsites.net"),
		DatabaseURL:     Get("DATABASE_URL", ""),
		RedisAddr:       Get("REDIS_ADDR", ""),
		RefDataCacheTTL: getDuration("REFDATA_CACHE_TTL", 5*time.Minute),
		SeedPath:        Get("SEED_PATH", "data/seeds/reference.json"),

		LegTimeout:          getDuration("LEG_TIMEOUT", 180*time.Second),
		PathWorkers:         getInt("PATH_WORKERS", runtime.NumCPU()),
		DroneConcurrency:    getInt("DRONE_CONCURRENCY", 4),
		SearchMaxIterations: getInt("SEARCH_MAX_ITERATIONS", 200_000),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the combinations Load cannot default away.
func (c *Config) Validate() error {
	switch c.DataSource {
	case SourceILP:
		if strings.TrimSpace(c.ILPServiceURL) == "" {
			return fmt.Errorf("config: ILP_SERVICE_URL is required when DATA_SOURCE=%s", SourceILP)
		}
	case SourcePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("config: DATABASE_URL is required when DATA_SOURCE=%s", SourcePostgres)
		}
	default:
		return fmt.Errorf("config: unknown DATA_SOURCE %q", c.DataSource)
	}

	if c.PathWorkers < 1 {
		return fmt.Errorf("config: PATH_WORKERS must be positive, got %d", c.PathWorkers)
	}
	if c.LegTimeout <= 0 {
		return fmt.Errorf("config: LEG_TIMEOUT must be positive, got %s", c.LegTimeout)
	}
	return nil
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(Get(key, "")); err == nil {
		return v
	}
	return fallback
}

// getDuration accepts Go durations ("90s") or a bare number of seconds.
func getDuration(key string, fallback time.Duration) time.Duration {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
