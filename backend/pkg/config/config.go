package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"wordgraph/backend/internal/constants"
	apperrors "wordgraph/backend/pkg/errors"
)

// Snapshot backends
const (
	SnapshotBackendFile  = "file"
	SnapshotBackendNeo4j = "neo4j"
)

// Config holds all application configuration
type Config struct {
	// App
	Port     string
	Env      string
	LogLevel string
	LogFile  string // Optional file sink in addition to stderr

	// Storage
	DataLakePath    string // Raw downloaded/copied sources
	DatamartPath    string // Badger directory holding words by length
	SnapshotPath    string // JSON graph snapshot (file backend)
	SnapshotBackend string // "file" or "neo4j"

	// Neo4j (snapshot backend)
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	// Graph
	BuildStrategy string

	// Query limits
	DefaultPathDepth     int           // max_depth used when a request omits it
	MaxPathDepth         int           // Hard cap on max_depth
	MaxPaths             int           // Hard cap on paths returned per request
	MaxDiameterComponent int           // Components above this size are skipped for diameter (0 = no cap)
	QueryTimeout         time.Duration // Deadline for expensive queries

	// Ingestion
	MinWordLength int           // Gutenberg tokens shorter than this are dropped
	HTTPTimeout   time.Duration // Timeout for remote sources
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnv("PORT", constants.DefaultPort),
		Env:                  getEnv("ENV", "development"),
		LogLevel:             getEnv("LOG_LEVEL", ""),
		LogFile:              getEnv("LOG_FILE", ""),
		DataLakePath:         getEnv("DATA_LAKE_PATH", "datalake"),
		DatamartPath:         getEnv("DATAMART_PATH", "datamart"),
		SnapshotPath:         getEnv("SNAPSHOT_PATH", "graph.json"),
		SnapshotBackend:      strings.ToLower(getEnv("SNAPSHOT_BACKEND", SnapshotBackendFile)),
		Neo4jURI:             getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:            getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:        getEnv("NEO4J_PASSWORD", "password"),
		BuildStrategy:        getEnv("BUILD_STRATEGY", "bucketed"),
		DefaultPathDepth:     getEnvInt("DEFAULT_PATH_DEPTH", constants.DefaultPathDepth),
		MaxPathDepth:         getEnvInt("MAX_PATH_DEPTH", constants.MaxPathDepth),
		MaxPaths:             getEnvInt("MAX_PATHS", constants.MaxPaths),
		MaxDiameterComponent: getEnvInt("MAX_DIAMETER_COMPONENT", 0),
		QueryTimeout:         getEnvDuration("QUERY_TIMEOUT", 30*time.Second),
		MinWordLength:        getEnvInt("MIN_WORD_LENGTH", constants.GutenbergMinWordLength),
		HTTPTimeout:          getEnvDuration("HTTP_TIMEOUT", 60*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.Port == "" {
		return apperrors.NewConfigMissingRequired("PORT")
	}
	if c.DatamartPath == "" {
		return apperrors.NewConfigMissingRequired("DATAMART_PATH")
	}
	switch c.SnapshotBackend {
	case SnapshotBackendFile:
		if c.SnapshotPath == "" {
			return apperrors.NewConfigMissingRequired("SNAPSHOT_PATH")
		}
	case SnapshotBackendNeo4j:
		if c.Neo4jURI == "" {
			return apperrors.NewConfigMissingRequired("NEO4J_URI")
		}
		if c.Neo4jUser == "" {
			return apperrors.NewConfigMissingRequired("NEO4J_USER")
		}
	default:
		return apperrors.NewConfigValidationFailed("SNAPSHOT_BACKEND", fmt.Sprintf("unsupported backend %q", c.SnapshotBackend))
	}
	if c.DefaultPathDepth < 0 {
		return apperrors.NewConfigValidationFailed("DEFAULT_PATH_DEPTH", "must be non-negative")
	}
	if c.MaxPathDepth < c.DefaultPathDepth {
		return apperrors.NewConfigValidationFailed("MAX_PATH_DEPTH", "must be at least DEFAULT_PATH_DEPTH")
	}
	if c.MaxPaths <= 0 {
		return apperrors.NewConfigValidationFailed("MAX_PATHS", "must be positive")
	}
	if c.QueryTimeout <= 0 {
		return apperrors.NewConfigValidationFailed("QUERY_TIMEOUT", "must be positive")
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if result, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return result
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("45s") or a bare number of seconds
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
