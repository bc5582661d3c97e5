// Package config holds the server configuration and its defaults.
package config

import (
	"fmt"
	"time"
)

const (
	// DefaultMaxDepth bounds chain traversal when a request does not override
	// it.
	DefaultMaxDepth = 5

	// DefaultMaxDepthCeiling is the largest depth a request override may ask
	// for. The depth bound is the engine's only hard resource-exhaustion
	// control, so overrides cannot raise it arbitrarily.
	DefaultMaxDepthCeiling = 10

	// DefaultChainCacheTTL caches resolved chains.
	DefaultChainCacheTTL = 10 * time.Minute

	// DefaultBrandCacheTTL caches per-beneficiary transitive brand results.
	// It runs longer than the chain TTL because the relation graph mutates
	// less often than chain composition.
	DefaultBrandCacheTTL = 30 * time.Minute

	// DefaultResponseCacheTTL caches whole endpoint responses.
	DefaultResponseCacheTTL = 10 * time.Minute

	DefaultCacheMaxEntries        = 10000
	DefaultEnrichmentConcurrency  = 8
	DefaultHTTPAddr               = "0.0.0.0:8080"
	DefaultRequestTimeout         = 30 * time.Second
	DefaultDatastoreEngine        = "memory"
	DefaultDatastoreMaxOpenConns  = 30
	DefaultDatastoreMaxIdleConns  = 10
	DefaultDatastoreConnMaxIdle   = time.Minute
	DefaultDatastoreConnMaxLife   = time.Minute
)

// DatastoreConfig configures the record store connection.
type DatastoreConfig struct {
	// Engine is one of "memory", "sqlite", "postgres".
	Engine string

	// URI is the connection string, unused by the memory engine.
	URI string

	Username string
	Password string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Enabled bool
	Addr    string

	CORSAllowedOrigins []string
	CORSAllowedHeaders []string

	TLS *TLSConfig
}

// TLSConfig holds the TLS cert and key paths.
type TLSConfig struct {
	Enabled  bool
	CertPath string
	KeyPath  string
}

// ChainConfig configures the resolution engine.
type ChainConfig struct {
	// MaxDepth is the depth bound applied when a request has no override.
	MaxDepth int

	// MaxDepthCeiling caps request overrides.
	MaxDepthCeiling int

	// EnrichmentConcurrency bounds the per-request enrichment fan-out.
	EnrichmentConcurrency int
}

// CacheConfig configures the process-local cache.
type CacheConfig struct {
	Enabled     bool
	MaxEntries  int64
	ChainTTL    time.Duration
	BrandTTL    time.Duration
	ResponseTTL time.Duration
}

// LogConfig configures logging.
type LogConfig struct {
	// Format is either "text" or "json".
	Format string

	// Level is one of "none", "debug", "info", "warn", "error", "panic", "fatal".
	Level string
}

// MetricsConfig configures the metrics endpoint.
type MetricsConfig struct {
	Enabled bool
	Addr    string
}

// Config is the whole server configuration.
type Config struct {
	Datastore DatastoreConfig
	HTTP      HTTPConfig
	Chain     ChainConfig
	Cache     CacheConfig
	Log       LogConfig
	Metrics   MetricsConfig

	// RequestTimeout bounds a single HTTP request end to end.
	RequestTimeout time.Duration

	// Debug exposes internal error detail in 500 responses.
	Debug bool
}

// DefaultConfig returns the config all servers start from.
func DefaultConfig() *Config {
	return &Config{
		Datastore: DatastoreConfig{
			Engine:          DefaultDatastoreEngine,
			MaxOpenConns:    DefaultDatastoreMaxOpenConns,
			MaxIdleConns:    DefaultDatastoreMaxIdleConns,
			ConnMaxIdleTime: DefaultDatastoreConnMaxIdle,
			ConnMaxLifetime: DefaultDatastoreConnMaxLife,
		},
		HTTP: HTTPConfig{
			Enabled:            true,
			Addr:               DefaultHTTPAddr,
			CORSAllowedOrigins: []string{"*"},
			CORSAllowedHeaders: []string{"*"},
		},
		Chain: ChainConfig{
			MaxDepth:              DefaultMaxDepth,
			MaxDepthCeiling:       DefaultMaxDepthCeiling,
			EnrichmentConcurrency: DefaultEnrichmentConcurrency,
		},
		Cache: CacheConfig{
			Enabled:     true,
			MaxEntries:  DefaultCacheMaxEntries,
			ChainTTL:    DefaultChainCacheTTL,
			BrandTTL:    DefaultBrandCacheTTL,
			ResponseTTL: DefaultResponseCacheTTL,
		},
		Log: LogConfig{
			Format: "text",
			Level:  "info",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    "0.0.0.0:2112",
		},
		RequestTimeout: DefaultRequestTimeout,
	}
}

// Verify validates the configuration.
func (c *Config) Verify() error {
	switch c.Datastore.Engine {
	case "memory":
	case "sqlite", "postgres":
		if c.Datastore.URI == "" {
			return fmt.Errorf("datastore uri is required for engine %q", c.Datastore.Engine)
		}
	default:
		return fmt.Errorf("unsupported datastore engine %q", c.Datastore.Engine)
	}

	if c.Chain.MaxDepth < 0 {
		return fmt.Errorf("chain max depth must be non-negative")
	}
	if c.Chain.MaxDepthCeiling < c.Chain.MaxDepth {
		return fmt.Errorf("chain max depth ceiling must be >= max depth")
	}
	if c.Chain.EnrichmentConcurrency <= 0 {
		return fmt.Errorf("enrichment concurrency must be positive")
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q", c.Log.Format)
	}

	switch c.Log.Level {
	case "none", "debug", "info", "warn", "error", "panic", "fatal":
	default:
		return fmt.Errorf("unsupported log level %q", c.Log.Level)
	}

	if c.HTTP.TLS != nil && c.HTTP.TLS.Enabled {
		if c.HTTP.TLS.CertPath == "" || c.HTTP.TLS.KeyPath == "" {
			return fmt.Errorf("http tls cert and key are required when tls is enabled")
		}
	}

	return nil
}
