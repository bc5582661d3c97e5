package run

import (
	"github.com/spf13/cobra"

	"github.com/ownerchain/ownerchain/cmd/util"
	serverconfig "github.com/ownerchain/ownerchain/pkg/server/config"
)

// bindRunFlags binds the cobra cmd flags to the equivalent config value being
// managed by viper. This bridges the config between cobra flags and viper
// flags.
func bindRunFlags(command *cobra.Command) {
	defaultConfig := serverconfig.DefaultConfig()
	flags := command.Flags()

	flags.String("datastore-engine", defaultConfig.Datastore.Engine, "the datastore engine that will be used for persistence ('memory', 'sqlite', 'postgres')")
	util.MustBindPFlag("datastore.engine", flags.Lookup("datastore-engine"))
	util.MustBindEnv("datastore.engine", "OWNERCHAIN_DATASTORE_ENGINE")

	flags.String("datastore-uri", defaultConfig.Datastore.URI, "the connection uri to use to connect to the datastore (for any engine other than 'memory')")
	util.MustBindPFlag("datastore.uri", flags.Lookup("datastore-uri"))
	util.MustBindEnv("datastore.uri", "OWNERCHAIN_DATASTORE_URI")

	flags.String("datastore-username", "", "the connection username to use to connect to the datastore (overwrites any username provided in the connection uri)")
	util.MustBindPFlag("datastore.username", flags.Lookup("datastore-username"))
	util.MustBindEnv("datastore.username", "OWNERCHAIN_DATASTORE_USERNAME")

	flags.String("datastore-password", "", "the connection password to use to connect to the datastore (overwrites any password provided in the connection uri)")
	util.MustBindPFlag("datastore.password", flags.Lookup("datastore-password"))
	util.MustBindEnv("datastore.password", "OWNERCHAIN_DATASTORE_PASSWORD")

	flags.Int("datastore-max-open-conns", defaultConfig.Datastore.MaxOpenConns, "the maximum number of open connections to the datastore")
	util.MustBindPFlag("datastore.maxOpenConns", flags.Lookup("datastore-max-open-conns"))
	util.MustBindEnv("datastore.maxOpenConns", "OWNERCHAIN_DATASTORE_MAX_OPEN_CONNS")

	flags.Int("datastore-max-idle-conns", defaultConfig.Datastore.MaxIdleConns, "the maximum number of connections to the datastore in the idle connection pool")
	util.MustBindPFlag("datastore.maxIdleConns", flags.Lookup("datastore-max-idle-conns"))
	util.MustBindEnv("datastore.maxIdleConns", "OWNERCHAIN_DATASTORE_MAX_IDLE_CONNS")

	flags.Duration("datastore-conn-max-idle-time", defaultConfig.Datastore.ConnMaxIdleTime, "the maximum amount of time a connection to the datastore may be idle")
	util.MustBindPFlag("datastore.connMaxIdleTime", flags.Lookup("datastore-conn-max-idle-time"))
	util.MustBindEnv("datastore.connMaxIdleTime", "OWNERCHAIN_DATASTORE_CONN_MAX_IDLE_TIME")

	flags.Duration("datastore-conn-max-lifetime", defaultConfig.Datastore.ConnMaxLifetime, "the maximum amount of time a connection to the datastore may be reused")
	util.MustBindPFlag("datastore.connMaxLifetime", flags.Lookup("datastore-conn-max-lifetime"))
	util.MustBindEnv("datastore.connMaxLifetime", "OWNERCHAIN_DATASTORE_CONN_MAX_LIFETIME")

	flags.Bool("http-enabled", defaultConfig.HTTP.Enabled, "enable/disable the HTTP server")
	util.MustBindPFlag("http.enabled", flags.Lookup("http-enabled"))
	util.MustBindEnv("http.enabled", "OWNERCHAIN_HTTP_ENABLED")

	flags.String("http-addr", defaultConfig.HTTP.Addr, "the host:port address to serve the HTTP server on")
	util.MustBindPFlag("http.addr", flags.Lookup("http-addr"))
	util.MustBindEnv("http.addr", "OWNERCHAIN_HTTP_ADDR")

	flags.StringSlice("http-cors-allowed-origins", defaultConfig.HTTP.CORSAllowedOrigins, "specifies the CORS allowed origins")
	util.MustBindPFlag("http.corsAllowedOrigins", flags.Lookup("http-cors-allowed-origins"))
	util.MustBindEnv("http.corsAllowedOrigins", "OWNERCHAIN_HTTP_CORS_ALLOWED_ORIGINS")

	flags.StringSlice("http-cors-allowed-headers", defaultConfig.HTTP.CORSAllowedHeaders, "specifies the CORS allowed headers")
	util.MustBindPFlag("http.corsAllowedHeaders", flags.Lookup("http-cors-allowed-headers"))
	util.MustBindEnv("http.corsAllowedHeaders", "OWNERCHAIN_HTTP_CORS_ALLOWED_HEADERS")

	flags.Bool("http-tls-enabled", false, "enable/disable transport layer security (TLS)")
	util.MustBindPFlag("http.tls.enabled", flags.Lookup("http-tls-enabled"))
	util.MustBindEnv("http.tls.enabled", "OWNERCHAIN_HTTP_TLS_ENABLED")

	flags.String("http-tls-cert", "", "the (absolute) file path of the certificate to use for the TLS connection")
	util.MustBindPFlag("http.tls.certPath", flags.Lookup("http-tls-cert"))
	util.MustBindEnv("http.tls.certPath", "OWNERCHAIN_HTTP_TLS_CERT")

	flags.String("http-tls-key", "", "the (absolute) file path of the TLS key that should be used for the TLS connection")
	util.MustBindPFlag("http.tls.keyPath", flags.Lookup("http-tls-key"))
	util.MustBindEnv("http.tls.keyPath", "OWNERCHAIN_HTTP_TLS_KEY")

	command.MarkFlagsRequiredTogether("http-tls-enabled", "http-tls-cert", "http-tls-key")

	flags.Int("chain-max-depth", defaultConfig.Chain.MaxDepth, "the traversal depth bound applied when a request does not override it")
	util.MustBindPFlag("chain.maxDepth", flags.Lookup("chain-max-depth"))
	util.MustBindEnv("chain.maxDepth", "OWNERCHAIN_CHAIN_MAX_DEPTH")

	flags.Int("chain-max-depth-ceiling", defaultConfig.Chain.MaxDepthCeiling, "the largest traversal depth a request override may ask for")
	util.MustBindPFlag("chain.maxDepthCeiling", flags.Lookup("chain-max-depth-ceiling"))
	util.MustBindEnv("chain.maxDepthCeiling", "OWNERCHAIN_CHAIN_MAX_DEPTH_CEILING")

	flags.Int("chain-enrichment-concurrency", defaultConfig.Chain.EnrichmentConcurrency, "the number of chain nodes enriched concurrently per request")
	util.MustBindPFlag("chain.enrichmentConcurrency", flags.Lookup("chain-enrichment-concurrency"))
	util.MustBindEnv("chain.enrichmentConcurrency", "OWNERCHAIN_CHAIN_ENRICHMENT_CONCURRENCY")

	flags.Bool("cache-enabled", defaultConfig.Cache.Enabled, "enable/disable the in-process result cache")
	util.MustBindPFlag("cache.enabled", flags.Lookup("cache-enabled"))
	util.MustBindEnv("cache.enabled", "OWNERCHAIN_CACHE_ENABLED")

	flags.Int64("cache-max-entries", defaultConfig.Cache.MaxEntries, "the maximum number of entries kept per cache namespace")
	util.MustBindPFlag("cache.maxEntries", flags.Lookup("cache-max-entries"))
	util.MustBindEnv("cache.maxEntries", "OWNERCHAIN_CACHE_MAX_ENTRIES")

	flags.Duration("cache-chain-ttl", defaultConfig.Cache.ChainTTL, "the time that a resolved chain will remain cached")
	util.MustBindPFlag("cache.chainTTL", flags.Lookup("cache-chain-ttl"))
	util.MustBindEnv("cache.chainTTL", "OWNERCHAIN_CACHE_CHAIN_TTL")

	flags.Duration("cache-brand-ttl", defaultConfig.Cache.BrandTTL, "the time that a resolved per-beneficiary brand list will remain cached")
	util.MustBindPFlag("cache.brandTTL", flags.Lookup("cache-brand-ttl"))
	util.MustBindEnv("cache.brandTTL", "OWNERCHAIN_CACHE_BRAND_TTL")

	flags.Duration("cache-response-ttl", defaultConfig.Cache.ResponseTTL, "the time that a composed endpoint response will remain cached")
	util.MustBindPFlag("cache.responseTTL", flags.Lookup("cache-response-ttl"))
	util.MustBindEnv("cache.responseTTL", "OWNERCHAIN_CACHE_RESPONSE_TTL")

	flags.String("log-format", defaultConfig.Log.Format, "the log format to output logs in ('text', 'json')")
	util.MustBindPFlag("log.format", flags.Lookup("log-format"))
	util.MustBindEnv("log.format", "OWNERCHAIN_LOG_FORMAT")

	flags.String("log-level", defaultConfig.Log.Level, "the log level to use ('none', 'debug', 'info', 'warn', 'error', 'panic', 'fatal')")
	util.MustBindPFlag("log.level", flags.Lookup("log-level"))
	util.MustBindEnv("log.level", "OWNERCHAIN_LOG_LEVEL")

	flags.Bool("metrics-enabled", defaultConfig.Metrics.Enabled, "enable/disable prometheus metrics on the '/metrics' endpoint")
	util.MustBindPFlag("metrics.enabled", flags.Lookup("metrics-enabled"))
	util.MustBindEnv("metrics.enabled", "OWNERCHAIN_METRICS_ENABLED")

	flags.String("metrics-addr", defaultConfig.Metrics.Addr, "the host:port address to serve the prometheus metrics server on")
	util.MustBindPFlag("metrics.addr", flags.Lookup("metrics-addr"))
	util.MustBindEnv("metrics.addr", "OWNERCHAIN_METRICS_ADDR")

	flags.Duration("request-timeout", defaultConfig.RequestTimeout, "the timeout duration for a request end to end")
	util.MustBindPFlag("requestTimeout", flags.Lookup("request-timeout"))
	util.MustBindEnv("requestTimeout", "OWNERCHAIN_REQUEST_TIMEOUT")

	flags.Bool("debug", defaultConfig.Debug, "expose internal error detail in 500 responses")
	util.MustBindPFlag("debug", flags.Lookup("debug"))
	util.MustBindEnv("debug", "OWNERCHAIN_DEBUG")
}
