// Package run contains the command to run an ownerchain server.
package run

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ownerchain/ownerchain/internal/build"
	"github.com/ownerchain/ownerchain/pkg/logger"
	"github.com/ownerchain/ownerchain/pkg/server"
	serverconfig "github.com/ownerchain/ownerchain/pkg/server/config"
	"github.com/ownerchain/ownerchain/pkg/storage"
	"github.com/ownerchain/ownerchain/pkg/storage/memory"
	"github.com/ownerchain/ownerchain/pkg/storage/postgres"
	"github.com/ownerchain/ownerchain/pkg/storage/sqlcommon"
	"github.com/ownerchain/ownerchain/pkg/storage/sqlite"
)

// NewRunCommand returns the command to run an ownerchain server.
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the ownerchain server",
		Long:  "Run the ownerchain server.",
		Run:   run,
		Args:  cobra.NoArgs,
	}

	bindRunFlags(cmd)

	return cmd
}

// ReadConfig returns the server configuration based on the values provided in
// the server's 'config.yaml' file, environment variables and flags.
func ReadConfig() (*serverconfig.Config, error) {
	config := serverconfig.DefaultConfig()

	viper.SetTypeByDefaultValue(true)
	err := viper.ReadInConfig()
	if err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("failed to load server config: %w", err)
		}
	}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal server config: %w", err)
	}

	return config, nil
}

func run(_ *cobra.Command, _ []string) {
	config, err := ReadConfig()
	if err != nil {
		panic(err)
	}

	if err := config.Verify(); err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(config.Log.Format, config.Log.Level)
	if err != nil {
		panic(err)
	}

	serverCtx := &ServerContext{Logger: log}
	if err := serverCtx.Run(context.Background(), config); err != nil {
		panic(err)
	}
}

// ServerContext holds what the run command needs across its lifecycle.
type ServerContext struct {
	Logger logger.Logger
}

func buildDatastore(config *serverconfig.Config, log logger.Logger) (storage.RecordStore, error) {
	engine := config.Datastore.Engine

	if engine == "memory" {
		return memory.New(), nil
	}

	opts := []sqlcommon.DatastoreOption{
		sqlcommon.WithUsername(config.Datastore.Username),
		sqlcommon.WithPassword(config.Datastore.Password),
		sqlcommon.WithLogger(log),
		sqlcommon.WithMaxOpenConns(config.Datastore.MaxOpenConns),
		sqlcommon.WithMaxIdleConns(config.Datastore.MaxIdleConns),
		sqlcommon.WithConnMaxIdleTime(config.Datastore.ConnMaxIdleTime),
		sqlcommon.WithConnMaxLifetime(config.Datastore.ConnMaxLifetime),
	}
	if config.Metrics.Enabled {
		opts = append(opts, sqlcommon.WithMetrics())
	}
	dsCfg := sqlcommon.NewConfig(opts...)

	switch engine {
	case "sqlite":
		return sqlite.New(config.Datastore.URI, dsCfg)
	case "postgres":
		return postgres.New(config.Datastore.URI, dsCfg)
	default:
		return nil, fmt.Errorf("storage engine '%s' is unsupported", engine)
	}
}

// Run starts the server, serves until a termination signal arrives, then
// shuts everything down gracefully.
func (s *ServerContext) Run(ctx context.Context, config *serverconfig.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, os.Kill, syscall.SIGTERM)
	defer stop()

	datastore, err := buildDatastore(config, s.Logger)
	if err != nil {
		return fmt.Errorf("initialize datastore: %w", err)
	}
	defer datastore.Close()

	svc, err := server.New(datastore,
		server.WithLogger(s.Logger),
		server.WithConfig(config),
	)
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}
	defer svc.Close()

	var httpServer *http.Server
	if config.HTTP.Enabled {
		httpServer = &http.Server{
			Addr:         config.HTTP.Addr,
			Handler:      svc.Handler(),
			ReadTimeout:  config.RequestTimeout,
			WriteTimeout: config.RequestTimeout,
		}

		go func() {
			var err error
			if config.HTTP.TLS != nil && config.HTTP.TLS.Enabled {
				s.Logger.Info("HTTP TLS is enabled, serving connections using the provided certificate")
				err = httpServer.ListenAndServeTLS(config.HTTP.TLS.CertPath, config.HTTP.TLS.KeyPath)
			} else {
				s.Logger.Info("HTTP TLS is disabled, serving connections using insecure plaintext")
				err = httpServer.ListenAndServe()
			}
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.Logger.Fatal("failed to start http server", zap.Error(err))
			}
		}()

		s.Logger.Info(fmt.Sprintf("HTTP server listening on '%s'...", config.HTTP.Addr))
	}

	var metricsServer *http.Server
	if config.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{Addr: config.Metrics.Addr, Handler: mux}

		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.Logger.Fatal("failed to start metrics server", zap.Error(err))
			}
		}()

		s.Logger.Info(fmt.Sprintf("metrics server listening on '%s'...", config.Metrics.Addr))
	}

	s.Logger.Info(
		"server starting",
		zap.String("version", build.Version),
		zap.String("date", build.Date),
		zap.String("commit", build.Commit),
		zap.String("datastore-engine", config.Datastore.Engine),
	)

	// wait for cancellation signal
	<-ctx.Done()
	s.Logger.Info("attempting to shutdown gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.Logger.Info("failed to shutdown the http server", zap.Error(err))
		}
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			s.Logger.Info("failed to shutdown the metrics server", zap.Error(err))
		}
	}

	s.Logger.Info("server exiting. Goodbye 👋")

	return nil
}
