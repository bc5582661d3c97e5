package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/cenkalti/backoff/v4"
	"github.com/pressly/goose/v3"

	"github.com/ownerchain/ownerchain/assets"
	"github.com/ownerchain/ownerchain/pkg/storage"
)

// MigrationProvider runs the SQLite schema migrations.
type MigrationProvider struct{}

// NewMigrationProvider creates a SQLite migration provider.
func NewMigrationProvider() *MigrationProvider {
	return &MigrationProvider{}
}

// GetSupportedEngine returns the database engine this provider supports.
func (s *MigrationProvider) GetSupportedEngine() string {
	return "sqlite"
}

// RunMigrations executes the SQLite migrations.
func (s *MigrationProvider) RunMigrations(ctx context.Context, config storage.MigrationConfig) error {
	goose.SetLogger(goose.NopLogger())
	goose.SetVerbose(config.Verbose)

	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("set sqlite dialect: %w", err)
	}

	db, err := s.open(config)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = config.Timeout
	err = backoff.Retry(func() error {
		return db.PingContext(ctx)
	}, policy)
	if err != nil {
		return fmt.Errorf("initialize sqlite connection: %w", err)
	}

	goose.SetBaseFS(assets.EmbedMigrations)

	return s.executeMigrations(db, config)
}

// GetCurrentVersion returns the current migration version.
func (s *MigrationProvider) GetCurrentVersion(_ context.Context, config storage.MigrationConfig) (int64, error) {
	db, err := s.open(config)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()

	goose.SetBaseFS(assets.EmbedMigrations)
	return goose.GetDBVersion(db)
}

func (s *MigrationProvider) open(config storage.MigrationConfig) (*sql.DB, error) {
	uri, err := PrepareDSN(config.URI)
	if err != nil {
		return nil, err
	}

	db, err := goose.OpenDBWithDriver("sqlite", uri)
	if err != nil {
		return nil, fmt.Errorf("open sqlite connection: %w", err)
	}
	return db, nil
}

func (s *MigrationProvider) executeMigrations(db *sql.DB, config storage.MigrationConfig) error {
	migrationsPath := assets.SqliteMigrationDir

	currentVersion, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("get sqlite db version: %w", err)
	}

	if config.TargetVersion == 0 {
		if err := goose.Up(db, migrationsPath); err != nil {
			return fmt.Errorf("run sqlite migrations: %w", err)
		}
		return nil
	}

	targetVersion := int64(config.TargetVersion)

	switch {
	case targetVersion < currentVersion:
		if err := goose.DownTo(db, migrationsPath, targetVersion); err != nil {
			return fmt.Errorf("run sqlite migrations down to %v: %w", targetVersion, err)
		}
	case targetVersion > currentVersion:
		if err := goose.UpTo(db, migrationsPath, targetVersion); err != nil {
			return fmt.Errorf("run sqlite migrations up to %v: %w", targetVersion, err)
		}
	default:
		log.Println("sqlite schema already at target version")
	}

	return nil
}
