package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/url"

	"github.com/cenkalti/backoff/v4"
	"github.com/pressly/goose/v3"

	"github.com/ownerchain/ownerchain/assets"
	"github.com/ownerchain/ownerchain/pkg/storage"
)

// MigrationProvider runs the PostgreSQL schema migrations.
type MigrationProvider struct{}

// NewMigrationProvider creates a PostgreSQL migration provider.
func NewMigrationProvider() *MigrationProvider {
	return &MigrationProvider{}
}

// GetSupportedEngine returns the database engine this provider supports.
func (p *MigrationProvider) GetSupportedEngine() string {
	return "postgres"
}

// RunMigrations executes the PostgreSQL migrations.
func (p *MigrationProvider) RunMigrations(ctx context.Context, config storage.MigrationConfig) error {
	goose.SetLogger(goose.NopLogger())
	goose.SetVerbose(config.Verbose)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set postgres dialect: %w", err)
	}

	db, err := p.open(config)
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
		return fmt.Errorf("initialize postgres connection: %w", err)
	}

	goose.SetBaseFS(assets.EmbedMigrations)

	return p.executeMigrations(db, config)
}

// GetCurrentVersion returns the current migration version.
func (p *MigrationProvider) GetCurrentVersion(_ context.Context, config storage.MigrationConfig) (int64, error) {
	db, err := p.open(config)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()

	goose.SetBaseFS(assets.EmbedMigrations)
	return goose.GetDBVersion(db)
}

func (p *MigrationProvider) open(config storage.MigrationConfig) (*sql.DB, error) {
	uri := config.URI

	if config.Username != "" || config.Password != "" {
		parsed, err := url.Parse(uri)
		if err != nil {
			return nil, fmt.Errorf("parse postgres connection uri: %w", err)
		}

		username := config.Username
		password := ""
		if parsed.User != nil {
			if username == "" {
				username = parsed.User.Username()
			}
			if pw, ok := parsed.User.Password(); ok {
				password = pw
			}
		}
		if config.Password != "" {
			password = config.Password
		}

		parsed.User = url.UserPassword(username, password)
		uri = parsed.String()
	}

	db, err := goose.OpenDBWithDriver("pgx", uri)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}
	return db, nil
}

func (p *MigrationProvider) executeMigrations(db *sql.DB, config storage.MigrationConfig) error {
	migrationsPath := assets.PostgresMigrationDir

	currentVersion, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("get postgres db version: %w", err)
	}

	if config.TargetVersion == 0 {
		if err := goose.Up(db, migrationsPath); err != nil {
			return fmt.Errorf("run postgres migrations: %w", err)
		}
		return nil
	}

	targetVersion := int64(config.TargetVersion)

	switch {
	case targetVersion < currentVersion:
		if err := goose.DownTo(db, migrationsPath, targetVersion); err != nil {
			return fmt.Errorf("run postgres migrations down to %v: %w", targetVersion, err)
		}
	case targetVersion > currentVersion:
		if err := goose.UpTo(db, migrationsPath, targetVersion); err != nil {
			return fmt.Errorf("run postgres migrations up to %v: %w", targetVersion, err)
		}
	default:
		log.Println("postgres schema already at target version")
	}

	return nil
}
