// Package postgres provides a PostgreSQL backed record store.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ownerchain/ownerchain/pkg/storage"
	"github.com/ownerchain/ownerchain/pkg/storage/sqlcommon"
)

// Datastore is a PostgreSQL backed record store.
type Datastore struct {
	*sqlcommon.Datastore

	dbStatsCollector prometheus.Collector
}

var _ storage.RecordStore = (*Datastore)(nil)

// New opens a PostgreSQL record store at the given URI. Credentials given in
// the config override any present in the URI.
func New(uri string, cfg *sqlcommon.Config) (*Datastore, error) {
	if cfg.Username != "" || cfg.Password != "" {
		parsed, err := url.Parse(uri)
		if err != nil {
			return nil, fmt.Errorf("parse postgres connection uri: %w", err)
		}

		username := cfg.Username
		password := ""
		if parsed.User != nil {
			if username == "" {
				username = parsed.User.Username()
			}
			if p, ok := parsed.User.Password(); ok {
				password = p
			}
		}
		if cfg.Password != "" {
			password = cfg.Password
		}

		parsed.User = url.UserPassword(username, password)
		uri = parsed.String()
	}

	config, err := pgx.ParseConfig(uri)
	if err != nil {
		return nil, fmt.Errorf("parse postgres connection uri: %w", err)
	}

	db := stdlib.OpenDB(*config)

	return NewWithDB(db, cfg)
}

// NewWithDB wraps an already open PostgreSQL handle.
func NewWithDB(db *sql.DB, cfg *sqlcommon.Config) (*Datastore, error) {
	sqlcommon.ApplyConnSettings(db, cfg)

	if err := sqlcommon.Ping(context.Background(), db); err != nil {
		return nil, fmt.Errorf("initialize postgres connection: %w", err)
	}

	var collector prometheus.Collector
	if cfg.ExportMetrics {
		collector = collectors.NewDBStatsCollector(db, "ownerchain")
		if err := prometheus.Register(collector); err != nil {
			return nil, fmt.Errorf("initialize metrics: %w", err)
		}
	}

	stbl := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).RunWith(db)

	return &Datastore{
		Datastore:        sqlcommon.NewDatastore(db, stbl, handleSQLError, cfg.Logger),
		dbStatsCollector: collector,
	}, nil
}

// Close releases the metrics collector and the handle.
func (d *Datastore) Close() {
	if d.dbStatsCollector != nil {
		prometheus.Unregister(d.dbStatsCollector)
	}
	d.Datastore.Close()
}

func handleSQLError(err error, args ...interface{}) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%w: %s (%s)", storage.ErrStoreUnavailable, pgErr.Message, pgErr.Code)
	}
	return sqlcommon.HandleSQLError(err, args...)
}
