// Package sqlite provides a SQLite backed record store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/ownerchain/ownerchain/pkg/storage"
	"github.com/ownerchain/ownerchain/pkg/storage/sqlcommon"
)

// Datastore is a SQLite backed record store.
type Datastore struct {
	*sqlcommon.Datastore

	dbStatsCollector prometheus.Collector
}

var _ storage.RecordStore = (*Datastore)(nil)

// PrepareDSN normalizes a raw DSN, defaulting the journal mode and busy
// timeout pragmas when the caller did not set them.
func PrepareDSN(uri string) (string, error) {
	query := url.Values{}
	var err error

	if i := strings.Index(uri, "?"); i != -1 {
		query, err = url.ParseQuery(uri[i+1:])
		if err != nil {
			return uri, fmt.Errorf("parse dsn: %w", err)
		}
		uri = uri[:i]
	}

	foundJournalMode := false
	foundBusyTimeout := false
	for _, val := range query["_pragma"] {
		if strings.HasPrefix(val, "journal_mode") {
			foundJournalMode = true
		} else if strings.HasPrefix(val, "busy_timeout") {
			foundBusyTimeout = true
		}
	}

	if !foundJournalMode {
		query.Add("_pragma", "journal_mode(WAL)")
	}
	if !foundBusyTimeout {
		query.Add("_pragma", "busy_timeout(100)")
	}

	return uri + "?" + query.Encode(), nil
}

// New opens a SQLite record store at the given DSN.
func New(uri string, cfg *sqlcommon.Config) (*Datastore, error) {
	dsn, err := PrepareDSN(uri)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite connection: %w", err)
	}

	return NewWithDB(db, cfg)
}

// NewWithDB wraps an already open SQLite handle.
func NewWithDB(db *sql.DB, cfg *sqlcommon.Config) (*Datastore, error) {
	sqlcommon.ApplyConnSettings(db, cfg)

	if err := sqlcommon.Ping(context.Background(), db); err != nil {
		return nil, fmt.Errorf("initialize sqlite connection: %w", err)
	}

	var collector prometheus.Collector
	if cfg.ExportMetrics {
		collector = collectors.NewDBStatsCollector(db, "ownerchain")
		if err := prometheus.Register(collector); err != nil {
			return nil, fmt.Errorf("initialize metrics: %w", err)
		}
	}

	stbl := sq.StatementBuilder.RunWith(db)

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
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code()&0xFF == sqlite3.SQLITE_BUSY {
		return fmt.Errorf("%w: database is busy", storage.ErrStoreUnavailable)
	}
	return sqlcommon.HandleSQLError(err, args...)
}
