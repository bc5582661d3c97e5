// Package sqlcommon carries the pieces shared by the SQL backed record
// stores: connection configuration, error translation, and the query layer
// built on squirrel. The sqlite and postgres packages only differ in how they
// open the database and which placeholder format they use.
package sqlcommon

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/ownerchain/ownerchain/pkg/logger"
	"github.com/ownerchain/ownerchain/pkg/storage"
	"github.com/ownerchain/ownerchain/pkg/types"
)

// Config defines the configuration parameters
// for setting up and managing a sql connection.
type Config struct {
	Username string
	Password string
	Logger   logger.Logger

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration

	ExportMetrics bool
}

// DatastoreOption defines a function type
// used for configuring a Config object.
type DatastoreOption func(*Config)

// WithUsername returns a DatastoreOption that sets the username in the Config.
func WithUsername(username string) DatastoreOption {
	return func(config *Config) {
		config.Username = username
	}
}

// WithPassword returns a DatastoreOption that sets the password in the Config.
func WithPassword(password string) DatastoreOption {
	return func(config *Config) {
		config.Password = password
	}
}

// WithLogger returns a DatastoreOption that sets the Logger in the Config.
func WithLogger(l logger.Logger) DatastoreOption {
	return func(cfg *Config) {
		cfg.Logger = l
	}
}

// WithMaxOpenConns returns a DatastoreOption that sets the
// maximum number of open connections in the Config.
func WithMaxOpenConns(c int) DatastoreOption {
	return func(cfg *Config) {
		cfg.MaxOpenConns = c
	}
}

// WithMaxIdleConns returns a DatastoreOption that sets the
// maximum number of idle connections in the Config.
func WithMaxIdleConns(c int) DatastoreOption {
	return func(cfg *Config) {
		cfg.MaxIdleConns = c
	}
}

// WithConnMaxIdleTime returns a DatastoreOption that sets
// the maximum idle time for a connection in the Config.
func WithConnMaxIdleTime(d time.Duration) DatastoreOption {
	return func(cfg *Config) {
		cfg.ConnMaxIdleTime = d
	}
}

// WithConnMaxLifetime returns a DatastoreOption that sets
// the maximum lifetime for a connection in the Config.
func WithConnMaxLifetime(d time.Duration) DatastoreOption {
	return func(cfg *Config) {
		cfg.ConnMaxLifetime = d
	}
}

// WithMetrics returns a DatastoreOption that enables
// the export of database statistics.
func WithMetrics() DatastoreOption {
	return func(cfg *Config) {
		cfg.ExportMetrics = true
	}
}

// NewConfig creates a new Config with the provided options applied.
func NewConfig(opts ...DatastoreOption) *Config {
	config := &Config{
		Logger: logger.NewNoopLogger(),
	}

	for _, opt := range opts {
		opt(config)
	}

	return config
}

// ErrorHandlerFn translates a driver level error into the storage error
// taxonomy.
type ErrorHandlerFn func(error, ...interface{}) error

// HandleSQLError is the default error translation shared by the SQL stores.
func HandleSQLError(err error, _ ...interface{}) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return storage.ErrCancelled
	}
	return fmt.Errorf("%w: %s", storage.ErrStoreUnavailable, err)
}

// Ping verifies connectivity with exponential backoff, bounded by the
// context.
func Ping(ctx context.Context, db *sql.DB) error {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = time.Minute

	return backoff.Retry(func() error {
		return db.PingContext(ctx)
	}, backoff.WithContext(policy, ctx))
}

// ApplyConnSettings copies the pool sizing from the config onto the handle.
func ApplyConnSettings(db *sql.DB, cfg *Config) {
	if cfg.MaxOpenConns != 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns != 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxIdleTime != 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
	if cfg.ConnMaxLifetime != 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

// Datastore implements the record store reads on top of any database/sql
// handle. The driver packages embed it and supply the placeholder format and
// the error handler for their driver.
type Datastore struct {
	db             *sql.DB
	stbl           sq.StatementBuilderType
	handleSQLError ErrorHandlerFn
	logger         logger.Logger
}

// NewDatastore wraps an open handle with the shared query layer.
func NewDatastore(db *sql.DB, stbl sq.StatementBuilderType, errHandler ErrorHandlerFn, l logger.Logger) *Datastore {
	if errHandler == nil {
		errHandler = HandleSQLError
	}
	if l == nil {
		l = logger.NewNoopLogger()
	}
	return &Datastore{
		db:             db,
		stbl:           stbl,
		handleSQLError: errHandler,
		logger:         l,
	}
}

// DB exposes the underlying handle for driver specific checks and stats
// collectors.
func (d *Datastore) DB() *sql.DB {
	return d.db
}

// GetBrand reads a single brand row.
func (d *Datastore) GetBrand(ctx context.Context, brandID int64) (*types.Brand, error) {
	row := d.stbl.
		Select("id", "name", "sector_id", "boycott_tip").
		From("brands").
		Where(sq.Eq{"id": brandID}).
		RunWith(d.db).
		QueryRowContext(ctx)

	var (
		brand      types.Brand
		sectorID   sql.NullInt64
		boycottTip sql.NullString
	)
	if err := row.Scan(&brand.ID, &brand.Name, &sectorID, &boycottTip); err != nil {
		return nil, d.handleSQLError(err)
	}
	brand.SectorID = sectorID.Int64
	brand.BoycottTip = boycottTip.String

	return &brand, nil
}

// GetBrandBeneficiaryLinks reads the direct brand-to-beneficiary edges of a
// brand, ordered by id.
func (d *Datastore) GetBrandBeneficiaryLinks(ctx context.Context, brandID int64) ([]*types.BrandBeneficiaryLink, error) {
	rows, err := d.stbl.
		Select("id", "brand_id", "beneficiary_id", "financial_link", "impact_override").
		From("brand_beneficiaries").
		Where(sq.Eq{"brand_id": brandID}).
		OrderBy("id").
		RunWith(d.db).
		QueryContext(ctx)
	if err != nil {
		return nil, d.handleSQLError(err)
	}
	defer func() { _ = rows.Close() }()

	var links []*types.BrandBeneficiaryLink
	for rows.Next() {
		var (
			link           types.BrandBeneficiaryLink
			impactOverride sql.NullString
		)
		if err := rows.Scan(&link.ID, &link.BrandID, &link.BeneficiaryID, &link.FinancialLink, &impactOverride); err != nil {
			return nil, d.handleSQLError(err)
		}
		link.ImpactOverride = impactOverride.String
		links = append(links, &link)
	}
	if err := rows.Err(); err != nil {
		return nil, d.handleSQLError(err)
	}

	return links, nil
}

// GetBeneficiary reads a beneficiary with its controversies attached.
func (d *Datastore) GetBeneficiary(ctx context.Context, beneficiaryID int64) (*types.Beneficiary, error) {
	row := d.stbl.
		Select("id", "name", "type", "generic_impact").
		From("beneficiaries").
		Where(sq.Eq{"id": beneficiaryID}).
		RunWith(d.db).
		QueryRowContext(ctx)

	var (
		beneficiary   types.Beneficiary
		genericImpact sql.NullString
	)
	if err := row.Scan(&beneficiary.ID, &beneficiary.Name, &beneficiary.Type, &genericImpact); err != nil {
		return nil, d.handleSQLError(err)
	}
	beneficiary.GenericImpact = genericImpact.String

	controversies, err := d.getControversies(ctx, beneficiaryID)
	if err != nil {
		return nil, err
	}
	beneficiary.Controversies = controversies

	return &beneficiary, nil
}

func (d *Datastore) getControversies(ctx context.Context, beneficiaryID int64) ([]types.Controversy, error) {
	rows, err := d.stbl.
		Select("id", "title", "date", "source_url").
		From("controversies").
		Where(sq.Eq{"beneficiary_id": beneficiaryID}).
		OrderBy("id").
		RunWith(d.db).
		QueryContext(ctx)
	if err != nil {
		return nil, d.handleSQLError(err)
	}
	defer func() { _ = rows.Close() }()

	controversies := []types.Controversy{}
	for rows.Next() {
		var (
			controversy types.Controversy
			date        sql.NullTime
		)
		if err := rows.Scan(&controversy.ID, &controversy.Title, &date, &controversy.SourceURL); err != nil {
			return nil, d.handleSQLError(err)
		}
		if date.Valid {
			t := date.Time
			controversy.Date = &t
		}
		controversies = append(controversies, controversy)
	}
	if err := rows.Err(); err != nil {
		return nil, d.handleSQLError(err)
	}

	return controversies, nil
}

// GetOutgoingRelations reads the relations where the beneficiary is the
// source, ordered by id.
func (d *Datastore) GetOutgoingRelations(ctx context.Context, beneficiaryID int64) ([]*types.BeneficiaryRelation, error) {
	return d.getRelations(ctx, sq.Eq{"source_id": beneficiaryID})
}

// GetIncomingRelations reads the relations where the beneficiary is the
// target, ordered by id.
func (d *Datastore) GetIncomingRelations(ctx context.Context, beneficiaryID int64) ([]*types.BeneficiaryRelation, error) {
	return d.getRelations(ctx, sq.Eq{"target_id": beneficiaryID})
}

func (d *Datastore) getRelations(ctx context.Context, pred sq.Eq) ([]*types.BeneficiaryRelation, error) {
	rows, err := d.stbl.
		Select("id", "source_id", "target_id", "description").
		From("beneficiary_relations").
		Where(pred).
		OrderBy("id").
		RunWith(d.db).
		QueryContext(ctx)
	if err != nil {
		return nil, d.handleSQLError(err)
	}
	defer func() { _ = rows.Close() }()

	var relations []*types.BeneficiaryRelation
	for rows.Next() {
		var (
			relation    types.BeneficiaryRelation
			description sql.NullString
		)
		if err := rows.Scan(&relation.ID, &relation.SourceID, &relation.TargetID, &description); err != nil {
			return nil, d.handleSQLError(err)
		}
		relation.Description = description.String
		relations = append(relations, &relation)
	}
	if err := rows.Err(); err != nil {
		return nil, d.handleSQLError(err)
	}

	return relations, nil
}

// GetBrandsForBeneficiary reads the brands directly linked to a beneficiary,
// ordered by brand id.
func (d *Datastore) GetBrandsForBeneficiary(ctx context.Context, beneficiaryID int64) ([]*types.BrandRef, error) {
	rows, err := d.stbl.
		Select("b.id", "b.name").
		From("brands b").
		Join("brand_beneficiaries l ON l.brand_id = b.id").
		Where(sq.Eq{"l.beneficiary_id": beneficiaryID}).
		OrderBy("b.id").
		RunWith(d.db).
		QueryContext(ctx)
	if err != nil {
		return nil, d.handleSQLError(err)
	}
	defer func() { _ = rows.Close() }()

	var brands []*types.BrandRef
	for rows.Next() {
		var brand types.BrandRef
		if err := rows.Scan(&brand.ID, &brand.Name); err != nil {
			return nil, d.handleSQLError(err)
		}
		brands = append(brands, &brand)
	}
	if err := rows.Err(); err != nil {
		return nil, d.handleSQLError(err)
	}

	return brands, nil
}

// IsReady reports whether the database answers a ping.
func (d *Datastore) IsReady(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.db.PingContext(ctx); err != nil {
		return false, d.handleSQLError(err)
	}
	return true, nil
}

// Close releases the database handle.
func (d *Datastore) Close() {
	if err := d.db.Close(); err != nil {
		d.logger.Error("failed to close the database handle", zap.Error(err))
	}
}
