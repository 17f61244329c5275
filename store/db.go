package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kcmvp/orderdesk/app"
	"github.com/spf13/viper"
)

// Conn is the minimal statement-execution contract shared by a live database
// and an open transaction. Helpers that must run inside the caller's
// transaction (order commit, schema migration) accept a Conn.
type Conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// DB is the database contract used by this package.
// It mirrors the methods we use from *sql.DB and can be backed by *sql.DB or a thin wrapper.
//
// This indirection lets us add cross-cutting features (SQL logging, tracing)
// without changing the higher-level data-access APIs.
type DB interface {
	Conn
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	PingContext(ctx context.Context) error
	Close() error
}

// stdDB adapts *sql.DB to the DB interface.
type stdDB struct{ *sql.DB }

func (d stdDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return d.DB.ExecContext(ctx, query, args...)
}

func (d stdDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return d.DB.QueryContext(ctx, query, args...)
}

func (d stdDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return d.DB.BeginTx(ctx, opts)
}

func (d stdDB) PingContext(ctx context.Context) error { return d.DB.PingContext(ctx) }

// loggingDB is a thin wrapper around DB that logs SQL statements.
// It is intentionally minimal and does not attempt to pretty-print SQL.
// Use it in dev/test or when you need observability.
type loggingDB struct {
	inner  DB
	logger *log.Logger
}

func (d loggingDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := d.inner.ExecContext(ctx, query, args...)
	d.logger.Printf("store exec dur=%s err=%v sql=%q args=%v", time.Since(start), err, query, args)
	return res, err
}

func (d loggingDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.inner.QueryContext(ctx, query, args...)
	d.logger.Printf("store query dur=%s err=%v sql=%q args=%v", time.Since(start), err, query, args)
	return rows, err
}

func (d loggingDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	start := time.Now()
	tx, err := d.inner.BeginTx(ctx, opts)
	d.logger.Printf("store begin dur=%s err=%v", time.Since(start), err)
	return tx, err
}

func (d loggingDB) PingContext(ctx context.Context) error {
	start := time.Now()
	err := d.inner.PingContext(ctx)
	d.logger.Printf("store ping dur=%s err=%v", time.Since(start), err)
	return err
}

func (d loggingDB) Close() error {
	start := time.Now()
	err := d.inner.Close()
	d.logger.Printf("store close dur=%s err=%v", time.Since(start), err)
	return err
}

// WithSQLLogger wraps db with a SQL logger if logger is not nil.
func WithSQLLogger(db DB, logger *log.Logger) DB {
	if logger == nil {
		return db
	}
	return loggingDB{inner: db, logger: logger}
}

var (
	defaultDS DB
	// registry holds named datasources
	dsRegistry = map[string]DB{}
	dsMu       sync.RWMutex

	initOnce sync.Once
	initErr  error

	// sqlLogger, when set, enables SQL logging for all registered datasources.
	sqlLogger *log.Logger
)

// SetSQLLogger enables SQL logging for all datasources registered after this call.
// Call this early (e.g., in main) before any DefaultDS/GetDS calls.
func SetSQLLogger(l *log.Logger) {
	sqlLogger = l
}

const defaultDSName = "default"

// dataSource describes one entry of the `datasource` map in application.yml.
//
// For the standard single-file deployment the default entry is simply:
//
//	datasource:
//	  default:
//	    driver: sqlite3
//	    url: banco_dados.db
//
// url is passed to sql.Open as-is, so sqlite URI forms like
// `file::memory:?cache=shared` work too.
type dataSource struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	URL    string `mapstructure:"url" yaml:"url"`
}

// registerDataSource opens a database connection from cfg and registers it under the provided name.
// If name is empty, default is used. The function will Ping the DB to validate the connection.
func registerDataSource(name string, cfg dataSource) error {
	if name == "" {
		name = defaultDSName
	}
	if cfg.Driver == "" {
		return fmt.Errorf("driver is required to register datasource %q", name)
	}
	if cfg.URL == "" {
		return fmt.Errorf("url is required to register datasource %q", name)
	}
	raw, err := sql.Open(cfg.Driver, cfg.URL)
	if err != nil {
		return fmt.Errorf("open datasource %q: %w", name, err)
	}
	if err := raw.PingContext(context.Background()); err != nil {
		_ = raw.Close()
		return fmt.Errorf("ping datasource %q: %w", name, err)
	}

	var db DB = stdDB{DB: raw}
	if sqlLogger != nil {
		db = WithSQLLogger(db, sqlLogger)
	}

	dsMu.Lock()
	defer dsMu.Unlock()
	dsRegistry[name] = db
	if name == defaultDSName && defaultDS == nil {
		defaultDS = db
	}
	return nil
}

func initDataSources() error {
	initOnce.Do(func() {
		res := app.Config()
		if res.IsError() {
			initErr = res.Error()
			return
		}
		cfg := res.MustGet()

		raw := cfg.GetStringMap("datasource")
		if len(raw) == 0 {
			return
		}

		for name, val := range raw {
			child := viper.New()
			if m, ok := val.(map[string]any); ok {
				if err := child.MergeConfigMap(m); err != nil {
					initErr = fmt.Errorf("merge datasource %s: %w", name, err)
					return
				}
			}

			var ds dataSource
			if err := child.Unmarshal(&ds); err != nil {
				initErr = fmt.Errorf("unmarshal datasource %s: %w", name, err)
				return
			}

			if err := registerDataSource(name, ds); err != nil {
				initErr = fmt.Errorf("register datasource %s: %w", name, err)
				return
			}
		}
	})
	return initErr
}

// GetDS returns a registered datasource by name.
func GetDS(name string) (DB, bool) {
	_ = initDataSources()
	if name == "" {
		name = defaultDSName
	}
	dsMu.RLock()
	defer dsMu.RUnlock()
	db, ok := dsRegistry[name]
	return db, ok
}

// DefaultDS returns the default datasource if registered.
func DefaultDS() (DB, bool) {
	_ = initDataSources()
	dsMu.RLock()
	defer dsMu.RUnlock()
	if defaultDS == nil {
		db, ok := dsRegistry[defaultDSName]
		return db, ok
	}
	return defaultDS, true
}

// CloseDataSource closes and removes the named datasource from the registry.
func CloseDataSource(name string) error {
	if name == "" {
		name = defaultDSName
	}
	dsMu.Lock()
	defer dsMu.Unlock()
	if db, ok := dsRegistry[name]; ok {
		delete(dsRegistry, name)
		return db.Close()
	}
	return nil
}

// CloseAllDataSources closes and removes all registered datasources from the registry.
// It returns the first error encountered while closing any datasource, or nil on success.
func CloseAllDataSources() error {
	dsMu.Lock()
	defer dsMu.Unlock()
	var firstErr error
	for name, db := range dsRegistry {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(dsRegistry, name)
	}
	defaultDS = nil
	return firstErr
}
