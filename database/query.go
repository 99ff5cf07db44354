package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/url"
	"strconv"
	"time"

	"amiasbakery_server/config"
	"amiasbakery_server/structs"

	"github.com/MonkyMars/gecho"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// DB wraps a bun connection with additional functionality
type DB struct {
	*bun.DB
}

// Handles are the two trust levels the service talks to the database with.
// Writer is privileged and owns orders and slots. Reader runs every session
// read-only and only serves the catalog.
type Handles struct {
	Writer *DB
	Reader *DB
}

var (
	writer *DB
	reader *DB
)

const slowQueryThreshold = time.Second

// Wrap adopts an existing bun.DB, used by tests running on sqlite.
func Wrap(db *bun.DB) *DB {
	return &DB{db}
}

// Connect opens the privileged read-write handle through pgdriver
func Connect(cfg *structs.DatabaseConfig, logger *gecho.Logger) (*DB, error) {
	connector := pgdriver.NewConnector(
		pgdriver.WithAddr(net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))),
		pgdriver.WithUser(cfg.User),
		pgdriver.WithPassword(cfg.Password),
		pgdriver.WithDatabase(cfg.Name),
		pgdriver.WithInsecure(cfg.SSLMode == "disable"),
		pgdriver.WithReadTimeout(cfg.ReadTimeout),
		pgdriver.WithWriteTimeout(cfg.WriteTimeout),
		pgdriver.WithApplicationName("amiasbakery_server"),
	)

	sqldb := sql.OpenDB(connector)
	applyPool(sqldb, cfg)

	db := bun.NewDB(sqldb, pgdialect.New())
	db.AddQueryHook(&connectionHealthHook{logger: logger, handle: "writer"})

	if err := ping(db); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to database successfully", gecho.Field("handle", "writer"))
	return &DB{db}, nil
}

// ConnectReadOnly opens the catalog handle through pgx with every
// transaction defaulting to read-only.
func ConnectReadOnly(cfg *structs.DatabaseConfig, logger *gecho.Logger) (*DB, error) {
	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.ReadOnlyUser, cfg.ReadOnlyPassword),
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/" + cfg.Name,
	}
	q := dsn.Query()
	q.Set("sslmode", cfg.SSLMode)
	q.Set("default_transaction_read_only", "on")
	q.Set("application_name", "amiasbakery_server_catalog")
	dsn.RawQuery = q.Encode()

	sqldb, err := sql.Open("pgx", dsn.String())
	if err != nil {
		return nil, fmt.Errorf("failed to open read-only database: %w", err)
	}
	applyPool(sqldb, cfg)

	db := bun.NewDB(sqldb, pgdialect.New())
	db.AddQueryHook(&connectionHealthHook{logger: logger, handle: "reader"})

	if err := ping(db); err != nil {
		return nil, fmt.Errorf("failed to ping read-only database: %w", err)
	}

	logger.Info("Connected to database successfully", gecho.Field("handle", "reader"))
	return &DB{db}, nil
}

func applyPool(sqldb *sql.DB, cfg *structs.DatabaseConfig) {
	sqldb.SetMaxOpenConns(cfg.MaxConns)
	sqldb.SetMaxIdleConns(cfg.MinConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)
	sqldb.SetConnMaxIdleTime(cfg.MaxIdleTime)
}

func ping(db *bun.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}

// Initialize sets up both global handles using centralized configuration
func Initialize() error {
	cfg := config.GetConfig().Database
	logger := config.GetLogger()

	w, err := Connect(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	r, err := ConnectReadOnly(cfg, logger)
	if err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	writer, reader = w, r
	return nil
}

// GetHandles returns the global handles.
// This is the primary way to access the database throughout the application
func GetHandles() Handles {
	if writer == nil || reader == nil {
		log.Fatal("Database instance is not initialized. Call Initialize() first.")
	}
	return Handles{Writer: writer, Reader: reader}
}

// CloseInstance closes both global handles
func CloseInstance() error {
	var errs []error
	if writer != nil {
		errs = append(errs, writer.Close())
	}
	if reader != nil {
		errs = append(errs, reader.Close())
	}
	return errors.Join(errs...)
}

// GetStats returns connection pool statistics for monitoring
func (db *DB) GetStats() sql.DBStats {
	return db.DB.DB.Stats()
}

// connectionHealthHook implements bun.QueryHook to monitor connection health
type connectionHealthHook struct {
	logger *gecho.Logger
	handle string
}

func (h *connectionHealthHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *connectionHealthHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	duration := time.Since(event.StartTime)
	if duration > slowQueryThreshold {
		h.logger.Warn("Slow database query detected",
			gecho.Field("handle", h.handle),
			gecho.Field("query", event.Query),
			gecho.Field("duration", duration),
		)
	}

	// Handle EOF errors specifically
	if errors.Is(event.Err, io.EOF) || errors.Is(event.Err, io.ErrUnexpectedEOF) {
		h.logger.Error("Database connection EOF error - connection may have been closed by server",
			gecho.Field("handle", h.handle),
			gecho.Field("error", event.Err),
			gecho.Field("query", event.Query),
		)
	}
}
