// Package db opens GreenGauge's PostgreSQL handles and applies schema migrations.
//
// Three handles share one database: a pgxpool for the identity and social-feed
// services, an sqlx handle on the pgx stdlib driver for the purchase ledger, and
// a gorm session layered on that same *sql.DB for leaderboard snapshots.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // registers the postgres:// migrate driver (lib/pq)
	_ "github.com/golang-migrate/migrate/v4/source/file"       // file:// migration source
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/greengauge/greengauge-go/apperror"
	"github.com/greengauge/greengauge-go/config"
	"github.com/greengauge/greengauge-go/logging"
)

const (
	connectTimeout  = 10 * time.Second
	pingTimeout     = 5 * time.Second
	maxConnIdleTime = 10 * time.Minute
	maxConnLifetime = 30 * time.Minute
)

// NewPool creates the pgx connection pool and verifies it with a ping.
func NewPool(cfg *config.PoolConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error parsing DSN for database %s", cfg.DBName), err)
	}

	poolConfig.MaxConns = int32(cfg.MaxSize)
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.MaxConnLifetime = maxConnLifetime

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error creating pgxpool for database %s", cfg.DBName), err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), pingTimeout)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error connecting to the database %s with pgxpool", cfg.DBName), err)
	}

	return pool, nil
}

// OpenSQL opens a database/sql handle through the pgx stdlib driver, wrapped in sqlx.
// The ledger uses it so its queries also run against SQLite in tests.
func OpenSQL(cfg *config.PoolConfig) (*sqlx.DB, error) {
	sqlDB, err := sqlx.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error opening sql handle for database %s", cfg.DBName), err)
	}

	// The ledger handle sees less traffic than the main pool.
	sqlDB.SetMaxOpenConns(max(cfg.MaxSize/2, 2))
	sqlDB.SetConnMaxIdleTime(maxConnIdleTime)
	sqlDB.SetConnMaxLifetime(maxConnLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error connecting to the database %s with database/sql", cfg.DBName), err)
	}
	return sqlDB, nil
}

// OpenGorm layers a gorm session over an existing *sql.DB so gorm does not
// open a pool of its own.
func OpenGorm(sqlDB *sql.DB) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, apperror.NewDatabaseError("error opening gorm session", err)
	}
	return gdb, nil
}

// RunMigrations applies pending migrations from migrationsPath.
// Files follow golang-migrate naming: {version}_{title}.up.sql / .down.sql.
func RunMigrations(cfg *config.PoolConfig, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, cfg.DSN())
	if err != nil {
		return apperror.NewMigrationError("failed to create migrator", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logging.Warnf("error closing migrator: source=%v database=%v", srcErr, dbErr)
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return apperror.NewMigrationError("failed to run migrations", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return apperror.NewMigrationError("failed to read migration version", err)
	}
	logging.Infof("database schema at version %d (dirty=%t)", version, dirty)
	return nil
}
