// Package db provides PostgreSQL access for the talent-tracker stores.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// DB wraps a PostgreSQL connection pool. Table stores use the pool directly;
// the activity log and the migration runner share it through database/sql.
type DB struct {
	pool       *pgxpool.Pool
	sqlDB      *sqlx.DB
	activities *ActivityLog
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sqlDB := sqlx.NewDb(stdlib.OpenDBFromPool(pool), "pgx")
	return &DB{
		pool:       pool,
		sqlDB:      sqlDB,
		activities: NewActivityLog(sqlDB),
	}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.sqlDB != nil {
		_ = db.sqlDB.Close()
	}
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping verifies the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// SQL returns a database/sql handle backed by the same pool.
func (db *DB) SQL() *sql.DB {
	return db.sqlDB.DB
}

// Activities returns the append-only activity log.
func (db *DB) Activities() *ActivityLog {
	return db.activities
}

// Postgres error codes translated into typed errors.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// ErrDuplicate indicates a unique constraint rejected the write.
type ErrDuplicate struct {
	Constraint string
}

func (e *ErrDuplicate) Error() string {
	return fmt.Sprintf("duplicate value violates %s", e.Constraint)
}

// ErrReference indicates a foreign key constraint rejected the write, either
// because the referenced row is missing or because the row is still referenced.
type ErrReference struct {
	Constraint string
}

func (e *ErrReference) Error() string {
	return fmt.Sprintf("reference violates %s", e.Constraint)
}

// classifyError maps constraint violations onto typed errors and wraps
// everything else with the failed operation.
func classifyError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &ErrDuplicate{Constraint: pgErr.ConstraintName}
		case pgForeignKeyViolation:
			return &ErrReference{Constraint: pgErr.ConstraintName}
		}
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// isNoRows reports whether err is the no-rows sentinel of either driver API.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}
