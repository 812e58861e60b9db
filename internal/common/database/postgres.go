// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"employment-application/internal/common/config"

	_ "github.com/lib/pq"
)

// PostgresClient wraps the SQL database handle
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres creates a new PostgreSQL client. sql.Open does not dial, so an
// unreachable server only surfaces on Ping or on the first submission.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// Ping tests the database connection
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Close closes the database handle
func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// Transaction steps reported in TxError.Op.
const (
	TxOpBegin  = "begin"
	TxOpCommit = "commit"
)

// TxError marks a failure to open or to commit the transaction, as opposed
// to a failure of one of the statements run inside it.
type TxError struct {
	Op  string
	Err error
}

func (e *TxError) Error() string {
	return fmt.Sprintf("%s transaction: %v", e.Op, e.Err)
}

func (e *TxError) Unwrap() error {
	return e.Err
}

// WithConnTx checks out one dedicated connection, runs fn inside a single
// transaction on it and commits. Any error from fn, or a panic, rolls the
// transaction back. The connection goes back to the pool exactly once on
// every path.
func WithConnTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return &TxError{Op: TxOpBegin, Err: err}
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return &TxError{Op: TxOpBegin, Err: err}
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		// Rollback after a failed statement may itself fail; the original error wins.
		_ = tx.Rollback()
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		// database/sql marks the tx done even when COMMIT fails, so the
		// deferred Rollback is a no-op here.
		return &TxError{Op: TxOpCommit, Err: err}
	}
	committed = true
	return nil
}
