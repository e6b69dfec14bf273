// Package postgres opens the process-wide connection pool. The pool handle is
// passed explicitly to stores (dependency injection), never held as ambient
// global state, so tests can substitute a fake or a test database.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"kyc-service/internal/platform/config"
)

// Open builds a bounded *sql.DB pool from cfg and verifies connectivity. An
// unreachable database is a startup error; the caller must abort.
func Open(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}

	// Pool sizing bounds the number of concurrent in-flight database
	// operations process-wide.
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}
