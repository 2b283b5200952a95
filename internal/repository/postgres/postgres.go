// Package postgres implements the repository interfaces on PostgreSQL
// through database/sql and the lib/pq driver.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/Lixing-Zhang/brewery-service/internal/repository"
	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schema string

// now is replaced in tests
var now = func() time.Time { return time.Now().UTC() }

// Open connects to the database at url and verifies the connection
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Migrate creates the tables if they do not exist
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

var (
	_ repository.BeerRepository      = (*BeerRepository)(nil)
	_ repository.CustomerRepository  = (*CustomerRepository)(nil)
	_ repository.BeerOrderRepository = (*BeerOrderRepository)(nil)
)
