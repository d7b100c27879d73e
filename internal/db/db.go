package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hpungsan/mailtag/internal/dataset"
	"github.com/hpungsan/mailtag/internal/taxonomy"
	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// Open creates an in-memory SQLite database with the current schema.
// Nothing is written to disk; the data lives as long as the returned handle.
func Open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to :memory: is a separate database, so pin the pool
	// to a single connection that is never recycled.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Init opens the database and seeds it with the catalog and dataset.
func Init(ctx context.Context, catalog *taxonomy.Catalog, ds *dataset.Dataset) (*sql.DB, error) {
	db, err := Open()
	if err != nil {
		return nil, err
	}
	if err := Seed(ctx, db, catalog, ds); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	version, err := GetUserVersion(db)
	if err != nil {
		return err
	}

	// Migration 0 -> 1: Initial schema (v1)
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS customers (
		  id       TEXT PRIMARY KEY,
		  name     TEXT NOT NULL,
		  position INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS customer_tags (
		  customer_id TEXT NOT NULL REFERENCES customers(id),
		  tag         TEXT NOT NULL,
		  position    INTEGER NOT NULL,
		  PRIMARY KEY (customer_id, tag)
		);

		CREATE TABLE IF NOT EXISTS emails (
		  id          TEXT PRIMARY KEY,
		  seq         INTEGER NOT NULL,
		  customer_id TEXT NOT NULL,
		  tag         TEXT NOT NULL,
		  subject     TEXT NOT NULL,
		  body        TEXT NOT NULL,
		  received_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_emails_customer_seq
		ON emails(customer_id, seq);

		CREATE INDEX IF NOT EXISTS idx_emails_tag
		ON emails(tag);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := SetUserVersion(db, 1); err != nil {
			return err
		}
	}

	return nil
}

// Seed loads the customer catalog and the sample emails in one transaction.
// Emails deliberately have no foreign key to customers so that isolation
// violations can be detected by query rather than rejected on insert.
func Seed(ctx context.Context, db *sql.DB, catalog *taxonomy.Catalog, ds *dataset.Dataset) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, cust := range catalog.Customers() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO customers (id, name, position) VALUES (?, ?, ?)`,
			cust.ID, cust.Name, i,
		); err != nil {
			return fmt.Errorf("seed: customer %s: %w", cust.ID, err)
		}
		for j, tag := range cust.Tags {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO customer_tags (customer_id, tag, position) VALUES (?, ?, ?)`,
				cust.ID, string(tag), j,
			); err != nil {
				return fmt.Errorf("seed: customer %s tag %s: %w", cust.ID, tag, err)
			}
		}
	}

	for i, e := range ds.All() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO emails (id, seq, customer_id, tag, subject, body, received_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			e.ID, i, e.CustomerID, string(e.Tag), e.Subject, e.Body, e.Timestamp.Unix(),
		); err != nil {
			return fmt.Errorf("seed: email %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit: %w", err)
	}
	return nil
}

// GetUserVersion returns the current schema version (user_version pragma).
func GetUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion sets the schema version (user_version pragma).
func SetUserVersion(db *sql.DB, version int) error {
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
