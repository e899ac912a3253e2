// Package orgstatus supplies the organisation code to active-flag reference
// mapping consulted by the reconciler.
package orgstatus

import (
	"context"
	"database/sql"
	"fmt"

	"phonebook/pkg/platform/sentinel"
	"phonebook/pkg/platform/tx"
)

// Schema creates the reference table.
const Schema = `
CREATE TABLE IF NOT EXISTS organisation_status (
	org_code TEXT PRIMARY KEY,
	active   BOOLEAN NOT NULL
)`

// PostgresSource reads the mapping from PostgreSQL.
type PostgresSource struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

// Migrate creates the reference table if it does not exist.
func (s *PostgresSource) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate organisation status: %w", err)
	}
	return nil
}

// OrgStatus returns the full mapping. An empty table means the reference data
// has not been loaded, which is reported as sentinel.ErrReferenceDataMissing.
func (s *PostgresSource) OrgStatus(ctx context.Context) (map[string]bool, error) {
	rows, err := tx.Conn(ctx, s.db).QueryContext(ctx, `SELECT org_code, active FROM organisation_status`)
	if err != nil {
		return nil, fmt.Errorf("read organisation status: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var code string
		var active bool
		if err := rows.Scan(&code, &active); err != nil {
			return nil, fmt.Errorf("scan organisation status: %w", err)
		}
		out[code] = active
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read organisation status: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("organisation status: %w", sentinel.ErrReferenceDataMissing)
	}
	return out, nil
}

// Put upserts one mapping entry.
func (s *PostgresSource) Put(ctx context.Context, orgCode string, active bool) error {
	query := `
		INSERT INTO organisation_status (org_code, active)
		VALUES ($1, $2)
		ON CONFLICT (org_code) DO UPDATE SET
			active = EXCLUDED.active
	`
	if _, err := tx.Conn(ctx, s.db).ExecContext(ctx, query, orgCode, active); err != nil {
		return fmt.Errorf("put organisation status: %w", err)
	}
	return nil
}

// Replace swaps the whole mapping for status in one transaction, so readers
// never observe a partially loaded table. An empty status is rejected.
func (s *PostgresSource) Replace(ctx context.Context, status map[string]bool) error {
	if len(status) == 0 {
		return fmt.Errorf("replace organisation status: %w: no entries", sentinel.ErrInvalidInput)
	}
	return tx.Run(ctx, s.db, func(ctx context.Context) error {
		if _, err := tx.Conn(ctx, s.db).ExecContext(ctx, `DELETE FROM organisation_status`); err != nil {
			return fmt.Errorf("clear organisation status: %w", err)
		}
		for code, active := range status {
			if err := s.Put(ctx, code, active); err != nil {
				return err
			}
		}
		return nil
	})
}
