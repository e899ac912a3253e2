package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/lib/pq"

	"phonebook/internal/directory/models"
	"phonebook/pkg/platform/sentinel"
)

// Schema creates the users table. Each row holds one flattened user document.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	document   JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore persists user documents in PostgreSQL.
type PostgresStore struct {
	db       *sql.DB
	throttle *Throttle
}

// NewPostgres constructs a PostgreSQL-backed user store.
func NewPostgres(db *sql.DB, opts ...Option) *PostgresStore {
	var o storeOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &PostgresStore{db: db, throttle: o.throttle}
}

// Migrate creates the users table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}
	return nil
}

func (s *PostgresStore) ReadAll(ctx context.Context) ([]models.UserRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT document FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("read users: %w", unavailable(err))
	}
	defer rows.Close()

	var out []models.UserRecord
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		var rec models.UserRecord
		if err := json.Unmarshal(doc, &rec); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read users: %w", unavailable(err))
	}
	return out, nil
}

// Bulk upserts each operation in its own statement. Database errors for an
// item are answered per item; losing the connection fails the whole call.
func (s *PostgresStore) Bulk(ctx context.Context, ops []models.BulkOperation) ([]models.BulkResult, error) {
	query := `
		INSERT INTO users (id, document, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET
			document = EXCLUDED.document,
			updated_at = EXCLUDED.updated_at
		RETURNING (xmax = 0) AS inserted
	`

	results := make([]models.BulkResult, len(ops))
	for i, op := range ops {
		if res, ok := checkOperation(op); !ok {
			results[i] = res
			continue
		}

		doc, err := encode(op.Body)
		if err != nil {
			results[i] = models.BulkResult{ID: op.Body.ID, StatusCode: http.StatusBadRequest, Message: err.Error()}
			continue
		}

		charge := RequestCharge(doc)
		if !s.throttle.Allow(charge) {
			results[i] = models.BulkResult{ID: op.Body.ID, StatusCode: http.StatusTooManyRequests, Message: "request rate is large"}
			continue
		}

		var inserted bool
		err = s.db.QueryRowContext(ctx, query, op.Body.ID, doc).Scan(&inserted)
		if err != nil {
			status, fatal := classify(err)
			if fatal != nil {
				return nil, fmt.Errorf("upsert user %s: %w", op.Body.ID, fatal)
			}
			results[i] = models.BulkResult{ID: op.Body.ID, StatusCode: status, Message: err.Error()}
			continue
		}

		status := http.StatusOK
		if inserted {
			status = http.StatusCreated
		}
		results[i] = models.BulkResult{ID: op.Body.ID, StatusCode: status, RequestCharge: charge}
	}
	return results, nil
}

// classify maps a failed statement to a per-item status, or to an error that
// must fail the whole call.
func classify(err error) (int, error) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || connectionClass(pqErr) {
		return 0, unavailable(err)
	}

	switch pqErr.Code.Class() {
	case "23": // integrity constraint violation
		return http.StatusConflict, nil
	case "22": // data exception
		return http.StatusBadRequest, nil
	default:
		return http.StatusInternalServerError, nil
	}
}

// unavailable marks transport failures with sentinel.ErrUnavailable. Context
// errors and statement errors reported by the server pass through unchanged.
func unavailable(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && !connectionClass(pqErr) {
		return err
	}
	return fmt.Errorf("%w: %v", sentinel.ErrUnavailable, err)
}

// connectionClass reports SQLSTATE classes meaning the server cannot serve any
// statement right now (08, 53, 57).
func connectionClass(err *pq.Error) bool {
	switch err.Code.Class() {
	case "08", "53", "57":
		return true
	}
	return false
}
