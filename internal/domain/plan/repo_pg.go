package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// planRow represents a single row returned by QueryRow.
type planRow interface {
	Scan(dest ...any) error
}

// planConn is the minimal database interface required by PGSessionRepository.
// Both *pgxpool.Pool (via a thin adapter) and test mocks implement this.
type planConn interface {
	QueryRow(ctx context.Context, sql string, args ...any) planRow
	Exec(ctx context.Context, sql string, args ...any) error
}

// PGSessionRepository is a PostgreSQL-backed SessionRepository. Forms live
// in the plan_sessions table as JSONB with an explicit expires_at column
// that the database uses for filtering.
type PGSessionRepository struct {
	db  planConn
	ttl time.Duration
}

// NewPGSessionRepository creates a PG-backed repository. The db parameter
// must satisfy the planConn interface -- use NewPGSessionRepositoryFromPool
// to wrap a *pgxpool.Pool, or pass a mock in tests.
func NewPGSessionRepository(db planConn, ttl time.Duration) *PGSessionRepository {
	return &PGSessionRepository{db: db, ttl: ttl}
}

// Save upserts the form into the session's slot, restarting its TTL.
func (r *PGSessionRepository) Save(ctx context.Context, key string, form *SessionForm) error {
	data, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("marshal session form: %w", err)
	}

	now := time.Now().UTC()

	const query = `INSERT INTO plan_sessions (session_key, form_json, updated_at, expires_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (session_key) DO UPDATE SET form_json  = EXCLUDED.form_json,
                                        updated_at = EXCLUDED.updated_at,
                                        expires_at = EXCLUDED.expires_at`

	if err := r.db.Exec(ctx, query, key, data, now, now.Add(r.ttl)); err != nil {
		return fmt.Errorf("save session form: %w", err)
	}
	return nil
}

// Get returns the stored form, or (nil, nil) when the slot is empty or
// expired.
func (r *PGSessionRepository) Get(ctx context.Context, key string) (*SessionForm, error) {
	const query = `SELECT form_json FROM plan_sessions
WHERE session_key = $1 AND expires_at > now()`

	var data []byte
	if err := r.db.QueryRow(ctx, query, key).Scan(&data); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session form: %w", err)
	}

	var form SessionForm
	if err := json.Unmarshal(data, &form); err != nil {
		return nil, fmt.Errorf("unmarshal session form: %w", err)
	}
	return &form, nil
}

// Delete clears the session's slot. Deleting an absent slot is not an error.
func (r *PGSessionRepository) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM plan_sessions WHERE session_key = $1`
	if err := r.db.Exec(ctx, query, key); err != nil {
		return fmt.Errorf("delete session form: %w", err)
	}
	return nil
}

// Cleanup deletes all expired slots.
func (r *PGSessionRepository) Cleanup(ctx context.Context) error {
	const query = `DELETE FROM plan_sessions WHERE expires_at <= now()`
	if err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("cleanup sessions: %w", err)
	}
	return nil
}

// isNoRows returns true when the error represents a "no rows" condition.
// It works with both pgx (pgx.ErrNoRows) and the mock used in tests.
func isNoRows(err error) bool {
	if err == pgx.ErrNoRows {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "no rows")
}

// pgxPoolWrapper wraps a *pgxpool.Pool so it satisfies the planConn
// interface. The adapter is necessary because pgxpool.Pool.Exec returns
// (pgconn.CommandTag, error) whereas planConn.Exec returns only error.
type pgxPoolWrapper struct {
	pool *pgxpool.Pool
}

func (w *pgxPoolWrapper) QueryRow(ctx context.Context, sql string, args ...any) planRow {
	return w.pool.QueryRow(ctx, sql, args...)
}

func (w *pgxPoolWrapper) Exec(ctx context.Context, sql string, args ...any) error {
	_, err := w.pool.Exec(ctx, sql, args...)
	return err
}

// NewPGSessionRepositoryFromPool creates a PG-backed repository directly
// from a *pgxpool.Pool. This is the recommended constructor for production
// use.
func NewPGSessionRepositoryFromPool(pool *pgxpool.Pool, ttl time.Duration) *PGSessionRepository {
	return &PGSessionRepository{
		db:  &pgxPoolWrapper{pool: pool},
		ttl: ttl,
	}
}
