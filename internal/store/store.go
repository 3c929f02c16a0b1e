package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/andresmejia3/faceid/internal/types"
	"github.com/jackc/pgx/v5"
)

// Store journals signup and login attempts in PostgreSQL.
// A pgx.Conn is not safe for concurrent use, so every query holds mu.
type Store struct {
	mu   sync.Mutex
	conn *pgx.Conn
}

// New establishes a connection to the database and ensures the schema is initialized.
func New(ctx context.Context, connString string) (*Store, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, err
	}

	// Initialize schema (Auto-Migration)
	if err := initSchema(ctx, conn); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	return &Store{conn: conn}, nil
}

// initSchema creates the attempts table if it doesn't exist (Auto-Migration).
func initSchema(ctx context.Context, conn *pgx.Conn) error {
	query := `
		CREATE TABLE IF NOT EXISTS faceid_attempts (
			id BIGSERIAL PRIMARY KEY,
			action TEXT NOT NULL CHECK (action IN ('signup', 'login')),
			label TEXT NOT NULL DEFAULT '',
			outcome TEXT NOT NULL,
			status_code INT NOT NULL DEFAULT 0,
			detail TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS faceid_attempts_created_at_idx ON faceid_attempts (created_at DESC);
	`
	_, err := conn.Exec(ctx, query)
	return err
}

// Close terminates the database connection.
func (s *Store) Close(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.Close(ctx)
}

// Record saves one attempt and returns its ID.
func (s *Store) Record(ctx context.Context, a types.Attempt) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id int64
	err := s.conn.QueryRow(ctx, `
		INSERT INTO faceid_attempts (action, label, outcome, status_code, detail)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, a.Action, a.Label, a.Outcome, a.StatusCode, a.Detail).Scan(&id)
	return id, err
}

// ListAttempts returns the most recent attempts, newest first. limit <= 0 returns all.
func (s *Store) ListAttempts(ctx context.Context, limit int) ([]types.Attempt, error) {
	query := `SELECT id, action, label, outcome, status_code, detail, created_at FROM faceid_attempts ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []types.Attempt
	for rows.Next() {
		var a types.Attempt
		if err := rows.Scan(&a.ID, &a.Action, &a.Label, &a.Outcome, &a.StatusCode, &a.Detail, &a.CreatedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// Reset drops the journal table to clear the database state.
// The next New recreates it.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.conn.Exec(ctx, `DROP TABLE IF EXISTS faceid_attempts CASCADE;`)
	return err
}
