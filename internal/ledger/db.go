package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
)

// Store persists users, categories and transactions in PostgreSQL. Every
// query is scoped by the owning user's id.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewStore wraps an open database handle.
func NewStore(db *sql.DB, log zerolog.Logger) *Store {
	return &Store{db: db, log: log}
}

// Open connects to PostgreSQL, waiting for it to accept connections.
func Open(ctx context.Context, databaseURL string, maxRetries int, retryDelay time.Duration, log zerolog.Logger) (*sql.DB, error) {
	config, err := pgx.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		db := stdlib.OpenDB(*config)
		if lastErr = db.PingContext(ctx); lastErr == nil {
			log.Info().Msg("Database connection established")
			return db, nil
		}
		db.Close()
		if i == maxRetries-1 {
			break
		}

		// log the actual error on the first few attempts and every 10th after that
		ev := log.Warn().Dur("retry_in", retryDelay).Int("attempt", i+1).Int("max_attempts", maxRetries)
		if i%10 == 0 || i < 5 {
			ev = ev.Err(lastErr)
		}
		ev.Msg("Database not ready, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, lastErr)
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying handle.
func (s *Store) Close() error {
	return s.db.Close()
}
