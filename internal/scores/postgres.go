// internal/scores/postgres.go
package scores

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"roscointegra/internal/models"
)

// PostgresLedger is a Keeper backed by a Postgres table, for installs
// that share one ledger across machines.
type PostgresLedger struct {
	pool *pgxpool.Pool
}

// NewPostgresLedger connects with connString, pings the server and
// ensures the scores table exists.
func NewPostgresLedger(ctx context.Context, connString string) (*PostgresLedger, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id UUID PRIMARY KEY,
			player_name TEXT NOT NULL,
			score INT NOT NULL CHECK (score >= 0),
			created_at TIMESTAMPTZ NOT NULL
		)
	`
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure scores table: %w", err)
	}
	return &PostgresLedger{pool: pool}, nil
}

// Append inserts the entry and prunes everything below the top
// MaxEntries rows in one transaction.
func (p *PostgresLedger) Append(ctx context.Context, entry models.ScoreEntry) error {
	err := pgx.BeginTxFunc(ctx, p.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		insert := `
			INSERT INTO scores (id, player_name, score, created_at)
			VALUES ($1, $2, $3, $4)
		`
		if _, e := tx.Exec(ctx, insert, entry.ID, entry.PlayerName, entry.Score, entry.Timestamp); e != nil {
			return e
		}
		prune := `
			DELETE FROM scores
			WHERE id NOT IN (
				SELECT id FROM scores
				ORDER BY score DESC, created_at ASC
				LIMIT $1
			)
		`
		if _, e := tx.Exec(ctx, prune, MaxEntries); e != nil {
			return e
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx append score: %w", err)
	}
	return nil
}

// Top returns the ledger contents, best first.
func (p *PostgresLedger) Top(ctx context.Context) ([]models.ScoreEntry, error) {
	query := `
		SELECT id, player_name, score, created_at
		FROM scores
		ORDER BY score DESC, created_at ASC
		LIMIT $1
	`
	rows, err := p.pool.Query(ctx, query, MaxEntries)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	var entries []models.ScoreEntry
	for rows.Next() {
		var e models.ScoreEntry
		if err := rows.Scan(&e.ID, &e.PlayerName, &e.Score, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan score row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear wipes the ledger.
func (p *PostgresLedger) Clear(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM scores`); err != nil {
		return fmt.Errorf("clear scores: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (p *PostgresLedger) Close() {
	p.pool.Close()
}
