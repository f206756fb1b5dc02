// Package storage persists an audit trail of attempted downloads. The
// ledger is optional: the on-disk destination path remains the only
// idempotence guard, so runs behave identically without a database.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"ScreenerFetcher/internal/domain"
	"ScreenerFetcher/internal/ports"
)

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// PostgresLedger records fetch outcomes into the fetch_ledger table.
type PostgresLedger struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.FetchLedger = (*PostgresLedger)(nil)

// NewPostgresLedger wires a sql.DB implementation.
func NewPostgresLedger(db *sql.DB) *PostgresLedger {
	return &PostgresLedger{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// RecordFetch upserts one attempted-download row keyed by run and destination.
func (l *PostgresLedger) RecordFetch(ctx context.Context, rec domain.FetchRecord) error {
	if l.db == nil {
		return nil
	}

	query, args, err := l.builder.
		Insert("fetch_ledger").
		Columns("run_id", "company", "doc_type", "url", "destination", "outcome", "recorded_at").
		Values(rec.RunID, rec.Company, string(rec.Type), rec.URL, rec.Destination, string(rec.Outcome), rec.RecordedAt).
		Suffix(`ON CONFLICT (run_id, destination) DO UPDATE
                SET outcome = EXCLUDED.outcome,
                    recorded_at = EXCLUDED.recorded_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build ledger upsert: %w", err)
	}

	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record fetch: %w", err)
	}
	return nil
}
