package store

import (
	"context"
	_ "embed"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaSQL is embedded so the server can self-bootstrap its journal table.
//
//go:embed schema.sql
var schemaSQL string

// PostgresJournal records received envelopes in Postgres.
type PostgresJournal struct {
	pool *pgxpool.Pool
}

// NewPostgresJournal creates a connection pool and fails fast if DB is unreachable.
func NewPostgresJournal(dbURL string) (*PostgresJournal, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresJournal{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresJournal) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, schemaSQL)
	return err
}

func (p *PostgresJournal) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PostgresJournal) Close() {
	p.pool.Close()
}

// Record inserts e and returns inserted=false when (flow_id, event_id) already exists.
func (p *PostgresJournal) Record(ctx context.Context, e Entry) (bool, error) {
	if err := e.validate(); err != nil {
		return false, err
	}

	// RETURNING 1 only when inserted; duplicates return no rows.
	var one int
	err := p.pool.QueryRow(ctx, `
		INSERT INTO event_journal(flow_id, event_id, tenant_id, event_name, version, envelope)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (flow_id, event_id) DO NOTHING
		RETURNING 1
	`, e.FlowID, e.EventID, e.TenantID, e.Name, e.Version, e.Envelope).Scan(&one)

	if err == nil {
		return true, nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	return false, err
}

// CountFlow returns how many distinct messages were journaled for flowID.
func (p *PostgresJournal) CountFlow(ctx context.Context, flowID string) (int64, error) {
	var count int64
	err := p.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM event_journal
		WHERE flow_id=$1
	`, flowID).Scan(&count)
	return count, err
}

var _ Journal = (*PostgresJournal)(nil)
