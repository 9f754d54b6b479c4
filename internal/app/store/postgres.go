package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"dcg/internal/app/user"
	"dcg/internal/pkg/logx"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// PostgresStore persists the application document as a single JSONB row.
// Saving is an upsert of the whole document, matching the file backend's
// replace-everything semantics.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore initializes a connection pool, verifies connectivity, and
// applies pending migrations before returning the store.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database DSN: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute
	config.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sqlDB := stdlib.OpenDB(*pool.Config().ConnConfig)
	defer sqlDB.Close()

	if err := runMigrations(sqlDB); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// runMigrations applies all pending migrations from the embedded file system.
func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// Load implements Store. A missing row seeds the default state; an
// unparseable document is logged and replaced by the default state.
func (p *PostgresStore) Load(ctx context.Context) (*user.State, error) {
	var raw []byte
	err := p.pool.QueryRow(ctx,
		`SELECT doc FROM documents WHERE key = $1`, StorageKey,
	).Scan(&raw)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return p.seed(ctx)
		}
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	state := &user.State{}
	if err := json.Unmarshal(raw, state); err != nil {
		logx.Warn("Stored document is corrupt, reseeding default state", "key", StorageKey, "error", err.Error())
		return p.seed(ctx)
	}

	return state, nil
}

// Save implements Store via whole-document upsert.
func (p *PostgresStore) Save(ctx context.Context, state *user.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to serialize state: %w", err)
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO documents (key, doc, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`,
		StorageKey, raw,
	)
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	return nil
}

// Close implements Store.
func (p *PostgresStore) Close() {
	p.pool.Close()
}

func (p *PostgresStore) seed(ctx context.Context) (*user.State, error) {
	state := user.DefaultState()
	if err := p.Save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}
