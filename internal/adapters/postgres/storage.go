package postgres

// Package postgres persists session records in a Postgres table, for
// multi-instance gateway deployments that already run a database and do not
// want to add Redis for one key.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainsession "github.com/dentnotion/dentnotion/internal/domain/session"
	"github.com/dentnotion/dentnotion/internal/ports"
)

// Schema creates the backing table. Applied by EnsureSchema; kept exported so
// deployments managing migrations elsewhere can run it themselves.
const Schema = `
CREATE TABLE IF NOT EXISTS session_records (
    id         text PRIMARY KEY,
    record     jsonb NOT NULL,
    updated_at timestamptz NOT NULL DEFAULT now()
)`

const defaultRecordID = "gateway"

// Storage stores one session record per logical gateway identity.
type Storage struct {
	pool *pgxpool.Pool
	id   string
}

var _ ports.SessionStorage = (*Storage)(nil)

// NewStorage creates a Postgres-backed session store using the default record id.
func NewStorage(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool, id: defaultRecordID}
}

// NewStorageWithID creates a store keyed by a custom record id.
func NewStorageWithID(pool *pgxpool.Pool, id string) *Storage {
	if id == "" {
		id = defaultRecordID
	}
	return &Storage{pool: pool, id: id}
}

// EnsureSchema applies the backing table schema.
func (s *Storage) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create session_records table: %w", err)
	}
	return nil
}

func (s *Storage) Load(ctx context.Context) (domainsession.Record, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT record FROM session_records WHERE id = $1`, s.id,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainsession.Record{}, ports.ErrNoRecord
		}
		if isUndefinedTable(err) {
			return domainsession.Record{}, fmt.Errorf("session_records table missing (run EnsureSchema): %w", err)
		}
		return domainsession.Record{}, fmt.Errorf("load session record: %w", err)
	}

	var rec domainsession.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return domainsession.Record{}, fmt.Errorf("decode session record: %w", err)
	}
	return rec, nil
}

func (s *Storage) Save(ctx context.Context, rec domainsession.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO session_records (id, record, updated_at) VALUES ($1, $2, now())`,
		s.id, data,
	)
	if err == nil {
		return nil
	}
	// Concurrent first writes can both take the insert path; fall back to an
	// update on unique violation instead of failing the save.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		_, err = s.pool.Exec(ctx,
			`UPDATE session_records SET record = $2, updated_at = now() WHERE id = $1`,
			s.id, data,
		)
		if err != nil {
			return fmt.Errorf("update session record: %w", err)
		}
		return nil
	}
	if isUndefinedTable(err) {
		return fmt.Errorf("session_records table missing (run EnsureSchema): %w", err)
	}
	return fmt.Errorf("insert session record: %w", err)
}

func (s *Storage) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM session_records WHERE id = $1`, s.id,
	); err != nil {
		return fmt.Errorf("delete session record: %w", err)
	}
	return nil
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable
}
