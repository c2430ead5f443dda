package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS battle_results (
	id         TEXT PRIMARY KEY,
	board      TEXT NOT NULL,
	seed       BIGINT NOT NULL,
	winner     INTEGER NOT NULL,
	duration   DOUBLE PRECISION NOT NULL,
	result     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore keeps results in the battle_results table.
type PostgresStore struct {
	db  *sql.DB
	log *zap.Logger
}

// NewPostgresStore wraps an open handle and creates the table if needed.
func NewPostgresStore(ctx context.Context, db *sql.DB, log *zap.Logger) (*PostgresStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create battle_results: %w", err)
	}
	return &PostgresStore{db: db, log: log}, nil
}

// OpenPostgres connects with a connection string such as DATABASE_URL.
func OpenPostgres(ctx context.Context, connStr string, log *zap.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	s, err := NewPostgresStore(ctx, db, log)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) Save(ctx context.Context, rec Record) error {
	raw, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("encode result %s: %w", rec.ID, err)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO battle_results (id, board, seed, winner, duration, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET result = EXCLUDED.result,
		    winner = EXCLUDED.winner,
		    duration = EXCLUDED.duration
	`, rec.ID, rec.Board, rec.Seed, rec.Result.Winner, rec.Result.DurationMS, raw, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("save %s: %w", rec.ID, err)
	}
	s.log.Debug("battle result saved", zap.String("id", rec.ID), zap.Int("winner", rec.Result.Winner))
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, board, seed, result, created_at
		FROM battle_results
		WHERE id = $1
	`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, board, seed, result, created_at
		FROM battle_results
		ORDER BY created_at DESC, id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Close() error { return s.db.Close() }

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var rec Record
	var raw []byte
	if err := sc.Scan(&rec.ID, &rec.Board, &rec.Seed, &raw, &rec.CreatedAt); err != nil {
		return Record{}, err
	}
	if err := json.Unmarshal(raw, &rec.Result); err != nil {
		return Record{}, fmt.Errorf("decode result %s: %w", rec.ID, err)
	}
	return rec, nil
}
