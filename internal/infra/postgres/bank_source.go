package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// BankSource reads a raw bank document stored as JSONB in question_banks.
type BankSource struct {
	pool *pgxpool.Pool
	name string
}

func NewBankSource(pool *pgxpool.Pool, name string) *BankSource {
	return &BankSource{pool: pool, name: name}
}

func (s *BankSource) Fetch(ctx context.Context) ([]byte, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM question_banks WHERE name=$1`, s.name).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("load bank %q: not found", s.name)
	}
	if err != nil {
		return nil, fmt.Errorf("load bank %q: %w", s.name, err)
	}
	return raw, nil
}

func (s *BankSource) String() string { return "postgres:" + s.name }

// PutBank upserts a raw bank document under name.
func PutBank(ctx context.Context, pool *pgxpool.Pool, name string, data []byte) error {
	_, err := pool.Exec(ctx, `
INSERT INTO question_banks (name, data, updated_at) VALUES ($1, $2, now())
ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`, name, data)
	if err != nil {
		return fmt.Errorf("store bank %q: %w", name, err)
	}
	return nil
}
