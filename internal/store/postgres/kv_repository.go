package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/goto/sieve/core/savedsearch"
)

const kvTable = "kv_store"

// KVRepository persists opaque values by key in the kv_store table.
type KVRepository struct {
	client *Client
}

// NewKVRepository returns a savedsearch.Store backed by postgres
func NewKVRepository(c *Client) (*KVRepository, error) {
	if c == nil {
		return nil, errNilPostgresClient
	}
	return &KVRepository{client: c}, nil
}

func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	query, args, err := sq.Select("value").
		From(kvTable).
		Where(sq.Eq{"key": key}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}

	var value []byte
	if err := r.client.db.GetContext(ctx, &value, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, savedsearch.ErrKeyNotFound
		}
		return nil, fmt.Errorf("get value for key %q: %w", key, err)
	}
	return value, nil
}

// Set inserts the value or replaces the one already stored under key.
func (r *KVRepository) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}

	query, args, err := sq.Insert(kvTable).
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set query: %w", err)
	}

	if _, err := r.client.db.ExecContext(ctx, query, args...); err != nil {
		err = checkPostgresError(err)
		if errors.Is(err, errCheckViolation) || errors.Is(err, errValueTooLong) {
			return fmt.Errorf("invalid key %q: %w", key, err)
		}
		return fmt.Errorf("set value for key %q: %w", key, err)
	}
	return nil
}
