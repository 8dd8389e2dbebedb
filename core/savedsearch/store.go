package savedsearch

//go:generate mockery --name=Store -r --case underscore --with-expecter --structname Store --filename store.go --output=./mocks

import (
	"context"
	"errors"
)

// StorageKey is the key the whole saved search list is persisted under.
const StorageKey = "saved-searches"

// ErrKeyNotFound is returned by a Store when nothing is stored under a key.
var ErrKeyNotFound = errors.New("key not found")

// Store is a key-value store holding serialized values.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
