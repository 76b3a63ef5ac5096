package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
// Consumers depend on narrow sub-interfaces (ISP); the facade exists for wiring.
type Store interface {
	Pinger
	JSONStore
	KVStore
	IndexManager
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// JSONStore provides JSON document operations.
type JSONStore interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// SetNX stores the value only if the key does not exist yet.
	// Returns false without error when the key is already taken.
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
	Del(ctx context.Context, key string) error
}

// IndexManager provides FT index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Searcher provides list and count operations over FT indexes.
type Searcher interface {
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}
