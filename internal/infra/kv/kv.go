package kv

import (
	"context"
	"errors"
)

// Store is the key-value contract the catalog runs on: per-key atomicity
// only, no cross-key transactions, no secondary indexes. Uniqueness beyond
// the primary key is the caller's problem.
type Store interface {
	Get(ctx context.Context, table, key string) ([]byte, error)
	ScanAll(ctx context.Context, table string) ([][]byte, error)
	// PutIfAbsent writes the value only when the key does not exist yet and
	// returns ErrKeyExists otherwise.
	PutIfAbsent(ctx context.Context, table, key string, value []byte) error
	Put(ctx context.Context, table, key string, value []byte) error
	Delete(ctx context.Context, table, key string) error
}

var (
	ErrKeyNotFound = errors.New("key not found")
	ErrKeyExists   = errors.New("key already exists")
)
