package store

import (
	"context"
	"fmt"
	"strings"
)

// Backend is a synchronous local key-value facility (the workspace's "local storage").
type Backend interface {
	// GetItem returns the raw value stored under key; ok is false when the key is absent.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
	// Keys lists stored keys in ascending order.
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

type BackendKind string

const (
	BackendSQLite BackendKind = "sqlite"
	BackendMemory BackendKind = "memory"
)

func ParseBackendKind(s string) (BackendKind, error) {
	switch k := BackendKind(strings.ToLower(strings.TrimSpace(s))); k {
	case "", BackendSQLite:
		return BackendSQLite, nil
	case BackendMemory:
		return BackendMemory, nil
	default:
		return "", fmt.Errorf("unknown storage backend: %q (expected sqlite|memory)", s)
	}
}
