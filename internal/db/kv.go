package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by Get when a key has never been written
var ErrNotFound = errors.New("key not found")

// KV is a durable slot store. Values are opaque byte strings.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// Backend names accepted by Open
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Options selects and configures a backend
type Options struct {
	Backend       string
	Path          string // sqlite file or directory for the file backend
	DSN           string // postgres connection string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// DefaultDataDir returns ~/.croptask, or $CROPTASK_HOME when set
func DefaultDataDir() (string, error) {
	if dir := os.Getenv("CROPTASK_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".croptask"), nil
}

// DefaultDBPath returns the default sqlite path (~/.croptask/plans.db)
func DefaultDBPath() (string, error) {
	dir, err := DefaultDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "plans.db"), nil
}

// Open builds the backend named in opts
func Open(ctx context.Context, opts Options) (KV, error) {
	switch opts.Backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile:
		dir := opts.Path
		if dir == "" {
			base, err := DefaultDataDir()
			if err != nil {
				return nil, err
			}
			dir = filepath.Join(base, "slots")
		}
		return OpenFile(dir)
	case "", BackendSQLite:
		path := opts.Path
		if path == "" {
			p, err := DefaultDBPath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		return OpenSQLite(path)
	case BackendPostgres:
		return OpenPostgres(opts.DSN)
	case BackendRedis:
		return OpenRedis(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", opts.Backend)
	}
}
