package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	mirasdk "github.com/cyberFlowTech/mira-sdk-go"
)

// Options selects and configures a KVStore backend.
type Options struct {
	Driver     string // memory|redis|sqlite|file
	RedisAddr  string
	SQLitePath string
	FileDir    string
}

// Open builds the backend named by opts.Driver. Redis is pinged so a bad
// address fails here instead of on the first flush.
func Open(ctx context.Context, opts Options) (mirasdk.KVStore, error) {
	switch opts.Driver {
	case "", "memory":
		return mirasdk.NewInMemoryKVStore(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: opts.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("redis %s: %w", opts.RedisAddr, err)
		}
		return NewRedisStore(client), nil
	case "sqlite":
		s, err := OpenSQLiteStore(opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "file":
		return NewFileStore(opts.FileDir), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
