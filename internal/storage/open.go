package storage

import (
	"context"
	"fmt"
)

// Open builds the Store for the configured backend name.
func Open(ctx context.Context, backend, dsn, redisAddr, redisPassword, redisPrefix string) (*Store, error) {
	switch backend {
	case "", "sqlite":
		b, err := OpenSQLite(dsn)
		if err != nil {
			return nil, err
		}
		return NewStore(b), nil
	case "redis":
		b, err := OpenRedis(ctx, redisAddr, redisPassword, redisPrefix)
		if err != nil {
			return nil, err
		}
		return NewStore(b), nil
	case "memory":
		return NewStore(NewMemoryBackend()), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
