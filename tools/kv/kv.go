package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound key 不存在或已过期
var ErrNotFound = errors.New("kv: key not found")

// Store 带过期时间的键值存储，ttl <= 0 表示不过期
type Store interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Close() error
}
