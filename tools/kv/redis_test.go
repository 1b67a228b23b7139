package kv

import (
	"context"
	"errors"
	"os"
	"strconv"
	"testing"
	"time"
)

func TestRedisStore(t *testing.T) {
	if os.Getenv("RUN_REDIS_INTEGRATION_TESTS") != "1" {
		t.Skip("skipping redis integration tests")
	}

	port := 6379
	if v := os.Getenv("REDIS_PORT"); v != "" {
		port, _ = strconv.Atoi(v)
	}
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}

	ctx := context.Background()
	s, err := NewRedisStore(ctx, RedisOptions{Host: host, Port: port, DialTimeout: time.Second, ReadTimeout: time.Second})
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	defer s.Close()

	key := "integrations_test:" + strconv.FormatInt(time.Now().UnixNano(), 10)
	if err := s.Set(ctx, key, []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := s.Get(ctx, key)
	if err != nil || string(got) != "v" {
		t.Fatalf("Get() = %q, %v", got, err)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
