package kv

import (
	"context"
	"sync"
	"time"

	cmap "github.com/orcaman/concurrent-map"
)

type memoryEntry struct {
	value    []byte
	expireAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && !now.Before(e.expireAt)
}

// DefaultPurgeInterval 内存 Store 清理过期 key 的周期
const DefaultPurgeInterval = time.Minute

// MemoryStore 进程内 Store，过期 key 读取时视为不存在，由 Purge 或 StartJanitor 清理
type MemoryStore struct {
	data cmap.ConcurrentMap
	now  func() time.Time

	// 写入持读锁，Purge 删除时持写锁，避免删掉刚写入的新值
	purgeMu   sync.RWMutex
	stop      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: cmap.New(), now: time.Now, stop: make(chan struct{})}
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expireAt = s.now().Add(ttl)
	}
	s.purgeMu.RLock()
	s.data.Set(key, entry)
	s.purgeMu.RUnlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s.data.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	entry := v.(memoryEntry)
	if entry.expired(s.now()) {
		return nil, ErrNotFound
	}
	return append([]byte(nil), entry.value...), nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.data.Remove(key)
	return nil
}

// Purge 删除所有已过期的 key，返回删除数量
func (s *MemoryStore) Purge() int {
	now := s.now()
	var expired []string
	for item := range s.data.IterBuffered() {
		if item.Val.(memoryEntry).expired(now) {
			expired = append(expired, item.Key)
		}
	}
	if len(expired) == 0 {
		return 0
	}

	s.purgeMu.Lock()
	defer s.purgeMu.Unlock()
	removed := 0
	for _, key := range expired {
		if v, ok := s.data.Get(key); ok && v.(memoryEntry).expired(now) {
			s.data.Remove(key)
			removed++
		}
	}
	return removed
}

// StartJanitor 按 interval 周期调用 Purge，直到 Close。重复调用无效。
func (s *MemoryStore) StartJanitor(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPurgeInterval
	}
	s.startOnce.Do(func() {
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					s.Purge()
				case <-s.stop:
					return
				}
			}
		}()
	})
}

func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}
