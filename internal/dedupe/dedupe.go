package dedupe

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"shopbot/internal/config"
)

// Store records inbound message IDs so redelivered webhooks are dropped
// before dispatch
type Store interface {
	// Seen marks the ID as processed and reports whether it had been seen
	// before
	Seen(ctx context.Context, id string) (bool, error)

	// Close releases the underlying resources
	Close() error
}

// RedisStore backs deduplication with Redis SETNX + TTL, surviving process
// restarts
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(cfg config.DedupeConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.GetAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client, ttl: cfg.TTL}, nil
}

// Seen sets the key if absent; a failed SETNX means the ID was already
// recorded
func (s *RedisStore) Seen(ctx context.Context, id string) (bool, error) {
	set, err := s.client.SetNX(ctx, "shopbot:msg:"+id, 1, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedupe setnx: %w", err)
	}
	return !set, nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks the Redis connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// MemoryStore is the in-process fallback used when Redis is disabled (mock
// mode, tests). Entries expire lazily on access.
type MemoryStore struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
}

// NewMemoryStore creates an in-memory store
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &MemoryStore{
		seen: make(map[string]time.Time),
		ttl:  ttl,
	}
}

// Seen marks the ID and reports prior sightings within the TTL
func (s *MemoryStore) Seen(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if at, ok := s.seen[id]; ok && now.Sub(at) < s.ttl {
		return true, nil
	}

	// lazy pruning keeps the map bounded without a background goroutine
	if len(s.seen) > 10000 {
		for k, at := range s.seen {
			if now.Sub(at) >= s.ttl {
				delete(s.seen, k)
			}
		}
	}

	s.seen[id] = now
	return false, nil
}

// Close is a no-op for the memory store
func (s *MemoryStore) Close() error {
	return nil
}
