// Package cache offers an optional redis-backed cache for KPI snapshots.
// Snapshots are cheap to recompute, so a cache miss is never an error and
// the noop implementation keeps single-node deployments dependency-free.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/opsintel/backend-go/internal/config"
	"github.com/opsintel/backend-go/internal/domain"
)

const (
	kpiKeyPrefix  = "kpi:snapshot"
	defaultKPITTL = time.Minute
)

// KPICache stores computed KPI snapshots keyed by session and table
// version. A version bump on upload makes stale entries unreachable;
// they age out by TTL.
type KPICache interface {
	Get(ctx context.Context, sessionID string, version uint64) (*domain.KPISnapshot, bool, error)
	Set(ctx context.Context, sessionID string, version uint64, snap *domain.KPISnapshot) error
}

type redisKPICache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopKPICache struct{}

// NewKPICache connects to redis when caching is enabled and falls back
// to a noop cache otherwise.
func NewKPICache(cfg config.CacheConfig) (KPICache, error) {
	if !cfg.Enabled {
		return &noopKPICache{}, nil
	}

	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.KPITTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultKPITTL
	}

	return &redisKPICache{client: client, ttl: ttl}, nil
}

// NewNoopKPICache returns a cache that never stores anything.
func NewNoopKPICache() KPICache {
	return &noopKPICache{}
}

func (c *redisKPICache) Get(ctx context.Context, sessionID string, version uint64) (*domain.KPISnapshot, bool, error) {
	payload, err := c.client.Get(ctx, kpiKey(sessionID, version)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var snap domain.KPISnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, false, fmt.Errorf("corrupt cached snapshot: %w", err)
	}
	return &snap, true, nil
}

func (c *redisKPICache) Set(ctx context.Context, sessionID string, version uint64, snap *domain.KPISnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot failed: %w", err)
	}
	if err := c.client.Set(ctx, kpiKey(sessionID, version), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (noopKPICache) Get(ctx context.Context, sessionID string, version uint64) (*domain.KPISnapshot, bool, error) {
	return nil, false, nil
}

func (noopKPICache) Set(ctx context.Context, sessionID string, version uint64, snap *domain.KPISnapshot) error {
	return nil
}

func kpiKey(sessionID string, version uint64) string {
	return fmt.Sprintf("%s:%s:%d", kpiKeyPrefix, sessionID, version)
}

func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := cfg.RedisHost
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}
