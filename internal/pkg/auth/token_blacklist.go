package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// TokenBlacklist revokes tokens before they expire (logout).
type TokenBlacklist interface {
	// Revoke blacklists jti for ttl, normally the token's remaining lifetime.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const blacklistPrefix = "token:blacklist:jti:"

type RedisTokenBlacklist struct {
	client *redis.Client
}

// NewRedisTokenBlacklist parses a redis:// URL and pings the server.
func NewRedisTokenBlacklist(ctx context.Context, url string) (*RedisTokenBlacklist, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis for token blacklist: %w", err)
	}
	return &RedisTokenBlacklist{client: client}, nil
}

func NewRedisTokenBlacklistWithClient(client *redis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{client: client}
}

func (b *RedisTokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, blacklistPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}
	return nil
}

func (b *RedisTokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return n > 0, nil
}

func (b *RedisTokenBlacklist) Close() error {
	return b.client.Close()
}

// MemoryTokenBlacklist is process local. Use it when no Redis is configured.
type MemoryTokenBlacklist struct {
	cache *cache.Cache
}

func NewMemoryTokenBlacklist() *MemoryTokenBlacklist {
	return &MemoryTokenBlacklist{cache: cache.New(cache.NoExpiration, 10*time.Minute)}
}

func (b *MemoryTokenBlacklist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.cache.Set(jti, struct{}{}, ttl)
	return nil
}

func (b *MemoryTokenBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, found := b.cache.Get(jti)
	return found, nil
}

var (
	_ TokenBlacklist = (*RedisTokenBlacklist)(nil)
	_ TokenBlacklist = (*MemoryTokenBlacklist)(nil)
)
