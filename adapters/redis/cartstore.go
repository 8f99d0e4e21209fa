// Package redis provides a Redis-backed cart store for multi-instance deployments.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/growthlabpro/storefront/domain/cart"
	"github.com/growthlabpro/storefront/ports"
)

// Config holds Redis connection settings.
type Config struct {
	URL        string
	Password   string
	DB         int
	MaxRetries int
	PoolSize   int
	KeyPrefix  string
	TTL        time.Duration
}

// CartStore keeps carts as JSON values with a TTL.
type CartStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewCartStore connects to Redis and verifies the connection.
func NewCartStore(ctx context.Context, cfg Config) (*CartStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB > 0 {
		opts.DB = cfg.DB
	}
	if cfg.MaxRetries > 0 {
		opts.MaxRetries = cfg.MaxRetries
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.PoolTimeout = 4 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "storefront:cart:"
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &CartStore{client: client, prefix: prefix, ttl: ttl}, nil
}

func (s *CartStore) key(sessionID string) string {
	return s.prefix + sessionID
}

// Get returns the cart for a session.
func (s *CartStore) Get(ctx context.Context, sessionID string) (cart.Cart, bool, error) {
	data, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err == redis.Nil {
		return cart.Cart{}, false, nil
	} else if err != nil {
		return cart.Cart{}, false, fmt.Errorf("redis get failed: %w", err)
	}

	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		// If unmarshal fails, delete corrupt data
		s.client.Del(ctx, s.key(sessionID))
		return cart.Cart{}, false, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	return c, true, nil
}

// Save stores the cart and refreshes its TTL.
func (s *CartStore) Save(ctx context.Context, sessionID string, c cart.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	return s.client.Set(ctx, s.key(sessionID), data, s.ttl).Err()
}

// Delete drops the cart for a session.
func (s *CartStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}

// Ping checks the connection.
func (s *CartStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *CartStore) Close() error {
	return s.client.Close()
}

var _ ports.CartStore = (*CartStore)(nil)
