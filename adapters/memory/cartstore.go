// Package memory provides in-memory implementations of the storage ports.
package memory

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/growthlabpro/storefront/domain/cart"
	"github.com/growthlabpro/storefront/ports"
)

// Defaults for CartStore.
const (
	DefaultMaxSessions = 10000
	DefaultCartTTL     = 24 * time.Hour
)

// CartStore keeps carts in an expiring LRU.
// Evicted or expired carts are gone; nothing is persisted.
type CartStore struct {
	carts *lru.LRU[string, cart.Cart]
}

// NewCartStore creates a cart store holding at most maxSessions carts for ttl each.
func NewCartStore(maxSessions int, ttl time.Duration) *CartStore {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if ttl <= 0 {
		ttl = DefaultCartTTL
	}
	return &CartStore{
		carts: lru.NewLRU[string, cart.Cart](maxSessions, nil, ttl),
	}
}

// Get returns the cart for a session.
func (s *CartStore) Get(ctx context.Context, sessionID string) (cart.Cart, bool, error) {
	c, ok := s.carts.Get(sessionID)
	return c, ok, nil
}

// Save stores the cart and resets its expiry.
func (s *CartStore) Save(ctx context.Context, sessionID string, c cart.Cart) error {
	s.carts.Add(sessionID, c)
	return nil
}

// Delete drops the cart for a session.
func (s *CartStore) Delete(ctx context.Context, sessionID string) error {
	s.carts.Remove(sessionID)
	return nil
}

// Len returns the number of live carts.
func (s *CartStore) Len() int {
	return s.carts.Len()
}

var _ ports.CartStore = (*CartStore)(nil)
