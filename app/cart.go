package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/growthlabpro/storefront/domain/cart"
	"github.com/growthlabpro/storefront/domain/catalog"
	"github.com/growthlabpro/storefront/domain/fault"
	"github.com/growthlabpro/storefront/ports"
)

// Cart operations, as reported to OnOperation.
const (
	CartOpAdd    = "add"
	CartOpRemove = "remove"
	CartOpClear  = "clear"
)

// CartSummary is what the cart drawer shows.
type CartSummary struct {
	Items []cart.Item `json:"items"`
	Count int         `json:"count"`
	Total int64       `json:"total"`
}

// Summarize builds the display summary of a cart.
func Summarize(c cart.Cart) CartSummary {
	return CartSummary{Items: c.Items(), Count: c.Count(), Total: c.Total()}
}

// CartService keeps one cart per browser session.
// Items are built from the catalog, so prices never come from the client.
type CartService struct {
	store   ports.CartStore
	ids     ports.IDGenerator
	catalog catalog.Catalog
	logger  zerolog.Logger

	// mu serializes read-modify-write cycles against the store.
	mu sync.Mutex

	// OnOperation, if set, observes every successful mutation.
	OnOperation func(op string)
}

// NewCartService creates a new cart service.
func NewCartService(store ports.CartStore, ids ports.IDGenerator, cat catalog.Catalog, logger zerolog.Logger) *CartService {
	return &CartService{
		store:   store,
		ids:     ids,
		catalog: cat,
		logger:  logger,
	}
}

// NewSessionID returns a fresh cart session id.
func (s *CartService) NewSessionID() string {
	return s.ids.New()
}

// Get returns the session's cart; an unknown or empty session has an empty cart.
func (s *CartService) Get(ctx context.Context, sessionID string) (cart.Cart, error) {
	if sessionID == "" {
		return cart.New(), nil
	}
	c, _, err := s.store.Get(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to load cart")
		return cart.Cart{}, fmt.Errorf("load cart: %w", err)
	}
	return c, nil
}

// AddOffering adds the catalog product key to the cart.
// Plans take a billing cycle (default monthly); add-ons ignore it.
func (s *CartService) AddOffering(ctx context.Context, sessionID string, key catalog.Key, cycle cart.BillingCycle) (cart.Cart, error) {
	offering, ok := catalog.FindOffering(key)
	if !ok {
		return cart.Cart{}, fault.New(fault.KindBadRequest, "Unknown product: "+string(key))
	}
	product, ok := s.catalog.Get(key)
	if !ok {
		return cart.Cart{}, fault.New(fault.KindConfigurationNotFound, "Product configuration not found for: "+string(key))
	}
	item, err := cart.ItemFor(offering, product, cycle)
	if err != nil {
		return cart.Cart{}, fault.Wrap(fault.KindBadRequest, fmt.Sprintf("Invalid billing cycle: %s", cycle), err)
	}

	return s.update(ctx, sessionID, CartOpAdd, func(c cart.Cart) cart.Cart {
		return c.Add(item)
	})
}

// Remove drops an item by id. Removing an absent id is not an error.
func (s *CartService) Remove(ctx context.Context, sessionID, itemID string) (cart.Cart, error) {
	return s.update(ctx, sessionID, CartOpRemove, func(c cart.Cart) cart.Cart {
		return c.Remove(itemID)
	})
}

// Clear empties the session's cart.
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	s.observe(CartOpClear)
	return nil
}

func (s *CartService) update(ctx context.Context, sessionID, op string, fn func(cart.Cart) cart.Cart) (cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.Get(ctx, sessionID)
	if err != nil {
		return cart.Cart{}, err
	}
	next := fn(current)
	if err := s.store.Save(ctx, sessionID, next); err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Str("op", op).Msg("failed to save cart")
		return cart.Cart{}, fmt.Errorf("save cart: %w", err)
	}

	s.logger.Debug().
		Str("session_id", sessionID).
		Str("op", op).
		Int("items", next.Count()).
		Msg("cart updated")
	s.observe(op)
	return next, nil
}

func (s *CartService) observe(op string) {
	if s.OnOperation != nil {
		s.OnOperation(op)
	}
}
