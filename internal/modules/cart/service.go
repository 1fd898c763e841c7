package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/georgemunganga/shopswift/internal/modules/catalog"
	"github.com/georgemunganga/shopswift/internal/storage"
)

// KeyPrefix namespaces cart records in the store.
const KeyPrefix = "shopswift-cart:"

// ErrEmptyCart is returned by Checkout when the cart has no lines.
var ErrEmptyCart = errors.New("cart is empty")

// Service manages one cart per session id.
type Service interface {
	Get(ctx context.Context, sessionID string) (Summary, error)
	Add(ctx context.Context, sessionID string, product catalog.Product) (Summary, error)
	Remove(ctx context.Context, sessionID, productID string) (Summary, error)
	Clear(ctx context.Context, sessionID string) (Summary, error)
	// Checkout is a demo hand-off: it confirms a non-empty cart and returns
	// its summary. No transaction is made and the cart is kept.
	Checkout(ctx context.Context, sessionID string) (Summary, error)
	// Sweep evicts carts idle since before now minus the idle TTL and
	// returns how many were evicted. Evicted carts rehydrate on next use.
	Sweep(now time.Time) int
}

type session struct {
	mu       sync.Mutex
	cart     *Cart
	loaded   bool
	lastUsed time.Time
}

type service struct {
	store   storage.Store
	logger  zerolog.Logger
	idleTTL time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// ServiceOption configures the cart service.
type ServiceOption func(*service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) { s.now = now }
}

// NewService keeps carts in store. Writes are best-effort: a failed write is
// logged and the in-memory cart stays authoritative.
func NewService(store storage.Store, idleTTL time.Duration, logger zerolog.Logger, opts ...ServiceOption) Service {
	s := &service{
		store:    store,
		logger:   logger.With().Str("module", "cart").Logger(),
		idleTTL:  idleTTL,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// acquire returns the locked session for sessionID, rehydrating it on first use.
func (s *service) acquire(ctx context.Context, sessionID string) (*session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{cart: &Cart{}}
		s.sessions[sessionID] = sess
	}
	sess.lastUsed = s.now()
	s.mu.Unlock()

	sess.mu.Lock()
	if sess.loaded {
		return sess, nil
	}
	items, err := s.rehydrate(ctx, sessionID)
	if err != nil {
		sess.mu.Unlock()
		return nil, err
	}
	sess.cart = New(items)
	sess.loaded = true
	return sess, nil
}

// rehydrate reads the persisted lines. Only context errors are returned;
// a missing or unreadable record is an empty cart.
func (s *service) rehydrate(ctx context.Context, sessionID string) ([]Item, error) {
	raw, err := s.store.Get(ctx, KeyPrefix+sessionID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to read cart, starting empty")
		return nil, nil
	}
	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("Discarding unreadable cart record")
		return nil, nil
	}
	return items, nil
}

func (s *service) persist(ctx context.Context, sessionID string, c *Cart) {
	raw, err := json.Marshal(c.Items())
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to encode cart")
		return
	}
	if err := s.store.Set(ctx, KeyPrefix+sessionID, raw); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to persist cart")
	}
}

func (s *service) Get(ctx context.Context, sessionID string) (Summary, error) {
	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return Summary{}, err
	}
	defer sess.mu.Unlock()
	return sess.cart.Summary(), nil
}

// mutate applies fn to the session cart and persists it when fn reports a change.
func (s *service) mutate(ctx context.Context, sessionID string, fn func(*Cart) bool) (Summary, error) {
	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return Summary{}, err
	}
	defer sess.mu.Unlock()
	if fn(sess.cart) {
		s.persist(ctx, sessionID, sess.cart)
	}
	return sess.cart.Summary(), nil
}

func (s *service) Add(ctx context.Context, sessionID string, product catalog.Product) (Summary, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) bool {
		c.Add(product)
		s.logger.Debug().Str("session_id", sessionID).Str("product_id", product.ID).Msg("Added to cart")
		return true
	})
}

func (s *service) Remove(ctx context.Context, sessionID, productID string) (Summary, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) bool {
		if !c.Remove(productID) {
			return false
		}
		s.logger.Debug().Str("session_id", sessionID).Str("product_id", productID).Msg("Removed from cart")
		return true
	})
}

func (s *service) Clear(ctx context.Context, sessionID string) (Summary, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) bool {
		c.Clear()
		return true
	})
}

func (s *service) Checkout(ctx context.Context, sessionID string) (Summary, error) {
	sess, err := s.acquire(ctx, sessionID)
	if err != nil {
		return Summary{}, err
	}
	defer sess.mu.Unlock()
	if sess.cart.LineCount() == 0 {
		return Summary{}, ErrEmptyCart
	}
	summary := sess.cart.Summary()
	s.logger.Info().Str("session_id", sessionID).Int("item_count", summary.ItemCount).
		Float64("total", summary.Total).Msg("Checkout initiated")
	return summary, nil
}

func (s *service) Sweep(now time.Time) int {
	if s.idleTTL <= 0 {
		return 0
	}
	cutoff := now.Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		if !sess.lastUsed.Before(cutoff) {
			continue
		}
		// a held lock means a request is still working on this cart
		if !sess.mu.TryLock() {
			continue
		}
		delete(s.sessions, id)
		sess.mu.Unlock()
		n++
	}
	if n > 0 {
		s.logger.Debug().Int("evicted", n).Int("active", len(s.sessions)).Msg("Swept idle carts")
	}
	return n
}
