package catalog

import (
	"context"
	"sync"

	"github.com/georgemunganga/shopswift/internal/latency"
	"github.com/google/uuid"
)

type memoryRepo struct {
	mu       sync.RWMutex
	products []Product
	wait     latency.Func
	profile  latency.Profile
	newID    func() string
}

// MemoryOption configures the in-memory store.
type MemoryOption func(*memoryRepo)

// WithLatency delays every operation by the matching profile entry using wait.
func WithLatency(profile latency.Profile, wait latency.Func) MemoryOption {
	return func(r *memoryRepo) {
		r.profile = profile
		r.wait = wait
	}
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(fn func() string) MemoryOption {
	return func(r *memoryRepo) { r.newID = fn }
}

// NewMemoryRepository builds a store holding copies of seed, in seed order.
func NewMemoryRepository(seed []Product, opts ...MemoryOption) Repository {
	r := &memoryRepo{
		products: make([]Product, 0, len(seed)),
		wait:     latency.None,
		newID:    uuid.NewString,
	}
	for _, p := range seed {
		r.products = append(r.products, p.Clone())
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *memoryRepo) List(ctx context.Context) ([]Product, error) {
	if err := r.wait(ctx, r.profile.List); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Product, len(r.products))
	for i, p := range r.products {
		out[i] = p.Clone()
	}
	return out, nil
}

func (r *memoryRepo) FindByID(ctx context.Context, id string) (*Product, error) {
	if err := r.wait(ctx, r.profile.Find); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.products {
		if p.ID == id {
			c := p.Clone()
			return &c, nil
		}
	}
	return nil, ErrProductNotFound
}

func (r *memoryRepo) Add(ctx context.Context, data ProductData, sellerID string) (*Product, error) {
	if err := r.wait(ctx, r.profile.Write); err != nil {
		return nil, err
	}
	p := Product{
		ID:          r.newID(),
		Name:        data.Name,
		Category:    data.Category,
		Description: data.Description,
		Price:       data.Price,
		Discount:    data.Discount,
		ImageURL:    data.ImageURL,
		SellerID:    sellerID,
	}
	if p.ImageURL == "" {
		p.ImageURL = DefaultImageURL
	}
	p = p.Clone()

	r.mu.Lock()
	r.products = append([]Product{p}, r.products...)
	r.mu.Unlock()

	c := p.Clone()
	return &c, nil
}

func (r *memoryRepo) Update(ctx context.Context, id string, patch ProductPatch, sellerID string) (*Product, error) {
	if err := r.wait(ctx, r.profile.Write); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.products {
		if r.products[i].ID == id && r.products[i].SellerID == sellerID {
			patch.Apply(&r.products[i])
			c := r.products[i].Clone()
			return &c, nil
		}
	}
	return nil, ErrProductNotFound
}

func (r *memoryRepo) Delete(ctx context.Context, id, sellerID string) (bool, error) {
	if err := r.wait(ctx, r.profile.Write); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.products {
		if p.ID == id && p.SellerID == sellerID {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
