package catalog

import (
	"context"
	"errors"
)

var (
	// ErrProductNotFound means no product matched. For Update and Delete it
	// also covers a product owned by another seller; callers cannot tell the two apart.
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidProduct wraps every validation failure.
	ErrInvalidProduct = errors.New("invalid product")
)

// Repository is the canonical product store. Every returned Product is a copy.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	FindByID(ctx context.Context, id string) (*Product, error)
	Add(ctx context.Context, data ProductData, sellerID string) (*Product, error)
	// Update applies patch only when both id and sellerID match.
	Update(ctx context.Context, id string, patch ProductPatch, sellerID string) (*Product, error)
	// Delete removes the product only when both id and sellerID match and
	// reports whether anything was removed.
	Delete(ctx context.Context, id, sellerID string) (bool, error)
}
