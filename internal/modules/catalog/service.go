package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

const (
	DefaultPerPage = 6
	MaxPerPage     = 100
)

// Service defines catalog business logic.
type Service interface {
	ListProducts(ctx context.Context, filter ListFilter) (*ProductPage, error)
	ListSellerProducts(ctx context.Context, sellerID string) ([]Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	CreateProduct(ctx context.Context, data ProductData, sellerID string) (*Product, error)
	UpdateProduct(ctx context.Context, id string, patch ProductPatch, sellerID string) (*Product, error)
	DeleteProduct(ctx context.Context, id, sellerID string) (bool, error)
	Categories() []string
}

// ListFilter narrows and pages the storefront listing.
type ListFilter struct {
	Query    string // substring of name or description, case-insensitive
	Category string // "" or "all" disables the filter
	Page     int    // 1-based
	PerPage  int
}

// ProductPage is one page of a filtered listing.
type ProductPage struct {
	Items      []Product `json:"items"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PerPage    int       `json:"per_page"`
	TotalPages int       `json:"total_pages"`
}

type service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) Service {
	return &service{repo: repo, logger: logger.With().Str("module", "catalog").Logger()}
}

func (s *service) ListProducts(ctx context.Context, filter ListFilter) (*ProductPage, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return paginate(filterProducts(products, filter), filter.Page, filter.PerPage), nil
}

func (s *service) ListSellerProducts(ctx context.Context, sellerID string) ([]Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []Product{}
	for _, p := range products {
		// unowned demo products are shown to every seller
		if p.SellerID == sellerID || p.SellerID == "" {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) CreateProduct(ctx context.Context, data ProductData, sellerID string) (*Product, error) {
	if sellerID == "" {
		return nil, fmt.Errorf("%w: seller id is required", ErrInvalidProduct)
	}
	data.Name = strings.TrimSpace(data.Name)
	data.Category = strings.TrimSpace(data.Category)
	if err := data.validate(); err != nil {
		return nil, err
	}
	p, err := s.repo.Add(ctx, data, sellerID)
	if err != nil {
		s.logger.Error().Err(err).Str("seller_id", sellerID).Msg("Failed to add product")
		return nil, err
	}
	s.logger.Info().Str("product_id", p.ID).Str("seller_id", sellerID).Msg("Product added")
	return p, nil
}

func (s *service) UpdateProduct(ctx context.Context, id string, patch ProductPatch, sellerID string) (*Product, error) {
	if sellerID == "" {
		return nil, ErrProductNotFound
	}
	if err := patch.validate(); err != nil {
		return nil, err
	}
	p, err := s.repo.Update(ctx, id, patch, sellerID)
	if errors.Is(err, ErrProductNotFound) {
		s.logger.Warn().Str("product_id", id).Str("seller_id", sellerID).Msg("Update rejected: product missing or not owned")
		return nil, err
	}
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("Failed to update product")
		return nil, err
	}
	s.logger.Info().Str("product_id", id).Str("seller_id", sellerID).Msg("Product updated")
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, id, sellerID string) (bool, error) {
	if sellerID == "" {
		return false, nil
	}
	ok, err := s.repo.Delete(ctx, id, sellerID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("Failed to delete product")
		return false, err
	}
	if !ok {
		s.logger.Warn().Str("product_id", id).Str("seller_id", sellerID).Msg("Delete rejected: product missing or not owned")
		return false, nil
	}
	s.logger.Info().Str("product_id", id).Str("seller_id", sellerID).Msg("Product deleted")
	return true, nil
}

func (s *service) Categories() []string {
	return append([]string(nil), Categories...)
}

func filterProducts(products []Product, filter ListFilter) []Product {
	q := strings.ToLower(strings.TrimSpace(filter.Query))
	category := strings.TrimSpace(filter.Category)
	if strings.EqualFold(category, "all") {
		category = ""
	}

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func paginate(products []Product, page, perPage int) *ProductPage {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if page < 1 {
		page = 1
	}

	total := len(products)
	result := &ProductPage{
		Items:      []Product{},
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: (total + perPage - 1) / perPage,
	}
	if page > result.TotalPages {
		return result
	}
	start := (page - 1) * perPage
	end := start + perPage
	if end > total {
		end = total
	}
	result.Items = products[start:end]
	return result
}
