package catalog

import (
	"fmt"
	"strings"
)

// DefaultImageURL is used when a product is created without an image.
const DefaultImageURL = "https://placehold.co/600x400.png"

// Categories lists the storefront categories. "all" is the no-filter choice.
var Categories = []string{"all", "clothes", "shoes", "electronics", "books", "home"}

// Product is a storefront item. Effective price is never stored; see EffectivePrice.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Discount    *int    `json:"discount,omitempty"` // percent in [0,100]; nil means no discount
	ImageURL    string  `json:"image_url,omitempty"`
	SellerID    string  `json:"seller_id,omitempty"` // empty for unowned demo products
}

// Clone returns a copy that shares no memory with p.
func (p Product) Clone() Product {
	if p.Discount != nil {
		d := *p.Discount
		p.Discount = &d
	}
	return p
}

// ProductData is the caller-supplied part of a new product.
type ProductData struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Discount    *int    `json:"discount,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// ProductPatch is a partial update. Nil fields are left untouched.
type ProductPatch struct {
	Name        *string  `json:"name,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Discount    *int     `json:"discount,omitempty"`
	// RemoveDiscount drops any discount; it wins over Discount.
	RemoveDiscount bool    `json:"remove_discount,omitempty"`
	ImageURL       *string `json:"image_url,omitempty"`
}

// Apply merges the patch into p.
func (patch ProductPatch) Apply(p *Product) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Discount != nil {
		d := *patch.Discount
		p.Discount = &d
	}
	if patch.RemoveDiscount {
		p.Discount = nil
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
}

// IsEmpty reports whether the patch changes nothing.
func (patch ProductPatch) IsEmpty() bool {
	return patch.Name == nil && patch.Category == nil && patch.Description == nil &&
		patch.Price == nil && patch.Discount == nil && !patch.RemoveDiscount && patch.ImageURL == nil
}

func (d ProductData) validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if strings.TrimSpace(d.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidProduct)
	}
	if err := validatePrice(d.Price); err != nil {
		return err
	}
	return validateDiscount(d.Discount)
}

func (patch ProductPatch) validate() error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return fmt.Errorf("%w: name cannot be blank", ErrInvalidProduct)
	}
	if patch.Category != nil && strings.TrimSpace(*patch.Category) == "" {
		return fmt.Errorf("%w: category cannot be blank", ErrInvalidProduct)
	}
	if patch.Price != nil {
		if err := validatePrice(*patch.Price); err != nil {
			return err
		}
	}
	return validateDiscount(patch.Discount)
}

func validatePrice(price float64) error {
	if price < 0 {
		return fmt.Errorf("%w: price must be >= 0", ErrInvalidProduct)
	}
	return nil
}

func validateDiscount(d *int) error {
	if d != nil && (*d < 0 || *d > 100) {
		return fmt.Errorf("%w: discount must be between 0 and 100", ErrInvalidProduct)
	}
	return nil
}

func intPtr(v int) *int { return &v }

// SeedProducts returns the demo catalogue the storefront starts with.
func SeedProducts() []Product {
	return []Product{
		{ID: "1", Name: "Classic T-Shirt", Category: "clothes", Description: "A comfortable and stylish classic t-shirt, perfect for everyday wear.", Price: 25.99, Discount: intPtr(5), ImageURL: DefaultImageURL, SellerID: "seller1"},
		{ID: "2", Name: "Running Shoes", Category: "shoes", Description: "Lightweight and durable running shoes for optimal performance.", Price: 89.50, ImageURL: DefaultImageURL, SellerID: "seller2"},
		{ID: "3", Name: "Summer Dress", Category: "clothes", Description: "Elegant summer dress made from breathable cotton.", Price: 45.00, Discount: intPtr(10), ImageURL: DefaultImageURL, SellerID: "seller1"},
		{ID: "4", Name: "Leather Boots", Category: "shoes", Description: "Stylish and sturdy leather boots for all weather conditions.", Price: 120.00, ImageURL: DefaultImageURL, SellerID: "seller2"},
		{ID: "5", Name: "Denim Jeans", Category: "clothes", Description: "Modern slim-fit denim jeans.", Price: 60.00, ImageURL: DefaultImageURL, SellerID: "seller1"},
		{ID: "6", Name: "Casual Sneakers", Category: "shoes", Description: "Comfortable sneakers for casual outings.", Price: 75.00, Discount: intPtr(15), ImageURL: DefaultImageURL, SellerID: "seller2"},
	}
}
