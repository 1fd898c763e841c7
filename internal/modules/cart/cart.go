package cart

import (
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/shopswift/internal/modules/catalog"
)

// Item is one cart line. Product is the snapshot taken when the line was
// first added; later catalogue edits do not reach it.
type Item struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Cart is an ordered list of lines with at most one line per product id.
// The zero value is an empty cart.
type Cart struct {
	items []Item
}

// New builds a cart from persisted lines. Duplicate ids are merged. A line is
// dropped when its quantity is not positive or its snapshot would fail
// catalogue validation.
func New(items []Item) *Cart {
	c := &Cart{}
	for _, it := range items {
		if it.Product.ID == "" || it.Quantity <= 0 || !validSnapshot(it.Product) {
			continue
		}
		if i := c.index(it.Product.ID); i >= 0 {
			c.items[i].Quantity += it.Quantity
			continue
		}
		c.items = append(c.items, Item{Product: it.Product.Clone(), Quantity: it.Quantity})
	}
	return c
}

func validSnapshot(p catalog.Product) bool {
	if p.Price < 0 {
		return false
	}
	return p.Discount == nil || (*p.Discount >= 0 && *p.Discount <= 100)
}

func (c *Cart) index(productID string) int {
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// Add puts one unit of p in the cart, incrementing its line if there is one.
func (c *Cart) Add(p catalog.Product) {
	if i := c.index(p.ID); i >= 0 {
		c.items[i].Quantity++
		return
	}
	c.items = append(c.items, Item{Product: p.Clone(), Quantity: 1})
}

// Remove drops the whole line for productID and reports whether one existed.
func (c *Cart) Remove(productID string) bool {
	i := c.index(productID)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return true
}

func (c *Cart) Clear() { c.items = nil }

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	for i, it := range c.items {
		out[i] = Item{Product: it.Product.Clone(), Quantity: it.Quantity}
	}
	return out
}

// Total is the sum of effective price times quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(lineTotal(it))
	}
	return total
}

// ItemCount is the number of units, not lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) LineCount() int { return len(c.items) }

func lineTotal(it Item) decimal.Decimal {
	return catalog.EffectivePrice(it.Product).Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Line is a cart line with its derived prices.
type Line struct {
	Product   catalog.Product `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice float64         `json:"unit_price"`
	LineTotal float64         `json:"line_total"`
}

// Summary is the cart as the storefront displays it.
type Summary struct {
	Lines     []Line  `json:"lines"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"item_count"`
	LineCount int     `json:"line_count"`
}

// Summary rounds every amount to display precision. Total is rounded once
// from the exact sum, not summed from rounded lines.
func (c *Cart) Summary() Summary {
	s := Summary{
		Lines:     make([]Line, 0, len(c.items)),
		Total:     catalog.DisplayAmount(c.Total()),
		ItemCount: c.ItemCount(),
		LineCount: c.LineCount(),
	}
	for _, it := range c.items {
		s.Lines = append(s.Lines, Line{
			Product:   it.Product.Clone(),
			Quantity:  it.Quantity,
			UnitPrice: catalog.DisplayAmount(catalog.EffectivePrice(it.Product)),
			LineTotal: catalog.DisplayAmount(lineTotal(it)),
		})
	}
	return s
}
