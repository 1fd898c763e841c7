package cart

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/georgemunganga/shopswift/internal/modules/catalog"
)

func product(id string, price float64, discount *int) catalog.Product {
	return catalog.Product{ID: id, Name: "p" + id, Category: "clothes", Price: price, Discount: discount}
}

func pct(v int) *int { return &v }

func TestAddSameProductTwiceMakesOneLine(t *testing.T) {
	c := &Cart{}
	tee := product("1", 25.99, pct(5))
	c.Add(tee)
	c.Add(tee)

	if c.LineCount() != 1 || c.ItemCount() != 2 {
		t.Fatalf("expected 1 line with 2 units, got %d lines %d units", c.LineCount(), c.ItemCount())
	}
	s := c.Summary()
	if s.Total != 49.38 {
		t.Fatalf("expected total 49.38, got %v", s.Total)
	}
	if s.Lines[0].UnitPrice != 24.69 || s.Lines[0].LineTotal != 49.38 {
		t.Fatalf("unexpected line: %+v", s.Lines[0])
	}
}

func TestRemoveDropsWholeLine(t *testing.T) {
	c := &Cart{}
	c.Add(product("1", 10, nil))
	c.Add(product("1", 10, nil))
	c.Add(product("2", 5, nil))

	if !c.Remove("1") {
		t.Fatalf("expected line to be removed")
	}
	if c.LineCount() != 1 || c.ItemCount() != 1 {
		t.Fatalf("unexpected cart after remove: %+v", c.Items())
	}

	before := c.Items()
	if c.Remove("missing") {
		t.Fatalf("removing an absent id should report false")
	}
	if after := c.Items(); len(after) != len(before) || after[0].Quantity != before[0].Quantity {
		t.Fatalf("absent remove changed the cart")
	}
}

func TestEmptyCart(t *testing.T) {
	c := &Cart{}
	if !c.Total().IsZero() || c.ItemCount() != 0 {
		t.Fatalf("empty cart should total 0")
	}
	s := c.Summary()
	if s.Lines == nil || len(s.Lines) != 0 || s.Total != 0 {
		t.Fatalf("unexpected empty summary: %+v", s)
	}

	c.Add(product("1", 10, nil))
	c.Clear()
	if c.LineCount() != 0 {
		t.Fatalf("Clear left lines behind")
	}
}

func TestTotalIsSumOfLines(t *testing.T) {
	c := &Cart{}
	c.Add(product("1", 45, pct(10)))
	c.Add(product("2", 89.5, nil))
	c.Add(product("2", 89.5, nil))
	c.Add(product("3", 75, pct(15)))

	want := decimal.RequireFromString("40.5").
		Add(decimal.RequireFromString("179")).
		Add(decimal.RequireFromString("63.75"))
	if !c.Total().Equal(want) {
		t.Fatalf("expected %s, got %s", want, c.Total())
	}
	if c.ItemCount() != 4 || c.LineCount() != 3 {
		t.Fatalf("expected 4 units on 3 lines, got %d on %d", c.ItemCount(), c.LineCount())
	}
}

func TestLinesKeepSnapshot(t *testing.T) {
	c := &Cart{}
	p := product("1", 10, pct(50))
	c.Add(p)

	p.Price = 99
	*p.Discount = 0
	c.Add(p)

	items := c.Items()
	if items[0].Product.Price != 10 || *items[0].Product.Discount != 50 || items[0].Quantity != 2 {
		t.Fatalf("line should keep the first snapshot: %+v", items[0])
	}
}

func TestNewMergesAndDropsBadLines(t *testing.T) {
	c := New([]Item{
		{Product: product("1", 10, nil), Quantity: 2},
		{Product: product("", 10, nil), Quantity: 1},
		{Product: product("2", 10, nil), Quantity: 0},
		{Product: product("1", 10, nil), Quantity: 1},
	})
	items := c.Items()
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("unexpected lines: %+v", items)
	}
}

func TestNewDropsOutOfRangePrices(t *testing.T) {
	c := New([]Item{
		{Product: product("1", 10, pct(150)), Quantity: 1},
		{Product: product("2", -4, nil), Quantity: 2},
		{Product: product("3", 10, pct(-5)), Quantity: 1},
		{Product: product("4", 8, pct(100)), Quantity: 1},
		{Product: product("5", 5, nil), Quantity: 1},
	})
	if c.LineCount() != 2 {
		t.Fatalf("expected 2 valid lines, got %+v", c.Items())
	}
	if !c.Total().Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected total 5, got %s", c.Total())
	}
}

func TestAddedOutOfRangeProductNeverLowersTotal(t *testing.T) {
	c := &Cart{}
	c.Add(product("1", 10, nil))
	c.Add(product("2", 10, pct(150)))
	c.Add(product("3", -10, nil))
	if !c.Total().Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected total 10, got %s", c.Total())
	}
}
