package receipt

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/zombor/sales-tax/internal/tax"
)

// Cart is an ordered list of purchases from one shopping list
type Cart struct {
	Items []*tax.Item
}

// NewCart parses every line into an item. The first bad line aborts the
// whole cart.
func NewCart(lines []string) (*Cart, error) {
	items := make([]*tax.Item, 0, len(lines))
	for n, line := range lines {
		item, err := tax.ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", n+1, err)
		}
		items = append(items, item)
	}
	return &Cart{Items: items}, nil
}

// ParseCart splits text on newlines, skips blank lines and parses the rest
func ParseCart(text string) (*Cart, error) {
	lines := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return NewCart(lines)
}

// Total returns the sum of all tax-inclusive item prices
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Price())
	}
	return total
}

// SalesTax returns the sum of all item tax amounts
func (c *Cart) SalesTax() decimal.Decimal {
	salesTax := decimal.Zero
	for _, item := range c.Items {
		salesTax = salesTax.Add(item.TaxAmount())
	}
	return salesTax
}

// Receipt renders one line per item followed by the tax and grand totals
func (c *Cart) Receipt() string {
	var b strings.Builder
	for _, item := range c.Items {
		b.WriteString(item.String())
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Sales Taxes: %s\n", formatAmount(c.SalesTax()))
	fmt.Fprintf(&b, "Total: %s\n", formatAmount(c.Total()))
	return b.String()
}

// RenderCart parses lines as one cart and returns its receipt
func RenderCart(lines []string) (string, error) {
	cart, err := NewCart(lines)
	if err != nil {
		return "", err
	}
	return cart.Receipt(), nil
}

// formatAmount prints at least two fraction digits, more only if the
// amount actually carries them
func formatAmount(d decimal.Decimal) string {
	places := int32(2)
	if exp := -d.Exponent(); exp > places && !d.Equal(d.Round(places)) {
		places = exp
	}
	return d.StringFixed(places)
}
