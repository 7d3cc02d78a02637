package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// BasicRate applies to every good that is not exempt
	BasicRate = decimal.RequireFromString("0.10")

	// ImportDuty is added on top for imported goods, exempt or not
	ImportDuty = decimal.RequireFromString("0.05")
)

// Item is one purchase line of a shopping cart
type Item struct {
	Quantity  decimal.Decimal
	Name      string
	UnitPrice decimal.Decimal
	Imported  bool
	TaxExempt bool

	// quantityText is the quantity as written in the input, kept for display
	quantityText string
}

// NewItem creates an Item with explicit classification flags.
// Negative quantities or prices are rejected with a *NegativeValueError.
func NewItem(quantity decimal.Decimal, name string, unitPrice decimal.Decimal, imported, taxExempt bool) (*Item, error) {
	if quantity.IsNegative() {
		return nil, &NegativeValueError{Field: "quantity", Value: quantity.String()}
	}
	if unitPrice.IsNegative() {
		return nil, &NegativeValueError{Field: "price", Value: unitPrice.String()}
	}

	return &Item{
		Quantity:     quantity,
		Name:         name,
		UnitPrice:    unitPrice,
		Imported:     imported,
		TaxExempt:    taxExempt,
		quantityText: quantity.String(),
	}, nil
}

// TaxRate returns the combined rate for the item's classification
func (i *Item) TaxRate() decimal.Decimal {
	rate := decimal.Zero
	if !i.TaxExempt {
		rate = rate.Add(BasicRate)
	}
	if i.Imported {
		rate = rate.Add(ImportDuty)
	}
	return rate
}

// UntaxedCost returns quantity times unit price, in cents
func (i *Item) UntaxedCost() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice).RoundBank(centPlaces)
}

// TaxAmount returns the sales tax owed on the item, rounded up to DefaultStep
func (i *Item) TaxAmount() decimal.Decimal {
	raw := i.UntaxedCost().Mul(i.TaxRate()).RoundBank(centPlaces)
	return RoundUp(raw, DefaultStep)
}

// Price returns the tax-inclusive cost of the line
func (i *Item) Price() decimal.Decimal {
	return i.UntaxedCost().Add(i.TaxAmount())
}

// String renders the receipt line, e.g. "1 book: 12.49"
func (i *Item) String() string {
	quantity := i.quantityText
	if quantity == "" {
		quantity = i.Quantity.String()
	}
	return fmt.Sprintf("%s %s: %s", quantity, i.Name, i.Price().StringFixed(centPlaces))
}
