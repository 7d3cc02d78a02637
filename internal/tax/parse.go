package tax

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// connective separates the item name from its price
const connective = "at"

// Match holds the raw parts of a purchase line before numeric validation
type Match struct {
	Quantity   string
	Name       string
	Connective string
	Price      string
}

// MatchLine splits line into "<quantity> <name...> at <price>".
// Numbers are not validated here, so "-1 thing at -2.00" matches.
func MatchLine(line string) (Match, error) {
	if strings.TrimSpace(line) == "" {
		return Match{}, &MalformedInputError{Line: line, Reason: "empty line"}
	}

	tokens := strings.Fields(line)
	// quantity, at least one name token, "at", price
	if len(tokens) < 4 {
		return Match{}, &MalformedInputError{Line: line, Reason: "too few tokens"}
	}
	if tokens[len(tokens)-2] != connective {
		return Match{}, &MalformedInputError{Line: line, Reason: "missing 'at' before the price"}
	}

	// the name keeps its inner whitespace as written
	trimmed := strings.TrimSpace(line)
	nameStart := strings.IndexFunc(trimmed, unicode.IsSpace)
	priceStart := strings.LastIndexFunc(trimmed, unicode.IsSpace) + 1
	head := strings.TrimRightFunc(trimmed[:priceStart], unicode.IsSpace)
	name := strings.TrimSpace(head[nameStart : len(head)-len(connective)])

	return Match{
		Quantity:   tokens[0],
		Name:       name,
		Connective: connective,
		Price:      tokens[len(tokens)-1],
	}, nil
}

// ParseLine parses one purchase line into an Item, classifying it from the
// full line text.
func ParseLine(line string) (*Item, error) {
	m, err := MatchLine(line)
	if err != nil {
		return nil, err
	}

	quantity, err := decimal.NewFromString(m.Quantity)
	if err != nil {
		return nil, &MalformedInputError{Line: line, Reason: "quantity is not a number"}
	}
	price, err := decimal.NewFromString(m.Price)
	if err != nil {
		return nil, &MalformedInputError{Line: line, Reason: "price is not a number"}
	}

	item, err := NewItem(quantity, m.Name, price, IsImported(line), IsTaxExempt(line))
	if err != nil {
		return nil, err
	}
	item.quantityText = m.Quantity
	return item, nil
}
