package receipt

// Receipt is the JSON view of a rendered cart
type Receipt struct {
	Lines      []Line `json:"lines"`
	SalesTaxes string `json:"sales_taxes"` // two fraction digits, e.g. "1.50"
	Total      string `json:"total"`
	Text       string `json:"text"` // the plain-text receipt
}

// Line is one item of a Receipt
type Line struct {
	Description string `json:"description"`
	Price       string `json:"price"`
}

// NewReceipt builds the JSON view of cart
func NewReceipt(cart *Cart) *Receipt {
	lines := make([]Line, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, Line{
			Description: item.String(),
			Price:       formatAmount(item.Price()),
		})
	}

	return &Receipt{
		Lines:      lines,
		SalesTaxes: formatAmount(cart.SalesTax()),
		Total:      formatAmount(cart.Total()),
		Text:       cart.Receipt(),
	}
}
