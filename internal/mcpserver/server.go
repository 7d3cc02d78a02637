// Package mcpserver exposes receipt rendering as Model Context Protocol tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/zombor/sales-tax/internal/receipt"
	"github.com/zombor/sales-tax/internal/tax"
)

// ItemQuote is the price_item tool result
type ItemQuote struct {
	Quantity  string `json:"quantity"`
	Name      string `json:"name"`
	Imported  bool   `json:"imported"`
	TaxExempt bool   `json:"tax_exempt"`
	TaxRate   string `json:"tax_rate"`
	Tax       string `json:"tax"`
	Price     string `json:"price"`
	Line      string `json:"line"`
}

// New creates an MCP server with the receipt tools registered
func New(service *receipt.Service, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"salestax-mcp",
		version,
		server.WithToolCapabilities(true),
		server.WithLogging(),
		server.WithRecovery(),
	)

	h := &handlers{service: service}

	s.AddTool(mcp.NewTool("render_receipt",
		mcp.WithDescription("Render the receipt for one shopping cart. Each line is '<quantity> <name> at <price>'."),
		mcp.WithString("cart",
			mcp.Required(),
			mcp.Description("Cart text, one purchase per line"),
		),
	), h.renderReceipt)

	s.AddTool(mcp.NewTool("render_batch",
		mcp.WithDescription("Render every cart of a batch. Carts are separated by blank lines or 'Input' headers."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Batch text containing one or more carts"),
		),
	), h.renderBatch)

	s.AddTool(mcp.NewTool("price_item",
		mcp.WithDescription("Parse a single purchase line and show its tax rate, tax and tax-inclusive price"),
		mcp.WithString("line",
			mcp.Required(),
			mcp.Description("Purchase line, e.g. '1 imported bottle of perfume at 27.99'"),
		),
	), h.priceItem)

	return s
}

type handlers struct {
	service *receipt.Service
}

// stringArg returns a required string argument of a tool call
func stringArg(request mcp.CallToolRequest, name string) (string, error) {
	value, ok := request.GetArguments()[name].(string)
	if !ok {
		return "", fmt.Errorf("%s is required", name)
	}
	return value, nil
}

func (h *handlers) renderReceipt(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cart, err := stringArg(request, "cart")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rendered, err := h.service.RenderCart(cart)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error rendering receipt: %v", err)), nil
	}
	return mcp.NewToolResultText(rendered.Text), nil
}

func (h *handlers) renderBatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := stringArg(request, "text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := h.service.RenderBatch(text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error rendering batch: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (h *handlers) priceItem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	line, err := stringArg(request, "line")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	item, err := tax.ParseLine(line)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error parsing line: %v", err)), nil
	}

	quote := ItemQuote{
		Quantity:  item.Quantity.String(),
		Name:      item.Name,
		Imported:  item.Imported,
		TaxExempt: item.TaxExempt,
		TaxRate:   item.TaxRate().StringFixed(2),
		Tax:       item.TaxAmount().StringFixed(2),
		Price:     item.Price().StringFixed(2),
		Line:      item.String(),
	}

	data, err := json.MarshalIndent(quote, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling quote: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
