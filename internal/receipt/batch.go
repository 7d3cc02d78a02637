package receipt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// inputMarker starts a header line such as "Input 1:" that separates carts
const inputMarker = "input"

// isCartBoundary reports whether line ends the current cart
func isCartBoundary(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(strings.ToLower(trimmed), inputMarker)
}

// SplitCarts reads r line by line and groups purchase lines into carts.
// Blank lines and "Input" headers close a cart; empty carts are dropped.
func SplitCarts(r io.Reader) ([][]string, error) {
	var (
		carts   [][]string
		current []string
	)

	// purchase lines have no length limit
	reader := bufio.NewReader(r)
	for {
		raw, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading carts: %w", err)
		}
		if raw == "" && err != nil {
			break
		}

		line := strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r")
		if isCartBoundary(line) {
			if len(current) > 0 {
				carts = append(carts, current)
				current = nil
			}
		} else {
			current = append(current, line)
		}

		if err != nil {
			break
		}
	}
	if len(current) > 0 {
		carts = append(carts, current)
	}

	return carts, nil
}

// RenderCarts renders every cart in r, each prefixed with "Output <n>:"
func RenderCarts(r io.Reader) (string, error) {
	carts, err := SplitCarts(r)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i, lines := range carts {
		receipt, err := RenderCart(lines)
		if err != nil {
			return "", fmt.Errorf("rendering cart %d: %w", i+1, err)
		}
		fmt.Fprintf(&b, "Output %d:\n", i+1)
		b.WriteString(receipt)
	}
	return b.String(), nil
}
