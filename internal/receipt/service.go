package receipt

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
)

// receiptSuffix is appended to a source's base name when saving its receipts
const receiptSuffix = ".receipt.txt"

// ErrReceiptCollision matches any *ReceiptCollisionError
var ErrReceiptCollision = errors.New("receipt file already written by another source")

// ReceiptCollisionError is returned when two different sources share a base
// name and would overwrite each other's receipt file
type ReceiptCollisionError struct {
	File     string
	Source   string
	Previous string
}

func (e *ReceiptCollisionError) Error() string {
	return fmt.Sprintf("%s: %s would overwrite receipts of %s", e.File, e.Source, e.Previous)
}

// Is reports whether target is ErrReceiptCollision
func (e *ReceiptCollisionError) Is(target error) bool {
	return target == ErrReceiptCollision
}

// Service renders receipts for cart sources
type Service struct {
	sources Storage
	output  Storage

	mu sync.Mutex
	// saved maps receipt file names to the source that produced them
	saved map[string]string
}

// NewService creates a new Service reading sources from the given storage.
// Saved receipts go to the same storage.
func NewService(sources Storage) *Service {
	return NewServiceWithOutput(sources, sources)
}

// NewServiceWithOutput creates a new Service with a separate storage for
// rendered receipts
func NewServiceWithOutput(sources, output Storage) *Service {
	return &Service{
		sources: sources,
		output:  output,
		saved:   make(map[string]string),
	}
}

// RenderCart renders the receipt for a single cart given as text
func (s *Service) RenderCart(text string) (*Receipt, error) {
	cart, err := ParseCart(text)
	if err != nil {
		return nil, fmt.Errorf("parsing cart: %w", err)
	}

	slog.Debug("Rendered cart", "items", len(cart.Items), "total", formatAmount(cart.Total()))
	return NewReceipt(cart), nil
}

// RenderBatch renders every cart in a batch source text
func (s *Service) RenderBatch(text string) (string, error) {
	return RenderCarts(strings.NewReader(text))
}

// ProcessSource renders the receipts of one source, headed by
// "Receipts from <name>"
func (s *Service) ProcessSource(name string) (string, error) {
	data, err := s.sources.Get(name)
	if err != nil {
		return "", fmt.Errorf("loading source: %w", err)
	}

	receipts, err := RenderCarts(bytes.NewReader(data))
	if err != nil {
		slog.Error("Failed to render source", "source", name, "error", err)
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}

	return fmt.Sprintf("Receipts from %s\n%s", name, receipts), nil
}

// ProcessSources renders every source in order and concatenates the output
func (s *Service) ProcessSources(names []string) (string, error) {
	var b strings.Builder
	for _, name := range names {
		out, err := s.ProcessSource(name)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

// SaveReceipts writes the rendered receipts of source name to the output
// storage and returns where they were saved. Saving a second source with the
// same base name fails with a *ReceiptCollisionError; saving the same source
// again overwrites its receipts.
func (s *Service) SaveReceipts(name, receipts string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	file := base + receiptSuffix
	source := filepath.Clean(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if previous, ok := s.saved[file]; ok && previous != source {
		return "", &ReceiptCollisionError{File: file, Source: name, Previous: previous}
	}

	path, err := s.output.Save(file, []byte(receipts))
	if err != nil {
		return "", fmt.Errorf("saving receipts for %s: %w", name, err)
	}
	s.saved[file] = source

	slog.Info("Saved receipts", "source", name, "path", path)
	return path, nil
}
