package receipt

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrSourceNotFound matches any *SourceNotFoundError
var ErrSourceNotFound = errors.New("source not found")

// SourceNotFoundError is returned when a cart source does not exist
type SourceNotFoundError struct {
	Name string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("source not found: %s", e.Name)
}

// Is reports whether target is ErrSourceNotFound
func (e *SourceNotFoundError) Is(target error) bool {
	return target == ErrSourceNotFound
}

// Storage defines the interface for reading cart sources and writing receipts
type Storage interface {
	// Get retrieves a file by path
	Get(path string) ([]byte, error)

	// Save saves a file and returns the path/filename
	Save(filename string, data []byte) (string, error)
}

// LocalStorage implements the Storage interface using local filesystem.
// Relative paths resolve against basePath; absolute paths are used as is.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new LocalStorage instance. An empty basePath
// means the working directory.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if basePath != "" {
		if err := os.MkdirAll(basePath, 0755); err != nil {
			return nil, fmt.Errorf("creating storage directory: %w", err)
		}
	}

	return &LocalStorage{
		basePath: basePath,
	}, nil
}

func (l *LocalStorage) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.basePath, path)
}

// Get retrieves a file from local storage
func (l *LocalStorage) Get(path string) ([]byte, error) {
	data, err := os.ReadFile(l.resolve(path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &SourceNotFoundError{Name: path}
	}
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}

// Save saves a file to local storage
func (l *LocalStorage) Save(filename string, data []byte) (string, error) {
	if err := os.WriteFile(l.resolve(filename), data, 0644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	return filename, nil
}
