package shopping

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrEmptyList is returned by Export when there is nothing to write.
var ErrEmptyList = errors.New("shopping list is empty")

// Export renders the list and writes it to dir/name, creating or truncating
// the file, and returns the path written.
//
// An empty list is not written and yields ErrEmptyList. The directory must
// already exist. Concurrent exports to the same path are not synchronized.
func (l *ShoppingList) Export(dir, name string, format Format) (string, error) {
	if l.IsEmpty() {
		return "", ErrEmptyList
	}
	if name == "" {
		return "", errors.New("report file name is empty")
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file %s: %w", path, err)
	}

	if _, err := f.WriteString(l.Render(format)); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write report file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close report file %s: %w", path, err)
	}
	return path, nil
}
