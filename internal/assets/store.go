// Package assets extracts embedded images from a DOCX container and writes
// them to an external asset store.
package assets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store persists raw asset bytes under a generated key. Implementations are
// expected to be safe for sequential use within one analysis invocation;
// failures are non-fatal to analysis and are handled per asset.
type Store interface {
	// Put writes data and returns the storage key it was written under.
	Put(ctx context.Context, data []byte, ext string) (string, error)
}

// FSStore is a filesystem-backed asset store.
type FSStore struct {
	dir string
}

// NewFSStore creates a store rooted at dir, creating it if needed.
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create asset directory: %w", err)
	}
	return &FSStore{dir: dir}, nil
}

// Put writes data under a time-derived key and returns the key.
func (s *FSStore) Put(_ context.Context, data []byte, ext string) (string, error) {
	key := NewKey(ext)
	if err := os.WriteFile(filepath.Join(s.dir, key), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write asset %s: %w", key, err)
	}
	return key, nil
}

// NewKey derives a storage key from the current time and the original file
// extension. A short random suffix keeps same-instant keys distinct.
func NewKey(ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("%d-%s.%s", time.Now().UnixNano(), uuid.NewString()[:8], ext)
}
