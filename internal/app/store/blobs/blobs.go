// internal/app/store/blobs/blobs.go
package blobs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store writes uploaded blobs (profile photos) to local disk and hands
// back the URL they are served from.
type Store struct {
	dir       string // filesystem root, e.g. ./uploads/photos
	urlPrefix string // serving prefix, e.g. /files/photos
}

// New creates a blob store rooted at dir, served under urlPrefix.
func New(dir, urlPrefix string) *Store {
	return &Store{dir: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}
}

// Dir returns the filesystem root, for mounting a file server.
func (s *Store) Dir() string { return s.dir }

// Upload writes data at the given relative path and returns its URL.
// Parent directories are created as needed. Paths that escape the
// store root are rejected.
func (s *Store) Upload(path string, data []byte) (string, error) {
	clean := filepath.Clean("/" + path)[1:]
	if clean == "" || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid blob path %q", path)
	}

	full := filepath.Join(s.dir, clean)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create blob dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}
	return s.urlPrefix + "/" + filepath.ToSlash(clean), nil
}
