package logos

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"aurum/pkg/errors"
)

// allowedExtensions is the image-extension allowlist for stored logos
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".svg":  true,
	".webp": true,
	".gif":  true,
}

// Store persists downloaded logo images under a deterministic key:
// lowercased symbol plus the source file's extension.
type Store struct {
	dir string
}

// NewStore creates a logo store rooted at dir, creating it if needed
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create logo dir %s", dir)
	}
	return &Store{dir: dir}, nil
}

// Save writes image bytes for a symbol and returns the stored filename.
// The extension is derived from the source URL and must be on the
// image allowlist.
func (s *Store) Save(symbol, sourceURL string, data []byte) (string, error) {
	ext := extensionFromURL(sourceURL)
	if !allowedExtensions[ext] {
		return "", errors.Wrapf(errors.ErrInvalidInput, "unsupported logo extension %q", ext)
	}

	name := strings.ToLower(symbol) + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", errors.Wrapf(err, "write logo %s", name)
	}

	return name, nil
}

// Lookup returns the stored filename for a symbol, trying each allowed
// extension. The second return is false when no logo is stored.
func (s *Store) Lookup(symbol string) (string, bool) {
	base := strings.ToLower(symbol)
	for ext := range allowedExtensions {
		name := base + ext
		if _, err := os.Stat(filepath.Join(s.dir, name)); err == nil {
			return name, true
		}
	}
	return "", false
}

// Path resolves a stored filename to its absolute location, refusing
// names outside the store or off the extension allowlist.
func (s *Store) Path(name string) (string, error) {
	if name != filepath.Base(name) || !allowedExtensions[filepath.Ext(name)] {
		return "", errors.Wrapf(errors.ErrInvalidInput, "invalid logo name %q", name)
	}
	return filepath.Join(s.dir, name), nil
}

func extensionFromURL(sourceURL string) string {
	// Strip query/fragment before taking the extension
	trimmed := sourceURL
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	return strings.ToLower(path.Ext(trimmed))
}
