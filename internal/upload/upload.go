package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Only image types the storefront can render are accepted. Everything else
// is treated as "no image supplied", not as an error.
var allowedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
}

// Saver persists uploaded images under dir and hands back their public URL.
type Saver struct {
	dir       string
	publicURL string
}

func NewSaver(dir, publicURL string) *Saver {
	return &Saver{dir: dir, publicURL: strings.TrimRight(publicURL, "/")}
}

// Allowed reports whether the client filename carries an accepted image
// extension. The check is case-insensitive and ignores any path component.
func Allowed(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	_, ok := allowedExtensions[ext]
	return ok
}

// Save stores r under a fresh UUID-based name and returns the public URL.
// Disallowed or extension-less filenames return ("", nil) so the caller can
// treat the upload as absent. Only the extension of the client name is kept.
func (s *Saver) Save(filename string, r io.Reader) (string, error) {
	if !Allowed(filename) {
		return "", nil
	}
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	name := uuid.New().String() + ext

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir %s: %w", s.dir, err)
	}

	path := filepath.Join(s.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close %s: %w", path, err)
	}

	return s.publicURL + "/" + name, nil
}
