package store

import (
	"os"
	"path/filepath"
	"strings"
)

// Store is the presenter's data directory: per-deck UI state and the ink database.
type Store struct {
	Dir string
}

// DefaultDir resolves the data directory.
// SLIDES_DATA_DIR overrides it (keeps tests away from the real home directory).
func DefaultDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("SLIDES_DATA_DIR")); v != "" {
		return v, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "slides"), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

// DeckKey is the stable identity of a deck file: its cleaned absolute path.
func DeckKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return filepath.Clean(abs)
	}
	return filepath.Clean(path)
}

func writeFileAtomic(path string, b []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
