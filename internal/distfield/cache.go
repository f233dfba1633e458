package distfield

import (
	"fmt"
	"os"
	"path/filepath"

	"relief/internal/core"
)

// Cache persists distance fields to a directory, keyed by predicate identity.
// A field is recomputed only when the predicate or the grid resolution
// changes; otherwise the stored copy is reused across runs.
type Cache struct {
	dir string
}

// NewCache returns a cache rooted at dir. The directory is created lazily on
// the first save.
func NewCache(dir string) *Cache { return &Cache{dir: dir} }

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".df")
}

// Load reads the field stored under key and validates it against the live
// resolution. A stored field whose resolution disagrees with the current grid
// is rejected so the caller recomputes instead of silently rescaling.
func (c *Cache) Load(key string, w, h int) (*core.DistanceField, error) {
	blob, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil, err
	}
	field, err := Decode(blob)
	if err != nil {
		return nil, err
	}
	if field.W != w || field.H != h {
		return nil, fmt.Errorf("distfield: cached resolution %dx%d does not match grid %dx%d",
			field.W, field.H, w, h)
	}
	return field, nil
}

// Save writes the field under key.
func (c *Cache) Save(key string, f *core.DistanceField) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(c.path(key), Encode(f), 0o644)
}

// Invalidate removes the stored field for key, forcing the next Ensure to
// recompute.
func (c *Cache) Invalidate(key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Ensure returns the cached field for (key, resolution) when valid, otherwise
// computes a fresh one and stores it. A nil cache always computes.
func Ensure(c *Cache, key string, w, h int, free core.FreeFunc) (*core.DistanceField, error) {
	if c != nil && key != "" {
		if field, err := c.Load(key, w, h); err == nil {
			return field, nil
		}
	}
	field := Compute(w, h, free)
	if c != nil && key != "" {
		if err := c.Save(key, field); err != nil {
			return nil, err
		}
	}
	return field, nil
}
