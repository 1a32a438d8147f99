package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// CorruptError marks a collection file that exists but does not hold a valid
// JSON array. The file is left in place for inspection; nothing is rewritten.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("collection file %s is corrupt: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// Collection is a whole-file JSON array store. Every operation loads or
// rewrites the complete file; a single mutex serializes writers so a
// read-modify-write cycle never loses an update.
type Collection[T any] struct {
	path string
	mu   sync.Mutex
}

func NewCollection[T any](path string) *Collection[T] {
	return &Collection[T]{path: path}
}

func (c *Collection[T]) Path() string { return c.path }

// Load returns the full collection. A missing file is an empty collection.
func (c *Collection[T]) Load() ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

// Replace overwrites the collection with items.
func (c *Collection[T]) Replace(items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.replace(items)
}

// Update runs fn on the current contents and persists its result, holding the
// collection lock for the whole cycle. When fn fails nothing is written.
func (c *Collection[T]) Update(fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load()
	if err != nil {
		return err
	}
	next, err := fn(items)
	if err != nil {
		return err
	}
	return c.replace(next)
}

func (c *Collection[T]) load() ([]T, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.path, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &CorruptError{Path: c.path, Err: err}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// replace writes to a temp file in the target directory and renames it over
// the collection, so a crash mid-write never leaves a half-written file.
func (c *Collection[T]) replace(items []T) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", c.path, err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", c.path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", c.path, err)
	}
	return nil
}
