// ABOUTME: Content-addressed flat-file store with get-or-populate semantics
// ABOUTME: Presence of a file is the cache-hit signal; entries are immutable once written

package cache

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store is a key-value store backed by flat files in a single directory.
// Keys are file names (typically "<id>.<ext>"). A written entry is never
// refreshed or invalidated: reruns must see byte-identical content.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir. The directory must already exist;
// directory bootstrap is an explicit startup step, not a side effect here.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the root directory of the store.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the absolute path an entry with the given name lives at,
// whether or not it exists yet.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Has reports whether an entry exists.
func (s *Store) Has(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// Get returns the contents of an existing entry.
func (s *Store) Get(name string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("reading cache entry %s: %w", name, err)
	}
	return data, nil
}

// Put writes an entry. Overwriting is allowed but callers are expected to
// write each name at most once per key lifetime.
func (s *Store) Put(name string, data []byte) error {
	if err := os.WriteFile(s.Path(name), data, 0o644); err != nil {
		return fmt.Errorf("writing cache entry %s: %w", name, err)
	}
	return nil
}

// GetOrPopulate returns the entry's contents, running populate to produce
// them on a miss. The populated value is persisted before it is returned. A
// populate error leaves no file behind, so the next run retries cleanly.
func (s *Store) GetOrPopulate(name string, populate func() ([]byte, error)) ([]byte, error) {
	if s.Has(name) {
		return s.Get(name)
	}
	data, err := populate()
	if err != nil {
		return nil, err
	}
	if err := s.Put(name, data); err != nil {
		return nil, err
	}
	return data, nil
}
