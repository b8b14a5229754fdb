// Package cas persists a ledger of target mtimes to a flat JSON file,
// keyed by target name. It is an optional plugin point, not a built-in
// engine feature: wiring it is the rule author's choice, via
// tdb.Config.Oracle (Store.Mtime) and/or a rule's Transform
// (Store.Transformer) to record what was observed.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/zerr"
)

// Store implements tdb.MtimeFunc on top of a JSON-backed ledger keyed by
// target name.
type Store struct {
	path  string
	mu    sync.RWMutex
	cache map[string]float64
}

// NewStore creates a ledger backed by the file at path, loading any
// existing entries.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:  filepath.Clean(path),
		cache: make(map[string]float64),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "failed to read mtime ledger")
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &s.cache); err != nil {
		return zerr.Wrap(err, "failed to unmarshal mtime ledger")
	}
	return nil
}

func (s *Store) save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.cache, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return zerr.Wrap(err, "failed to marshal mtime ledger")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create directory for mtime ledger")
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return zerr.Wrap(err, "failed to write mtime ledger")
	}
	return nil
}

// Get returns the recorded mtime for name, if any.
func (s *Store) Get(name string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.cache[name]
	return v, ok
}

// Put records mtime for name and persists the ledger.
func (s *Store) Put(name string, mtime float64) error {
	s.mu.Lock()
	s.cache[name] = mtime
	s.mu.Unlock()
	return s.save()
}
