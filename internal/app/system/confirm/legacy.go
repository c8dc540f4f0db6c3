// internal/app/system/confirm/legacy.go
package confirm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dalemusser/ministryhub/internal/app/store/remote"
	"go.uber.org/zap"
)

// LegacyStore keeps confirmations in a single local JSON blob mapping
// composite key to boolean. Every toggle reads the whole blob, flips
// one entry, and writes the whole blob back, then broadcasts an
// in-process change signal so other components react without a fresh
// read. Other devices and sessions never see this data.
type LegacyStore struct {
	path string
	log  *zap.Logger

	mu        sync.Mutex
	listeners map[int]func()
	nextID    int
}

// NewLegacy creates a legacy store backed by the blob at path. The file
// is created on first write.
func NewLegacy(path string, logger *zap.Logger) *LegacyStore {
	return &LegacyStore{path: path, log: logger, listeners: make(map[int]func())}
}

func (s *LegacyStore) Toggle(ctx context.Context, eventID, userID string) (bool, error) {
	s.mu.Lock()
	blob, err := s.load()
	if err != nil {
		s.mu.Unlock()
		return false, err
	}

	key := Key(eventID, userID)
	next := !blob[key]
	blob[key] = next

	if err := s.save(blob); err != nil {
		s.mu.Unlock()
		return false, err
	}

	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return next, nil
}

func (s *LegacyStore) Read(ctx context.Context, eventID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := s.load()
	if err != nil {
		return false, err
	}
	return blob[Key(eventID, userID)], nil
}

// OnChange registers a same-process listener fired after every toggle.
func (s *LegacyStore) OnChange(fn func()) remote.CancelFunc {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Entries returns a copy of the whole blob, for migration to the
// shared path.
func (s *LegacyStore) Entries() (map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// load reads the blob; a missing file is an empty blob. Caller holds
// the lock.
func (s *LegacyStore) load() (map[string]bool, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]bool{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read confirmation blob: %w", err)
	}

	blob := map[string]bool{}
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("decode confirmation blob: %w", err)
	}
	return blob, nil
}

// save replaces the blob wholesale. Caller holds the lock.
func (s *LegacyStore) save(blob map[string]bool) error {
	data, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("encode confirmation blob: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create blob dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write confirmation blob: %w", err)
	}
	return nil
}
