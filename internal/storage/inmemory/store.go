package inmemory

import (
	"context"
	"sync"

	"github.com/jiyun-park/fanchannel-service/internal/domain"
)

// Store keeps the snapshot in memory. Used by tests and as the demo
// backend; contents vanish with the process.
type Store struct {
	mu   sync.RWMutex
	snap *domain.Snapshot
}

// New creates an in-memory store initialized with the default snapshot.
func New() *Store {
	return &Store{snap: domain.DefaultSnapshot()}
}

// Load returns a deep copy of the current snapshot so callers cannot
// mutate the stored state without going through Save.
func (s *Store) Load(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone(), nil
}

// Save replaces the stored snapshot with a deep copy of snap.
func (s *Store) Save(ctx context.Context, snap *domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap.Clone()
	return nil
}
