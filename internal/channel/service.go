package channel

import (
	"context"
	"sync"
	"time"

	"github.com/jiyun-park/fanchannel-service/internal/chathub"
	"github.com/jiyun-park/fanchannel-service/internal/domain"
	"github.com/jiyun-park/fanchannel-service/internal/storage"
)

// Service implements the channel operations: admin auth, the two feeds,
// the chat log, theme and profile. Every mutation is a full
// load-modify-save cycle against the snapshot store; the mutex
// serializes operations within this process, but a second process
// writing the same file still wins last-writer-takes-all (accepted for
// the single-admin scale this targets).
type Service struct {
	mu    sync.Mutex
	store storage.Store
	hub   *chathub.Hub
	now   func() time.Time
}

// New creates a service on top of the given store. hub may be nil when
// no live chat subscribers exist (tests, CLI tools).
func New(store storage.Store, hub *chathub.Hub) *Service {
	return &Service{
		store: store,
		hub:   hub,
		now:   time.Now,
	}
}

// mutate runs fn against a freshly loaded snapshot and persists the
// result only if fn succeeds, so a rejected action leaves no partial
// state change.
func (s *Service) mutate(ctx context.Context, fn func(*domain.Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if err := fn(snap); err != nil {
		return err
	}
	return s.store.Save(ctx, snap)
}

// view runs fn against a freshly loaded snapshot without saving.
func (s *Service) view(ctx context.Context, fn func(*domain.Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	return fn(snap)
}
