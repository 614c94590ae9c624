package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jiyun-park/fanchannel-service/internal/domain"
)

// Store persists the snapshot as a single JSON document on disk.
type Store struct {
	path string
}

// New creates a JSON file store writing to path. The file is created on
// first Load or Save.
func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the last saved snapshot. A missing or unparseable file is
// treated as absent: the default snapshot is written and returned.
func (s *Store) Load(ctx context.Context) (*domain.Snapshot, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: read %s: %v", domain.ErrStorage, s.path, err)
		}
		return s.reset(ctx)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		log.Printf("snapshot %s unreadable (%v), reinitializing defaults", s.path, err)
		return s.reset(ctx)
	}
	snap.Normalize()
	return &snap, nil
}

// Save overwrites the snapshot atomically via a temp file and rename, so
// a subsequent Load never observes a partial write.
func (s *Store) Save(ctx context.Context, snap *domain.Snapshot) error {
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: mkdir %s: %v", domain.ErrStorage, dir, err)
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false) // keep URLs and non-ASCII text readable
	enc.SetIndent("", "    ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("%w: encode snapshot: %v", domain.ErrStorage, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrStorage, tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: rename %s: %v", domain.ErrStorage, tmp, err)
	}
	return nil
}

func (s *Store) reset(ctx context.Context) (*domain.Snapshot, error) {
	snap := domain.DefaultSnapshot()
	if err := s.Save(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}
