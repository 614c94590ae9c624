package storage

import (
	"context"

	"github.com/jiyun-park/fanchannel-service/internal/domain"
)

// Store is the contract every snapshot backend implements.
//
// Load returns the last durably saved snapshot. A backend that finds no
// saved data, or data it cannot parse, constructs the default snapshot,
// persists it and returns that — corruption is recovered by
// reinitialization, never surfaced to the caller as a hard failure.
//
// Save durably overwrites the entire snapshot. There is no partial or
// batched write: every mutation elsewhere in the system is immediately
// followed by a Save of the whole state.
type Store interface {
	Load(ctx context.Context) (*domain.Snapshot, error)
	Save(ctx context.Context, snap *domain.Snapshot) error
}
