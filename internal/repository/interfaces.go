package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/tempo/internal/store"
)

// SnapshotRepo persists whole-store snapshots. It is explicit save/load
// storage; nothing is written between saves.
type SnapshotRepo interface {
	// Save replaces every stored row with the contents of snap.
	Save(ctx context.Context, snap *store.Snapshot, savedAt time.Time) error
	// Load reads the last saved snapshot. An empty database yields an empty
	// snapshot and a zero time.
	Load(ctx context.Context) (*store.Snapshot, time.Time, error)
}
