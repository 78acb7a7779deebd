// Package store defines the snapshot persistence port and its file
// backend. The persisted document is treated as a value: loaded whole,
// saved whole, never mutated in place.
package store

import (
	"context"

	"kakeibo/internal/state"
)

// SnapshotStore is the outbound port for snapshot persistence.
type SnapshotStore interface {
	// Load returns the persisted document. ok is false when no document
	// has been saved yet. Decoding is permissive, so content problems
	// never fail the load.
	Load(ctx context.Context) (snap state.Snapshot, ok bool, err error)

	// Save persists the document, replacing any previous version.
	Save(ctx context.Context, snap state.Snapshot) error
}
