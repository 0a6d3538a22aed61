// Package storage defines the local scene snapshot archive: what the
// authority last confirmed saving, kept client-side so a scene can be
// diffed or restored without a round trip.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested snapshot is missing.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is one archived copy of the scene document.
type Snapshot struct {
	SceneName    string
	SavedAt      time.Time
	DocumentJSON string
}

// SnapshotArchive persists scene snapshots.
type SnapshotArchive interface {
	PutSnapshot(ctx context.Context, snapshot Snapshot) error
	GetLatestSnapshot(ctx context.Context, sceneName string) (Snapshot, error)
}
