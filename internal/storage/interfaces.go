package storage

import (
	"context"

	"rfa-explorer/internal/domain"
)

// AvatarCache is a process-scoped handle → image URL cache.
// Entries are never invalidated within a session.
type AvatarCache interface {
	// Get returns the cached URL for handle. Returns ErrNotFound on a miss.
	Get(ctx context.Context, handle string) (string, error)

	// Set stores the URL for handle. Existing entries are kept as-is.
	Set(ctx context.Context, handle, url string) error

	// Len returns the number of cached handles.
	Len(ctx context.Context) (int, error)
}

// PriceSnapshotStore holds the most recent price refresh result.
// Writers replace the whole snapshot; the last completed write wins.
type PriceSnapshotStore interface {
	// Replace swaps in a new snapshot.
	Replace(ctx context.Context, s *domain.PriceSnapshot) error

	// Latest returns a copy of the current snapshot. Returns ErrNotFound
	// before the first refresh completes.
	Latest(ctx context.Context) (*domain.PriceSnapshot, error)
}
