package memory

import (
	"context"
	"sort"
	"sync"

	"rfa-explorer/internal/domain"
	"rfa-explorer/internal/storage"
)

// PriceSnapshotStore is an in-memory implementation of storage.PriceSnapshotStore.
type PriceSnapshotStore struct {
	mu       sync.RWMutex
	snapshot *domain.PriceSnapshot
}

// NewPriceSnapshotStore creates an empty snapshot store.
func NewPriceSnapshotStore() *PriceSnapshotStore {
	return &PriceSnapshotStore{}
}

// Replace swaps in a new snapshot. No ordering check is made against the
// previous one: whichever refresh finishes last wins.
func (s *PriceSnapshotStore) Replace(_ context.Context, snap *domain.PriceSnapshot) error {
	if snap == nil {
		return storage.ErrInvalidInput
	}

	snapCopy := copySnapshot(snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapCopy
	return nil
}

// Latest returns a copy of the current snapshot, with every history series
// ordered by timestamp ASC.
func (s *PriceSnapshotStore) Latest(_ context.Context) (*domain.PriceSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return nil, storage.ErrNotFound
	}
	return copySnapshot(s.snapshot), nil
}

// copySnapshot deep-copies a snapshot so callers never share maps or slices.
func copySnapshot(src *domain.PriceSnapshot) *domain.PriceSnapshot {
	dst := &domain.PriceSnapshot{
		Current:   make(map[string]float64, len(src.Current)),
		History:   make(map[string][]domain.PricePoint, len(src.History)),
		FetchedAt: src.FetchedAt,
	}
	for k, v := range src.Current {
		dst.Current[k] = v
	}
	for k, points := range src.History {
		pointsCopy := make([]domain.PricePoint, len(points))
		copy(pointsCopy, points)
		sort.SliceStable(pointsCopy, func(i, j int) bool {
			return pointsCopy[i].Timestamp < pointsCopy[j].Timestamp
		})
		dst.History[k] = pointsCopy
	}
	return dst
}

var _ storage.PriceSnapshotStore = (*PriceSnapshotStore)(nil)
