package memory

import (
	"context"
	"errors"
	"testing"

	"rfa-explorer/internal/domain"
	"rfa-explorer/internal/storage"
)

func TestPriceSnapshotStore_EmptyReturnsNotFound(t *testing.T) {
	store := NewPriceSnapshotStore()

	_, err := store.Latest(context.Background())
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPriceSnapshotStore_ReplaceSortsHistory(t *testing.T) {
	store := NewPriceSnapshotStore()
	ctx := context.Background()

	snap := &domain.PriceSnapshot{
		Current: map[string]float64{"bera": 7.5},
		History: map[string][]domain.PricePoint{
			"bera": {
				{Timestamp: 300, Price: 3},
				{Timestamp: 100, Price: 1},
				{Timestamp: 200, Price: 2},
			},
		},
		FetchedAt: 1000,
	}
	if err := store.Replace(ctx, snap); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	got, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if got.Price("bera") != 7.5 {
		t.Errorf("expected bera 7.5, got %f", got.Price("bera"))
	}
	points := got.History["bera"]
	for i := 1; i < len(points); i++ {
		if points[i].Timestamp < points[i-1].Timestamp {
			t.Fatalf("history not sorted: %+v", points)
		}
	}
}

func TestPriceSnapshotStore_LastWriteWins(t *testing.T) {
	store := NewPriceSnapshotStore()
	ctx := context.Background()

	_ = store.Replace(ctx, &domain.PriceSnapshot{Current: map[string]float64{"bera": 2}, FetchedAt: 200})
	// An older refresh finishing later still replaces the newer one.
	_ = store.Replace(ctx, &domain.PriceSnapshot{Current: map[string]float64{"bera": 1}, FetchedAt: 100})

	got, _ := store.Latest(ctx)
	if got.FetchedAt != 100 || got.Price("bera") != 1 {
		t.Errorf("expected last write to win, got %+v", got)
	}
}

func TestPriceSnapshotStore_ReturnsCopies(t *testing.T) {
	store := NewPriceSnapshotStore()
	ctx := context.Background()

	src := &domain.PriceSnapshot{Current: map[string]float64{"bera": 2}}
	_ = store.Replace(ctx, src)
	src.Current["bera"] = 99

	got, _ := store.Latest(ctx)
	got.Current["bera"] = 42

	again, _ := store.Latest(ctx)
	if again.Price("bera") != 2 {
		t.Errorf("store mutated through shared map: got %f", again.Price("bera"))
	}
}

func TestPriceSnapshotStore_NilRejected(t *testing.T) {
	store := NewPriceSnapshotStore()
	if err := store.Replace(context.Background(), nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
