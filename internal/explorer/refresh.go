package explorer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"rfa-explorer/internal/domain"
	"rfa-explorer/internal/observability"
)

// ErrNoPriceClient is returned by RefreshPrices when running offline.
var ErrNoPriceClient = errors.New("no price client configured")

// RefreshPrices fetches current and historical prices for the tracked tokens
// and replaces the snapshot. A failed current-price fetch leaves the previous
// snapshot in place; a failed history fetch still publishes current prices.
// Concurrent calls are not serialized: the last one to finish wins.
func (s *Service) RefreshPrices(ctx context.Context) error {
	start := time.Now()
	err := s.refresh(ctx)
	finished := s.now()

	if err != nil {
		s.refreshFailed.Add(1)
		observability.RecordRefresh(observability.RefreshError, time.Since(start).Seconds(), 0)
		s.logger.WithError(err).Warn("Price refresh failed")
		return err
	}

	s.refreshOK.Add(1)
	s.lastRefresh.Store(finished.Unix())
	observability.RecordRefresh(observability.RefreshOK, time.Since(start).Seconds(), finished.Unix())
	return nil
}

func (s *Service) refresh(ctx context.Context) error {
	if s.prices == nil {
		return ErrNoPriceClient
	}
	if s.snapshots == nil {
		return fmt.Errorf("no snapshot store configured")
	}

	current, err := s.prices.CurrentPrices(ctx)
	if err != nil {
		return fmt.Errorf("fetch current prices: %w", err)
	}

	addresses := make([]string, len(s.tokens))
	for i, t := range s.tokens {
		addresses[i] = t.Address
	}
	history, err := s.prices.HistoricalPrices(ctx, addresses)
	if err != nil {
		s.logger.WithError(err).Warn("Historical prices unavailable, publishing current prices only")
		history = nil
	}

	snap := &domain.PriceSnapshot{
		Current:   make(map[string]float64, len(s.tokens)),
		History:   make(map[string][]domain.PricePoint, len(s.tokens)),
		FetchedAt: s.now().Unix(),
	}
	for _, t := range s.tokens {
		addr := strings.ToLower(t.Address)
		if p, ok := current[addr]; ok {
			snap.Current[t.Key] = p
			observability.UpdateCurrentPrice(t.Key, p)
		}
		if points, ok := history[addr]; ok {
			snap.History[t.Key] = points
		}
	}

	if err := s.snapshots.Replace(ctx, snap); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"tokens":     len(snap.Current),
		"bera_price": snap.Current[domain.BaselineKey],
	}).Debug("Price snapshot refreshed")

	// Listeners get the stored copy so they observe exactly what readers see.
	if stored, err := s.snapshots.Latest(ctx); err == nil {
		s.notify(stored)
	}
	return nil
}
