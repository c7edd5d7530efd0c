// Package explorer composes the allocation pipeline into the views served
// over HTTP and rendered into reports.
// Flow: source → normalize → rank → (filter, aggregate, premiums)
package explorer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"rfa-explorer/internal/domain"
	"rfa-explorer/internal/normalization"
	"rfa-explorer/internal/observability"
	"rfa-explorer/internal/ranking"
	"rfa-explorer/internal/source"
	"rfa-explorer/internal/storage"
)

// PriceClient fetches token prices keyed by lower-case address.
type PriceClient interface {
	CurrentPrices(ctx context.Context) (map[string]float64, error)
	HistoricalPrices(ctx context.Context, addresses []string) (map[string][]domain.PricePoint, error)
}

// Service builds read-only views over the allocation dataset.
type Service struct {
	source    source.AllocationSource
	prices    PriceClient
	snapshots storage.PriceSnapshotStore
	tokens    []domain.Token
	logger    logrus.FieldLogger
	now       func() time.Time

	listenersMu sync.RWMutex
	listeners   []func(*domain.PriceSnapshot)

	refreshOK     atomic.Int64
	refreshFailed atomic.Int64
	lastRefresh   atomic.Int64 // Unix seconds of the last successful refresh
}

// Options for creating a Service.
type Options struct {
	Source    source.AllocationSource
	Prices    PriceClient // nil disables price refresh
	Snapshots storage.PriceSnapshotStore
	Tokens    []domain.Token // defaults to domain.TrackedTokens()
	Logger    logrus.FieldLogger
	Now       func() time.Time // defaults to time.Now
}

// New creates a Service.
func New(opts Options) *Service {
	s := &Service{
		source:    opts.Source,
		prices:    opts.Prices,
		snapshots: opts.Snapshots,
		tokens:    opts.Tokens,
		logger:    opts.Logger,
		now:       opts.Now,
	}
	if s.tokens == nil {
		s.tokens = domain.TrackedTokens()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = logrus.StandardLogger()
	}
	s.logger = s.logger.WithField("component", "explorer")
	return s
}

// SourceKind names the configured allocation source.
func (s *Service) SourceKind() string {
	if s.source == nil {
		return "none"
	}
	return s.source.Kind()
}

// Tokens returns the tracked token registry.
func (s *Service) Tokens() []domain.Token {
	return s.tokens
}

// Projects loads and normalizes the dataset in default display order
// (amount descending, unconfirmed last). Load failures yield an empty list.
func (s *Service) Projects(ctx context.Context) []domain.Project {
	return ranking.Default(s.loadProjects(ctx))
}

func (s *Service) loadProjects(ctx context.Context) []domain.Project {
	if s.source == nil {
		return []domain.Project{}
	}

	records, err := s.source.Load(ctx)
	if err != nil {
		s.logger.WithError(err).WithField("source", s.source.Kind()).
			Error("Failed to load allocations, serving empty list")
		return []domain.Project{}
	}

	projects, stats := normalization.NormalizeAll(records)
	if stats.Dropped() > 0 {
		s.logger.WithFields(logrus.Fields{
			"input":      stats.Input,
			"empty_name": stats.EmptyName,
			"duplicates": stats.Duplicates,
		}).Warn("Dropped malformed allocation rows")
		observability.RecordRowsDropped("empty_name", stats.EmptyName)
		observability.RecordRowsDropped("duplicate", stats.Duplicates)
	}

	known := 0
	for _, p := range projects {
		if p.Known() {
			known++
		}
	}
	observability.UpdateProjectCounts(known, len(projects)-known)

	return projects
}

// Snapshot returns the latest price snapshot, or nil before the first
// successful refresh.
func (s *Service) Snapshot(ctx context.Context) *domain.PriceSnapshot {
	if s.snapshots == nil {
		return nil
	}
	snap, err := s.snapshots.Latest(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.WithError(err).Warn("Failed to read price snapshot")
		}
		return nil
	}
	return snap
}

// BeraPrice returns the current baseline price, or 0 when unknown.
func (s *Service) BeraPrice(ctx context.Context) float64 {
	return s.Snapshot(ctx).Price(domain.BaselineKey)
}

// OnRefresh registers fn to be called with every new snapshot.
func (s *Service) OnRefresh(fn func(*domain.PriceSnapshot)) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Service) notify(snap *domain.PriceSnapshot) {
	s.listenersMu.RLock()
	listeners := make([]func(*domain.PriceSnapshot), len(s.listeners))
	copy(listeners, s.listeners)
	s.listenersMu.RUnlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

// Status is a point-in-time summary of the service for the status endpoint.
type Status struct {
	Source          string `json:"source"`
	RefreshOK       int64  `json:"refreshOk"`
	RefreshFailed   int64  `json:"refreshFailed"`
	LastRefreshUnix int64  `json:"lastRefresh"`
	HasPrices       bool   `json:"hasPrices"`
}

// Status returns refresh counters.
func (s *Service) Status(ctx context.Context) Status {
	return Status{
		Source:          s.SourceKind(),
		RefreshOK:       s.refreshOK.Load(),
		RefreshFailed:   s.refreshFailed.Load(),
		LastRefreshUnix: s.lastRefresh.Load(),
		HasPrices:       s.Snapshot(ctx) != nil,
	}
}
