// Package app wires configuration into concrete components shared by the
// binaries.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"rfa-explorer/internal/berachain"
	"rfa-explorer/internal/config"
	"rfa-explorer/internal/source"
	"rfa-explorer/internal/storage"
	"rfa-explorer/internal/storage/memory"
	pgstore "rfa-explorer/internal/storage/postgres"
	redisstore "rfa-explorer/internal/storage/redis"
)

// NewSource creates the configured allocation source. The returned cleanup
// must be called on shutdown.
func NewSource(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (source.AllocationSource, func(), error) {
	switch strings.ToLower(cfg.Source.Kind) {
	case config.SourcePostgres:
		pool, err := pgstore.NewPool(ctx, cfg.Source.PostgresDSN, pgstore.WithReadOnly(), pgstore.WithMaxConns(4))
		if err != nil {
			return nil, nil, fmt.Errorf("connect allocation database: %w", err)
		}
		logger.WithField("table", cfg.Source.PostgresTable).Info("Reading allocations from Postgres")
		return pgstore.NewAllocationSource(pool, cfg.Source.PostgresTable), pool.Close, nil
	default:
		logger.WithField("path", cfg.Source.CSVPath).Info("Reading allocations from CSV")
		return source.NewFileSource(cfg.Source.CSVPath, logger), func() {}, nil
	}
}

// NewAvatarCache returns a Redis-backed cache when configured, otherwise an
// in-memory one. A Redis connection failure falls back to memory.
func NewAvatarCache(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (storage.AvatarCache, func()) {
	if cfg.Redis.Addr == "" {
		return memory.NewAvatarCache(), func() {}
	}

	client, err := redisstore.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.WithError(err).Warn("Redis unavailable, using in-memory avatar cache")
		return memory.NewAvatarCache(), func() {}
	}

	cache := redisstore.NewAvatarCache(client, cfg.Redis.TTL)
	logger.WithFields(logrus.Fields{
		"addr":    cfg.Redis.Addr,
		"session": cache.Session(),
	}).Info("Using Redis avatar cache")
	return cache, func() { client.Close() }
}

// NewPriceClient creates the Berachain API client from cfg.
func NewPriceClient(cfg *config.Config) *berachain.Client {
	return berachain.NewClient(cfg.Prices.BaseURL,
		berachain.WithTimeout(cfg.Prices.Timeout),
		berachain.WithRetryCount(cfg.Prices.RetryCount),
		berachain.WithRetryWait(cfg.Prices.RetryWait, berachain.DefaultRetryMaxWait),
	)
}
