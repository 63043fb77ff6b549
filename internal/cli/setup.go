package cli

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/mfujita/budgetflow/pkg/cache"
	"github.com/mfujita/budgetflow/pkg/config"
	"github.com/mfujita/budgetflow/pkg/dataset"
	"github.com/mfujita/budgetflow/pkg/errors"
	"github.com/mfujita/budgetflow/pkg/flow"
)

// openSource selects the dataset source for the configured driver.
func openSource(cfg config.DatasetConfig) (dataset.Source, error) {
	switch cfg.Driver {
	case config.DriverJSON:
		return dataset.NewJSONSource(cfg.Path), nil
	case config.DriverSQLite:
		return dataset.NewSQLiteSource(cfg.Path), nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown dataset driver %q", cfg.Driver)
	}
}

// openCache creates the configured result-cache backend. An unreachable
// redis degrades to the in-process cache with a warning; caching is an
// optimization, never a reason to refuse to start.
func openCache(ctx context.Context, cfg config.CacheConfig, logger *log.Logger) cache.Cache {
	switch cfg.Backend {
	case config.CacheRedis:
		c, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			logger.Warn("redis unavailable, using in-process cache", "addr", cfg.Redis.Addr, "err", err)
			return cache.NewMemoryCache(cfg.Capacity)
		}
		return c
	case config.CacheNone:
		return cache.NewNullCache()
	default:
		return cache.NewMemoryCache(cfg.Capacity)
	}
}

// buildEngine assembles the flow engine from the configuration. The caller
// owns the returned cache and must Close it.
func buildEngine(ctx context.Context, cfg config.Config, logger *log.Logger) (*flow.Engine, cache.Cache, error) {
	src, err := openSource(cfg.Dataset)
	if err != nil {
		return nil, nil, err
	}
	c := openCache(ctx, cfg.Cache, logger)
	engine := flow.NewEngine(dataset.NewLoader(src),
		flow.WithCache(c),
		flow.WithCacheTTL(cfg.Cache.TTL.Std()),
		flow.WithLogger(logger),
	)
	return engine, c, nil
}

// applyLimits fills unset view parameters from the configured defaults.
func applyLimits(p flow.Params, l config.LimitsConfig) flow.Params {
	if p.MinistryLimit <= 0 {
		p.MinistryLimit = l.Ministry
	}
	if p.ProjectLimit <= 0 {
		p.ProjectLimit = l.Project
	}
	if p.RecipientLimit <= 0 {
		p.RecipientLimit = l.Recipient
	}
	if p.SubRecipientLimit <= 0 {
		p.SubRecipientLimit = l.SubRecipient
	}
	return p
}
