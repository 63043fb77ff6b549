package flow

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mfujita/budgetflow/pkg/cache"
	"github.com/mfujita/budgetflow/pkg/dataset"
	"github.com/mfujita/budgetflow/pkg/errors"
)

// DefaultCacheTTL bounds how long a generated graph may be served from the
// result cache. The dataset changes at most once a day in practice.
const DefaultCacheTTL = 15 * time.Minute

// Engine turns view parameters into rendered flow graphs. It is safe for
// concurrent use; the dataset snapshot is immutable and the cache backends
// synchronize internally.
type Engine struct {
	loader *dataset.Loader
	cache  cache.Cache
	ttl    time.Duration
	log    *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache sets the result cache backend.
func WithCache(c cache.Cache) Option {
	return func(e *Engine) { e.cache = c }
}

// WithCacheTTL sets how long generated graphs stay cached.
func WithCacheTTL(ttl time.Duration) Option {
	return func(e *Engine) { e.ttl = ttl }
}

// WithLogger sets the engine logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine creates an engine over the given dataset loader. Without
// options it caches nothing and logs through the default logger.
func NewEngine(loader *dataset.Loader, opts ...Option) *Engine {
	e := &Engine{
		loader: loader,
		cache:  cache.NewNullCache(),
		ttl:    DefaultCacheTTL,
		log:    log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Generate builds the flow graph for the given parameters. The returned
// bool reports whether the graph came from the result cache.
//
// Parameters are canonicalized before validation and cache lookup, so an
// omitted limit and its explicit default are the same request. Cache
// failures degrade to regeneration and are logged, never surfaced.
func (e *Engine) Generate(ctx context.Context, p Params) (*Graph, bool, error) {
	p = p.Canonical()
	if err := p.Validate(); err != nil {
		return nil, false, err
	}

	key := p.CacheKey()
	if data, ok, err := e.cache.Get(ctx, key); err != nil {
		e.log.Warn("result cache read failed", "err", err)
	} else if ok {
		if g, err := Unmarshal(data); err == nil {
			return g, true, nil
		}
		e.log.Warn("discarding undecodable cache entry", "key", key)
	}

	snap, err := e.loader.Load(ctx)
	if err != nil {
		return nil, false, err
	}

	start := time.Now()
	g, err := build(snap, p)
	if err != nil {
		return nil, false, err
	}
	Filter(g)

	// GeneratedAt tracks the dataset, not the wall clock: equal parameters
	// against an unchanged dataset must serialize byte-identically.
	g.Meta.GeneratedAt = snap.Data.GeneratedAt
	g.Meta.FiscalYear = snap.Data.FiscalYear

	e.log.Debug("generated flow graph",
		"mode", p.Mode, "target", p.Target,
		"nodes", len(g.Nodes), "edges", len(g.Edges),
		"took", time.Since(start))

	data, err := g.Marshal()
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize graph")
	}
	if err := e.cache.Set(ctx, key, data, e.ttl); err != nil {
		e.log.Warn("result cache write failed", "err", err)
	}
	return g, false, nil
}

// build dispatches to the per-mode builder. Parameters must already be
// canonical and validated.
func build(snap *dataset.Snapshot, p Params) (*Graph, error) {
	b := newBuilder(snap, p)
	var err error
	switch p.Mode {
	case ModeGlobal:
		err = b.buildGlobal()
	case ModeMinistry:
		err = b.buildMinistry()
	case ModeProject:
		err = b.buildProject()
	case ModeRecipient:
		err = b.buildRecipient()
	default:
		err = errors.New(errors.ErrCodeInvalidMode, "unknown view mode %q", p.Mode)
	}
	if err != nil {
		return nil, err
	}
	return b.g, nil
}
