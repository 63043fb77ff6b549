// Package dataset defines the immutable budget-execution snapshot the flow
// engine reads, plus the sources that load it.
//
// A snapshot holds three structures: a flat project list, a flat recipient
// list, and the ministry hierarchy with precomputed budget totals. Sources
// produce one; the Loader memoizes it for the life of the process.
//
// Two source backends exist, mirroring the artifacts the upstream ingestion
// pipeline produces:
//   - JSONSource: a single JSON snapshot file
//   - SQLiteSource: the SQLite database built from the raw CSVs
//
// # Usage
//
//	src, _ := dataset.NewJSONSource("snapshot.json")
//	loader := dataset.NewLoader(src)
//	snap, err := loader.Load(ctx)    // loads once, memoized
//	loader.Clear()                   // test hook: force reload
package dataset

import (
	"context"
	"sync"
)

// Source loads a dataset snapshot from some backing store.
// Implementations are expected to be cheap to construct and to do all real
// work inside Load.
type Source interface {
	// Load reads and decodes the full snapshot.
	Load(ctx context.Context) (*Dataset, error)
}

// Snapshot bundles a loaded dataset with its lookup index.
type Snapshot struct {
	Data  *Dataset
	Index *Index
}

// Loader memoizes a Source. The first Load wins; subsequent calls return the
// same snapshot until Clear. This replaces the ambient module-level dataset
// global of older designs with explicitly injected, documented state.
type Loader struct {
	src Source

	mu   sync.Mutex
	snap *Snapshot
	err  error
	done bool
}

// NewLoader wraps a source with memoization.
func NewLoader(src Source) *Loader {
	return &Loader{src: src}
}

// Load returns the memoized snapshot, loading it on first use.
// A failed load is memoized too: the dataset is static, so retrying the
// same broken file on every request would only hide the problem.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.done {
		return l.snap, l.err
	}

	data, err := l.src.Load(ctx)
	if err != nil {
		l.err = err
		l.done = true
		return nil, err
	}

	l.snap = &Snapshot{Data: data, Index: BuildIndex(data)}
	l.done = true
	return l.snap, nil
}

// Clear drops the memoized snapshot so the next Load hits the source again.
// Intended for tests and for explicit invalidation on dataset swap.
func (l *Loader) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snap = nil
	l.err = nil
	l.done = false
}

// StaticSource wraps an already-built dataset. Used by tests and by callers
// that assemble snapshots in memory.
type StaticSource struct {
	Data *Dataset
}

// Load returns the wrapped dataset unchanged.
func (s *StaticSource) Load(ctx context.Context) (*Dataset, error) {
	return s.Data, nil
}
