// Package flow generates budget-execution flow graphs.
//
// The engine is a pure, synchronous transformation from an immutable dataset
// snapshot and a set of view parameters to a small weighted directed graph:
// a handful of columns of typed nodes (ministry budgets, project budgets,
// project spending, recipients, sub-recipients) connected by value-carrying
// edges, plus synthetic "other" nodes aggregating everything below the
// Top-N cutoffs.
//
// # Pipeline
//
// Generation runs in four stages:
//
//  1. Selection: rank each column by monetary total, cut the drilldown
//     window, and compute the residual aggregates per upstream attachment.
//  2. Build: one builder per view mode (global, ministry, project,
//     recipient) emits nodes in column order and edges between adjacent
//     columns.
//  3. Sub-recipients: forwarded money is attached one column deeper,
//     merged per named target and capped like the primary columns.
//  4. Filter: orphan nodes and non-positive edges are discarded.
//
// Results are memoized in a bounded cache keyed by the canonicalized view
// parameters; identical requests return bit-identical graphs.
//
// # Values and placeholders
//
// Every node carries two numbers: Value, the conserved flow weight actually
// rendered (the sum of its rendered inflows), and Display, the true recorded
// amount. Edges that exist only to keep the layout connected (a zero-budget
// project that still spent money, a project that paid no recipient) are
// placeholder edges: their Value is the fixed PlaceholderWeight and their
// Display carries the true amount, which is shown as 0 downstream.
//
// # Usage
//
//	loader := dataset.NewLoader(dataset.NewJSONSource("snapshot.json"))
//	engine := flow.NewEngine(loader, flow.WithCache(cache.NewMemoryCache(0)))
//
//	g, cached, err := engine.Generate(ctx, flow.Params{
//	    Mode:   flow.ModeMinistry,
//	    Target: "Ministry of Education",
//	})
package flow
