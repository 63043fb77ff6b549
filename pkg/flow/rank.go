package flow

import "sort"

// Ranked pairs an item with its ranking amount and 1-based overall rank.
type Ranked[T any] struct {
	Item   T
	Amount float64
	Rank   int
}

// RankBy sorts items strictly descending by amount and assigns ranks.
// The sort is stable: ties keep dataset order, which tests rely on.
func RankBy[T any](items []T, amount func(T) float64) []Ranked[T] {
	ranked := make([]Ranked[T], len(items))
	for i, item := range items {
		ranked[i] = Ranked[T]{Item: item, Amount: amount(item)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Amount > ranked[j].Amount
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// Window is one drilldown page of a ranked list.
//
// For page level k with page size limit:
//   - Prior holds ranks before k*limit: already shown on earlier pages,
//     excluded entirely from both the shown set and the residual so deep
//     pagination never double-counts.
//   - Shown holds ranks in [k*limit, (k+1)*limit).
//   - Residual holds everything at or beyond (k+1)*limit.
type Window[T any] struct {
	Prior    []Ranked[T]
	Shown    []Ranked[T]
	Residual []Ranked[T]

	Level int
	Limit int
}

// Page cuts the drilldown window for the given level and limit.
func Page[T any](ranked []Ranked[T], level, limit int) Window[T] {
	w := Window[T]{Level: level, Limit: limit}

	lo := level * limit
	hi := lo + limit
	if lo > len(ranked) {
		lo = len(ranked)
	}
	if hi > len(ranked) {
		hi = len(ranked)
	}

	w.Prior = ranked[:lo]
	w.Shown = ranked[lo:hi]
	w.Residual = ranked[hi:]
	return w
}

// PriorTotal is the combined amount of all earlier pages, for the collapsed
// "Top-N combined" upstream node.
func (w Window[T]) PriorTotal() float64 { return sumRanked(w.Prior) }

// ShownTotal is the combined amount of the current page.
func (w Window[T]) ShownTotal() float64 { return sumRanked(w.Shown) }

// ResidualTotal is the combined amount of everything below the cutoff.
func (w Window[T]) ResidualTotal() float64 { return sumRanked(w.Residual) }

// CutoffRank is the first rank folded into the residual at the current
// level, used to label residual nodes ("rank 11 and beyond").
func (w Window[T]) CutoffRank() int { return (w.Level+1)*w.Limit + 1 }

func sumRanked[T any](rs []Ranked[T]) float64 {
	var sum float64
	for _, r := range rs {
		sum += r.Amount
	}
	return sum
}
