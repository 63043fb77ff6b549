package flow

import (
	"reflect"
	"testing"
)

func TestRankBy(t *testing.T) {
	type entry struct {
		name   string
		amount float64
	}
	items := []entry{
		{"a", 50},
		{"b", 200},
		{"c", 50},
		{"d", 100},
	}

	ranked := RankBy(items, func(e entry) float64 { return e.amount })

	var names []string
	for _, r := range ranked {
		names = append(names, r.Item.name)
	}
	// Ties keep input order: a before c.
	want := []string{"b", "d", "a", "c"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("order = %v, want %v", names, want)
	}
	for i, r := range ranked {
		if r.Rank != i+1 {
			t.Errorf("rank[%d] = %d, want %d", i, r.Rank, i+1)
		}
	}
}

func TestPage(t *testing.T) {
	ranked := RankBy([]float64{70, 60, 50, 40, 30, 20, 10}, func(v float64) float64 { return v })

	tests := []struct {
		name                        string
		level, limit                int
		prior, shown, resid         int
		priorSum, shownSum, residSum float64
		cutoff                      int
	}{
		{"first page", 0, 3, 0, 3, 4, 0, 180, 100, 4},
		{"second page", 1, 3, 3, 3, 1, 180, 90, 10, 7},
		{"page beyond data", 3, 3, 7, 0, 0, 280, 0, 0, 13},
		{"limit covers all", 0, 10, 0, 7, 0, 0, 280, 0, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Page(ranked, tt.level, tt.limit)
			if len(w.Prior) != tt.prior || len(w.Shown) != tt.shown || len(w.Residual) != tt.resid {
				t.Errorf("sizes = %d/%d/%d, want %d/%d/%d",
					len(w.Prior), len(w.Shown), len(w.Residual), tt.prior, tt.shown, tt.resid)
			}
			if got := w.PriorTotal(); got != tt.priorSum {
				t.Errorf("PriorTotal() = %v, want %v", got, tt.priorSum)
			}
			if got := w.ShownTotal(); got != tt.shownSum {
				t.Errorf("ShownTotal() = %v, want %v", got, tt.shownSum)
			}
			if got := w.ResidualTotal(); got != tt.residSum {
				t.Errorf("ResidualTotal() = %v, want %v", got, tt.residSum)
			}
			if got := w.CutoffRank(); got != tt.cutoff {
				t.Errorf("CutoffRank() = %d, want %d", got, tt.cutoff)
			}
		})
	}
}

// Every rank lands in exactly one of prior, shown, residual.
func TestPagePartition(t *testing.T) {
	ranked := RankBy([]float64{9, 8, 7, 6, 5, 4, 3, 2, 1}, func(v float64) float64 { return v })

	for level := 0; level < 4; level++ {
		w := Page(ranked, level, 4)
		total := len(w.Prior) + len(w.Shown) + len(w.Residual)
		if total != len(ranked) {
			t.Errorf("level %d: partition covers %d of %d", level, total, len(ranked))
		}
		if w.PriorTotal()+w.ShownTotal()+w.ResidualTotal() != 45 {
			t.Errorf("level %d: amounts do not partition", level)
		}
	}
}
