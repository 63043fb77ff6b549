package render

import (
	"strings"
	"testing"

	"github.com/mfujita/budgetflow/pkg/flow"
)

func testGraph() *flow.Graph {
	return &flow.Graph{
		Nodes: []flow.Node{
			{ID: "total", Name: "National budget", Type: flow.NodeTotal, Value: 1000, Display: 1000},
			{ID: "ministry:A", Name: "Ministry A", Type: flow.NodeMinistryBudget, Value: 1000, Display: 1000, Rank: 1},
			{ID: "project:1:budget", Name: "P1", Type: flow.NodeProjectBudget, Value: 0, Display: 0},
			{ID: "project:1:spending", Name: "P1", Type: flow.NodeProjectSpending, Value: 500, Display: 500},
			{ID: "other:ministries", Name: "Other ministries (rank 11+)", Type: flow.NodeMinistryBudget, Value: 300, Display: 300, Aggregate: true},
		},
		Edges: []flow.Edge{
			{Source: "total", Target: "ministry:A", Value: 1000, Display: 1000},
			{Source: "project:1:budget", Target: "project:1:spending", Value: flow.PlaceholderWeight, Display: 0, Placeholder: true},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testGraph(), Options{})

	for _, want := range []string{
		"rankdir=LR",
		`"total" -> "ministry:A"`,
		`"project:1:budget" -> "project:1:spending" [style=dashed`,
		"rank=same",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}

	// Aggregates render dashed to stand apart from real entities.
	if !strings.Contains(dot, "fillcolor=lightgrey") {
		t.Error("aggregate node not styled")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(testGraph(), Options{Detailed: true})
	if !strings.Contains(dot, "1,000") {
		t.Errorf("detailed DOT missing formatted amount:\n%s", dot)
	}
	if !strings.Contains(dot, "rank 1") {
		t.Error("detailed DOT missing rank annotation")
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-45000, "-45,000"},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.in); got != tt.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	svg := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(svg))
	if !strings.Contains(got, `viewBox="0 0 100.00 50.00"`) {
		t.Errorf("normalizeViewBox() = %s", got)
	}
}
