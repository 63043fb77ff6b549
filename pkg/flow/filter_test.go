package flow

import "testing"

func TestFilter(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{ID: "a", Value: 10},
			{ID: "b", Value: 10},
			{ID: "c"},
			{ID: "orphan"},
			{ID: "d"},
		},
		Edges: []Edge{
			{Source: "a", Target: "b", Value: 10, Display: 10},
			{Source: "b", Target: "c", Value: 0, Display: 0},
			{Source: "b", Target: "d", Value: PlaceholderWeight, Display: 0, Placeholder: true},
			{Source: "c", Target: "d", Value: -3},
		},
	}

	Filter(g)

	if len(g.Edges) != 2 {
		t.Fatalf("edges kept = %d, want 2", len(g.Edges))
	}
	for _, e := range g.Edges {
		if e.Value <= 0 {
			t.Errorf("non-positive edge survived: %+v", e)
		}
	}

	var ids []string
	for _, n := range g.Nodes {
		ids = append(ids, n.ID)
	}
	want := []string{"a", "b", "d"}
	if len(ids) != len(want) {
		t.Fatalf("nodes kept = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("node order = %v, want %v", ids, want)
		}
	}

	// c lost both edges (zero outflow, negative inflow) and fell out.
	if g.Node("c") != nil {
		t.Error("disconnected node c survived")
	}
}
