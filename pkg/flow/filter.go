package flow

// Filter enforces the rendering consistency rules on a built graph:
// edges that carry no weight are removed, then nodes left without a single
// incident edge are removed. Placeholder edges carry the fixed placeholder
// weight and survive, which is what keeps zero-flow anomalies attached.
//
// Order is preserved for everything kept, so filtering does not disturb the
// deterministic serialization.
func Filter(g *Graph) {
	edges := g.Edges[:0]
	incident := make(map[string]bool, len(g.Nodes))
	for _, e := range g.Edges {
		if e.Value <= 0 {
			continue
		}
		edges = append(edges, e)
		incident[e.Source] = true
		incident[e.Target] = true
	}
	g.Edges = edges

	nodes := g.Nodes[:0]
	for _, n := range g.Nodes {
		if incident[n.ID] {
			nodes = append(nodes, n)
		}
	}
	g.Nodes = nodes
}
