package flow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// NodeType identifies which column family a node belongs to.
type NodeType string

// Node types, in upstream-to-downstream order for forward views.
const (
	NodeTotal           NodeType = "total"
	NodeMinistryBudget  NodeType = "ministry-budget"
	NodeProjectBudget   NodeType = "project-budget"
	NodeProjectSpending NodeType = "project-spending"
	NodeRecipient       NodeType = "recipient"
	NodeSubRecipient    NodeType = "sub-recipient"
)

// PlaceholderWeight is the fixed graph weight of placeholder edges: large
// enough to keep the rendered layout visually connected, small enough to be
// negligible against real flows (one currency unit). Placeholder amounts are
// displayed as their Display value, never as this constant.
const PlaceholderWeight = 1.0

// Node is a vertex of the rendered flow graph.
//
// Value is the conserved flow weight: the sum of the amounts flowing into
// the node that the diagram actually renders. Display is the true recorded
// amount; the two differ when drilldown excludes prior-page flows or when an
// entity is partly funded by unshown upstream nodes.
type Node struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Type    NodeType `json:"type"`
	Value   float64  `json:"value"`
	Display float64  `json:"display"`

	// Aggregate marks synthetic nodes: "other" residual buckets, prior-page
	// collapsed nodes, the unexecuted sink, and the no-recipient terminal.
	Aggregate bool `json:"aggregate,omitempty"`

	// Rank is the 1-based position in the column's ranking, 0 for synthetic
	// nodes.
	Rank int `json:"rank,omitempty"`

	Detail map[string]any `json:"detail,omitempty"`
}

// Edge is a directed value-carrying connection between adjacent columns.
//
// A placeholder edge exists only to keep the layout connected where the real
// flow is zero or unrenderable; its Value is PlaceholderWeight and Display
// carries the true amount (usually 0).
type Edge struct {
	Source      string  `json:"source"`
	Target      string  `json:"target"`
	Value       float64 `json:"value"`
	Display     float64 `json:"display"`
	Placeholder bool    `json:"placeholder,omitempty"`
}

// Meta describes the generated graph.
type Meta struct {
	GeneratedAt time.Time `json:"generated_at"`
	FiscalYear  int       `json:"fiscal_year"`
	Mode        Mode      `json:"mode"`
	Target      string    `json:"target,omitempty"`

	// TotalBudget is the dataset-wide budget; SelectedBudget the portion the
	// view covers; Coverage their ratio in [0, 1].
	TotalBudget    float64 `json:"total_budget"`
	SelectedBudget float64 `json:"selected_budget"`
	Coverage       float64 `json:"coverage"`
}

// Graph is the rendered flow diagram. Nodes appear in column order, within a
// column in rank order; edges in emission order. The ordering is part of the
// contract: generating twice with the same canonical parameters against an
// unchanged dataset yields byte-identical serializations.
type Graph struct {
	Meta  Meta   `json:"meta"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// Outgoing returns the edges leaving the given node, in emission order.
func (g *Graph) Outgoing(id string) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Source == id {
			out = append(out, e)
		}
	}
	return out
}

// Incoming returns the edges entering the given node, in emission order.
func (g *Graph) Incoming(id string) []Edge {
	var in []Edge
	for _, e := range g.Edges {
		if e.Target == id {
			in = append(in, e)
		}
	}
	return in
}

// Marshal serializes the graph to deterministic JSON.
func (g *Graph) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return nil, fmt.Errorf("encode graph: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a serialized graph.
func Unmarshal(data []byte) (*Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	return &g, nil
}
