// Package render turns flow graphs into Graphviz-based visualizations.
//
// The graph is exported to DOT with one rank per column so the layout reads
// left to right the way the money moves: total, ministries, project budgets,
// project spending, recipients, sub-recipients. Placeholder edges render
// dashed so a zero-flow connection is visually distinct from a real one.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mfujita/budgetflow/pkg/flow"
)

// Options configures DOT export.
type Options struct {
	// Detailed adds the true recorded amount to every node label, including
	// where it differs from the rendered flow weight.
	Detailed bool
}

// columnOrder fixes the left-to-right rank sequence.
var columnOrder = []flow.NodeType{
	flow.NodeTotal,
	flow.NodeMinistryBudget,
	flow.NodeProjectBudget,
	flow.NodeProjectSpending,
	flow.NodeRecipient,
	flow.NodeSubRecipient,
}

// ToDOT converts a flow graph to Graphviz DOT format. The result renders
// with [SVG] or [PNG].
func ToDOT(g *flow.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph flow {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=1.2;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	byType := make(map[flow.NodeType][]flow.Node)
	for _, n := range g.Nodes {
		byType[n.Type] = append(byType[n.Type], n)
	}
	for _, t := range columnOrder {
		nodes := byType[t]
		if len(nodes) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "  { rank=same;\n")
		for _, n := range nodes {
			fmt.Fprintf(&buf, "    %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts), ", "))
		}
		buf.WriteString("  }\n")
	}

	max := maxEdgeValue(g)
	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(edgeAttrs(e, max), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n flow.Node, opts Options) []string {
	label := n.Name
	if opts.Detailed {
		label += "\n" + FormatAmount(n.Display)
		if n.Rank > 0 {
			label += fmt.Sprintf("\nrank %d", n.Rank)
		}
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.Aggregate {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

func edgeAttrs(e flow.Edge, max float64) []string {
	if e.Placeholder {
		return []string{"style=dashed", "color=grey", fmt.Sprintf("label=%q", FormatAmount(e.Display))}
	}
	width := 1.0
	if max > 0 {
		width = 1 + 6*e.Value/max
	}
	return []string{
		fmt.Sprintf("penwidth=%.2f", width),
		fmt.Sprintf("label=%q", FormatAmount(e.Display)),
	}
}

func maxEdgeValue(g *flow.Graph) float64 {
	var max float64
	for _, e := range g.Edges {
		if !e.Placeholder && e.Value > max {
			max = e.Value
		}
	}
	return max
}

// FormatAmount renders a monetary amount with thousands separators and no
// fraction, the convention budget documents use.
func FormatAmount(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
