package flow

import (
	"github.com/mfujita/budgetflow/pkg/dataset"
	"github.com/mfujita/budgetflow/pkg/errors"
)

// buildMinistry renders one ministry's flows:
// ministry → project budgets → project spending → recipients →
// sub-recipients. The total column is omitted; coverage in Meta carries the
// ministry's share of the national budget instead.
func (b *builder) buildMinistry() error {
	idx := b.snap.Index

	m, ok := idx.MinistryByName[b.p.Target]
	if !ok {
		return errors.New(errors.ErrCodeNotFoundMinistry, "ministry %q not found", b.p.Target)
	}

	ranked := RankBy(collectProjects(idx, m), projectBudget)
	pw := Page(ranked, b.p.ProjectLevel, b.p.ProjectLimit)
	plan := b.planForward(pw)

	var rendered float64
	for _, pp := range plan.projects {
		rendered += pp.budgetRendered
	}
	resid := pw.ResidualTotal()

	mid := ministryID(m.Name)
	b.add(Node{
		ID:      mid,
		Name:    m.Name,
		Type:    NodeMinistryBudget,
		Value:   rendered + resid,
		Display: m.Total.Float64(),
	})

	b.emitPriorProjects(pw, []priorAnchor{{id: mid, amount: pw.PriorTotal()}})
	b.emitBudgetColumn(plan, func(*projectPlan) string { return mid })
	if resid > 0 {
		id := otherProjectsID(m.Name)
		b.add(Node{
			ID:        id,
			Name:      otherOfLabel("projects", m.Name, pw.CutoffRank()),
			Type:      NodeProjectBudget,
			Value:     resid,
			Display:   resid,
			Aggregate: true,
		})
		b.edge(mid, id, resid)
	}

	b.emitSpendingColumn(plan)
	b.emitRecipients(plan)
	b.emitSubRecipients(plan)
	b.chainPrior(idPriorProjectsBudget, idPriorProjectsSpend, idPriorRecipients)

	b.setCoverage(b.snap.Data.TotalBudget().Float64(), m.Total.Float64())
	return nil
}

// collectProjects gathers the projects attached anywhere under a hierarchy
// node, in hierarchy order. For a top-level ministry this matches the
// by-ministry index; for a bureau it scopes the view to that branch.
func collectProjects(idx *dataset.Index, m *dataset.MinistryNode) []*dataset.Project {
	var out []*dataset.Project
	seen := make(map[int64]bool)

	var walk func(n *dataset.MinistryNode)
	walk = func(n *dataset.MinistryNode) {
		for _, pid := range n.ProjectIDs {
			if p, ok := idx.ProjectByID[pid]; ok && !seen[pid] {
				seen[pid] = true
				out = append(out, p)
			}
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(m)

	// Flat datasets carry no hierarchy project lists; fall back to the
	// ministry-name grouping.
	if len(out) == 0 && m.Path == m.Name {
		out = idx.ProjectsByMinistry[m.Name]
	}
	return out
}
