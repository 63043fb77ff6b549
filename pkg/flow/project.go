package flow

import (
	"strconv"

	"github.com/mfujita/budgetflow/pkg/dataset"
	"github.com/mfujita/budgetflow/pkg/errors"
)

// buildProject renders a single project end to end:
// ministry → project budget → project spending → recipients →
// sub-recipients. Drilldown applies to the recipient column only.
func (b *builder) buildProject() error {
	idx := b.snap.Index

	p := lookupProject(idx, b.p.Target)
	if p == nil {
		return errors.New(errors.ErrCodeNotFoundProject, "project %q not found", b.p.Target)
	}

	// A single-project window: the forward planner handles the recipient
	// pagination and all flow arithmetic.
	pw := Window[*dataset.Project]{
		Shown: []Ranked[*dataset.Project]{{Item: p, Amount: projectBudget(p), Rank: 1}},
		Level: 0,
		Limit: 1,
	}
	plan := b.planForward(pw)
	pp := plan.projects[0]

	mid := ministryID(p.Ministry)
	var ministryTotal float64
	if m, ok := idx.MinistryByName[p.Ministry]; ok {
		ministryTotal = m.Total.Float64()
	}
	b.add(Node{
		ID:      mid,
		Name:    p.Ministry,
		Type:    NodeMinistryBudget,
		Value:   pp.budgetRendered,
		Display: ministryTotal,
	})

	b.emitBudgetColumn(plan, func(*projectPlan) string { return mid })
	b.emitSpendingColumn(plan)
	b.emitRecipients(plan)
	b.emitSubRecipients(plan)

	b.setCoverage(b.snap.Data.TotalBudget().Float64(), pp.budget)
	return nil
}

// lookupProject resolves a project by name, falling back to a numeric ID
// for callers that address projects directly.
func lookupProject(idx *dataset.Index, target string) *dataset.Project {
	if p, ok := idx.ProjectByName[target]; ok {
		return p
	}
	if id, err := strconv.ParseInt(target, 10, 64); err == nil {
		return idx.ProjectByID[id]
	}
	return nil
}
