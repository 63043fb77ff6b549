package flow

import "github.com/mfujita/budgetflow/pkg/dataset"

// ministryPlan carries the per-ministry amounts for the shown page.
type ministryPlan struct {
	m    *dataset.MinistryNode
	rank int

	rendered float64 // sum of shown project rendered budgets
	residual float64 // sum of unshown (below-cutoff) project budgets
	prior    float64 // sum of prior-page project budgets
}

// buildGlobal renders the national overview:
// total → ministries → project budgets → project spending → recipients →
// sub-recipients, with Top-N selection at every column.
func (b *builder) buildGlobal() error {
	d := b.snap.Data
	idx := b.snap.Index

	rankedM := RankBy(d.Ministries, func(m *dataset.MinistryNode) float64 {
		return m.Total.Float64()
	})
	mw := Page(rankedM, b.p.MinistryLevel, b.p.MinistryLimit)

	// Projects of the shown ministries compete in one shared ranking; a
	// small ministry's flagship project can outrank a large ministry's
	// minor ones.
	var pool []*dataset.Project
	for _, rm := range mw.Shown {
		pool = append(pool, idx.ProjectsByMinistry[rm.Item.Name]...)
	}
	rankedP := RankBy(pool, projectBudget)
	pw := Page(rankedP, b.p.ProjectLevel, b.p.ProjectLimit)

	plan := b.planForward(pw)

	mplans := make([]*ministryPlan, 0, len(mw.Shown))
	byName := make(map[string]*ministryPlan, len(mw.Shown))
	for _, rm := range mw.Shown {
		mp := &ministryPlan{m: rm.Item, rank: rm.Rank}
		mplans = append(mplans, mp)
		byName[rm.Item.Name] = mp
	}
	for _, pp := range plan.projects {
		if mp, ok := byName[pp.proj.Ministry]; ok {
			mp.rendered += pp.budgetRendered
		}
	}
	for _, rp := range pw.Residual {
		if mp, ok := byName[rp.Item.Ministry]; ok {
			mp.residual += rp.Amount
		}
	}
	for _, rp := range pw.Prior {
		if mp, ok := byName[rp.Item.Ministry]; ok {
			mp.prior += rp.Amount
		}
	}

	// Total column.
	totalBudget := d.TotalBudget().Float64()
	var totalRendered float64
	for _, mp := range mplans {
		totalRendered += mp.rendered + mp.residual
	}
	totalRendered += mw.ResidualTotal()
	b.add(Node{
		ID:      idTotal,
		Name:    "National budget",
		Type:    NodeTotal,
		Value:   totalRendered,
		Display: totalBudget,
	})

	// Ministry column.
	if mw.Level > 0 && len(mw.Prior) > 0 {
		b.add(Node{
			ID:        idPriorMinistries,
			Name:      priorLabel(mw.Level * mw.Limit),
			Type:      NodeMinistryBudget,
			Value:     PlaceholderWeight,
			Display:   mw.PriorTotal(),
			Aggregate: true,
		})
		b.placeholder(idTotal, idPriorMinistries, mw.PriorTotal())
	}
	for _, mp := range mplans {
		value := mp.rendered + mp.residual
		b.add(Node{
			ID:      ministryID(mp.m.Name),
			Name:    mp.m.Name,
			Type:    NodeMinistryBudget,
			Value:   value,
			Display: mp.m.Total.Float64(),
			Rank:    mp.rank,
		})
		if value > 0 {
			b.edge(idTotal, ministryID(mp.m.Name), value)
		} else {
			b.placeholder(idTotal, ministryID(mp.m.Name), 0)
		}
	}
	if resid := mw.ResidualTotal(); resid > 0 {
		b.add(Node{
			ID:        idOtherMinistries,
			Name:      otherLabel("ministries", mw.CutoffRank()),
			Type:      NodeMinistryBudget,
			Value:     resid,
			Display:   resid,
			Aggregate: true,
		})
		b.edge(idTotal, idOtherMinistries, resid)
	}

	// Project budget column.
	b.emitPriorProjects(pw, ministryPriorEdges(mplans))
	b.emitBudgetColumn(plan, func(pp *projectPlan) string {
		return ministryID(pp.proj.Ministry)
	})
	for _, mp := range mplans {
		if mp.residual > 0 {
			id := otherProjectsID(mp.m.Name)
			b.add(Node{
				ID:        id,
				Name:      otherOfLabel("projects", mp.m.Name, pw.CutoffRank()),
				Type:      NodeProjectBudget,
				Value:     mp.residual,
				Display:   mp.residual,
				Aggregate: true,
			})
			b.edge(ministryID(mp.m.Name), id, mp.residual)
		}
	}

	// Downstream columns.
	b.emitSpendingColumn(plan)
	b.emitRecipients(plan)
	b.emitSubRecipients(plan)
	b.chainPrior(idPriorMinistries, idPriorProjectsBudget, idPriorProjectsSpend, idPriorRecipients)

	var selected float64
	for _, rm := range mw.Shown {
		selected += rm.Amount
	}
	b.setCoverage(totalBudget, selected)
	return nil
}

// emitPriorProjects adds the collapsed prior-page project nodes (budget and
// spending) and the placeholder edges from the upstream anchors that
// contributed them.
func (b *builder) emitPriorProjects(pw Window[*dataset.Project], anchors []priorAnchor) {
	if pw.Level == 0 || len(pw.Prior) == 0 {
		return
	}
	var spendTotal float64
	for _, rp := range pw.Prior {
		spendTotal += rp.Item.Spending.Float64()
	}

	b.add(Node{
		ID:        idPriorProjectsBudget,
		Name:      priorLabel(pw.Level * pw.Limit),
		Type:      NodeProjectBudget,
		Value:     PlaceholderWeight,
		Display:   pw.PriorTotal(),
		Aggregate: true,
	})
	b.add(Node{
		ID:        idPriorProjectsSpend,
		Name:      priorLabel(pw.Level * pw.Limit),
		Type:      NodeProjectSpending,
		Value:     PlaceholderWeight,
		Display:   spendTotal,
		Aggregate: true,
	})
	for _, a := range anchors {
		if a.amount > 0 {
			b.placeholder(a.id, idPriorProjectsBudget, a.amount)
		}
	}
	b.placeholder(idPriorProjectsBudget, idPriorProjectsSpend, spendTotal)
}

// priorAnchor is an upstream node whose prior-page projects collapsed into
// the shared prior node, with the amount it contributed.
type priorAnchor struct {
	id     string
	amount float64
}

func ministryPriorEdges(mplans []*ministryPlan) []priorAnchor {
	anchors := make([]priorAnchor, 0, len(mplans))
	for _, mp := range mplans {
		anchors = append(anchors, priorAnchor{id: ministryID(mp.m.Name), amount: mp.prior})
	}
	return anchors
}

func projectBudget(p *dataset.Project) float64 {
	return p.Budget.Total.Float64()
}

func (b *builder) setCoverage(total, selected float64) {
	b.g.Meta.Mode = b.p.Mode
	b.g.Meta.Target = b.p.Target
	b.g.Meta.TotalBudget = total
	b.g.Meta.SelectedBudget = selected
	if total > 0 {
		b.g.Meta.Coverage = selected / total
	}
}
