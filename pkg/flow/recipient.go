package flow

import (
	"github.com/mfujita/budgetflow/pkg/dataset"
	"github.com/mfujita/budgetflow/pkg/errors"
)

// fundingProject is one project's aggregated payments to the fixed
// recipient of a by-recipient view.
type fundingProject struct {
	proj   *dataset.Project
	amount float64
}

// fundingMinistry aggregates the shown funding projects of one ministry,
// ranked by total contribution to the fixed recipient.
type fundingMinistry struct {
	name   string
	amount float64
}

// buildRecipient renders the reversed view for one recipient: which
// projects paid it and which ministries those projects belong to, ending at
// the ministry column. Both columns get their own Top-N window. A shown
// project whose ministry falls below the ministry cutoff stays rendered but
// attaches to the residual ministry bucket, so flow still conserves down to
// the recipient. The recipient's own onward payments render downstream so
// the node is not a dead end.
func (b *builder) buildRecipient() error {
	idx := b.snap.Index

	r, ok := idx.RecipientByName[b.p.Target]
	if !ok {
		return errors.New(errors.ErrCodeNotFoundRecipient, "recipient %q not found", b.p.Target)
	}

	funders := aggregateFunders(idx, r)
	rankedP := RankBy(funders, func(f fundingProject) float64 { return f.amount })
	pw := Page(rankedP, b.p.ProjectLevel, b.p.ProjectLimit)

	// Ministry window over the shown funders, first-seen grouping order.
	var groups []fundingMinistry
	byName := make(map[string]int)
	for _, rf := range pw.Shown {
		name := rf.Item.proj.Ministry
		i, seen := byName[name]
		if !seen {
			byName[name] = len(groups)
			groups = append(groups, fundingMinistry{name: name})
			i = len(groups) - 1
		}
		groups[i].amount += rf.Amount
	}
	rankedM := RankBy(groups, func(g fundingMinistry) float64 { return g.amount })
	mw := Page(rankedM, b.p.MinistryLevel, b.p.MinistryLimit)

	shownMinistry := make(map[string]bool, len(mw.Shown))
	for _, rm := range mw.Shown {
		shownMinistry[rm.Item.name] = true
	}
	priorMinistry := make(map[string]bool, len(mw.Prior))
	for _, rm := range mw.Prior {
		priorMinistry[rm.Item.name] = true
	}

	// Everything below either cutoff routes residual-to-residual.
	residM := mw.ResidualTotal()
	residP := pw.ResidualTotal()
	needOther := residM+residP > 0
	for _, rf := range pw.Shown {
		if !shownMinistry[rf.Item.proj.Ministry] && !priorMinistry[rf.Item.proj.Ministry] {
			needOther = true
		}
	}

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
	}
	for _, rm := range mw.Shown {
		var display float64
		if m, ok := idx.MinistryByName[rm.Item.name]; ok {
			display = m.Total.Float64()
		}
		b.add(Node{
			ID:      ministryID(rm.Item.name),
			Name:    rm.Item.name,
			Type:    NodeMinistryBudget,
			Value:   rm.Amount,
			Display: display,
			Rank:    rm.Rank,
		})
	}
	if needOther {
		b.add(Node{
			ID:        idOtherMinistries,
			Name:      otherLabel("ministries", mw.CutoffRank()),
			Type:      NodeMinistryBudget,
			Value:     residM + residP,
			Display:   residM + residP,
			Aggregate: true,
		})
	}

	// Project column. Nodes carry the payment to the recipient as value and
	// the project's full spending as display. Projects owned by a prior-page
	// ministry were rendered on that page; they collapse into the ministry
	// prior node instead of repeating here.
	if pw.Level > 0 && len(pw.Prior) > 0 {
		b.add(Node{
			ID:        idPriorProjectsSpend,
			Name:      priorLabel(pw.Level * pw.Limit),
			Type:      NodeProjectSpending,
			Value:     PlaceholderWeight,
			Display:   pw.PriorTotal(),
			Aggregate: true,
		})
	}
	var shownSum float64
	for _, rf := range pw.Shown {
		f := rf.Item
		if priorMinistry[f.proj.Ministry] {
			continue
		}
		id := projectSpendingID(f.proj.ID)
		b.add(Node{
			ID:      id,
			Name:    f.proj.Name,
			Type:    NodeProjectSpending,
			Value:   f.amount,
			Display: f.proj.Spending.Float64(),
			Rank:    rf.Rank,
			Detail:  map[string]any{"ministry": f.proj.Ministry},
		})
		src := idOtherMinistries
		if shownMinistry[f.proj.Ministry] {
			src = ministryID(f.proj.Ministry)
		}
		if f.amount > 0 {
			b.edge(src, id, f.amount)
		} else {
			b.placeholder(src, id, 0)
		}
		shownSum += f.amount
	}
	if residP > 0 {
		b.add(Node{
			ID:        idOtherProjects,
			Name:      otherLabel("projects", pw.CutoffRank()),
			Type:      NodeProjectSpending,
			Value:     residP,
			Display:   residP,
			Aggregate: true,
		})
		b.edge(idOtherMinistries, idOtherProjects, residP)
	}

	// Recipient node. Rendered inflow excludes prior-page funders on either
	// axis; Display keeps the true recorded total.
	b.add(Node{
		ID:      recipientNodeID(r.ID),
		Name:    r.Name,
		Type:    NodeRecipient,
		Value:   shownSum + residP,
		Display: r.Total.Float64(),
		Detail:  recipientDetail(r),
	})
	for _, rf := range pw.Shown {
		if priorMinistry[rf.Item.proj.Ministry] {
			continue
		}
		b.edge(projectSpendingID(rf.Item.proj.ID), recipientNodeID(r.ID), rf.Amount)
	}
	if residP > 0 {
		b.edge(idOtherProjects, recipientNodeID(r.ID), residP)
	}
	if mw.Level > 0 && len(mw.Prior) > 0 {
		b.placeholder(idPriorMinistries, recipientNodeID(r.ID), mw.PriorTotal())
	}
	if pw.Level > 0 && len(pw.Prior) > 0 {
		b.placeholder(idPriorProjectsSpend, recipientNodeID(r.ID), pw.PriorTotal())
	}

	b.emitOutflows(newChainResolver(b.snap.Data), r)

	b.setCoverage(b.snap.Data.TotalBudget().Float64(), r.Total.Float64())
	return nil
}

// aggregateFunders groups the recipient's contributions by paying project,
// preserving contribution order. Contributions referencing unknown projects
// are dropped.
func aggregateFunders(idx *dataset.Index, r *dataset.Recipient) []fundingProject {
	var order []fundingProject
	index := make(map[int64]int)

	for _, c := range r.Contributions {
		p, ok := idx.ProjectByID[c.ProjectID]
		if !ok {
			continue
		}
		i, seen := index[c.ProjectID]
		if !seen {
			index[c.ProjectID] = len(order)
			order = append(order, fundingProject{proj: p})
			i = len(order) - 1
		}
		order[i].amount += c.Amount.Float64()
	}
	return order
}
