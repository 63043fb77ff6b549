package flow

import (
	"fmt"

	"github.com/mfujita/budgetflow/pkg/dataset"
)

// builder accumulates nodes and edges for one generation request.
// Nodes are appended in column order, within a column in rank order; the
// resulting slice order is the serialization order.
type builder struct {
	snap *dataset.Snapshot
	p    Params
	g    *Graph
	byID map[string]int
}

func newBuilder(snap *dataset.Snapshot, p Params) *builder {
	return &builder{
		snap: snap,
		p:    p,
		g:    &Graph{},
		byID: make(map[string]int),
	}
}

// add appends a node. Adding an existing ID returns the existing node
// unchanged; synthetic sinks shared across projects rely on this.
func (b *builder) add(n Node) *Node {
	if i, ok := b.byID[n.ID]; ok {
		return &b.g.Nodes[i]
	}
	b.byID[n.ID] = len(b.g.Nodes)
	b.g.Nodes = append(b.g.Nodes, n)
	return &b.g.Nodes[b.byID[n.ID]]
}

// node returns a previously added node, or nil.
func (b *builder) node(id string) *Node {
	if i, ok := b.byID[id]; ok {
		return &b.g.Nodes[i]
	}
	return nil
}

// edge emits a real value-carrying edge. Non-positive values are dropped
// here rather than later: an edge that would render as nothing must not
// influence the consistency filter's orphan detection.
func (b *builder) edge(source, target string, value float64) {
	if value <= 0 {
		return
	}
	b.g.Edges = append(b.g.Edges, Edge{Source: source, Target: target, Value: value, Display: value})
}

// placeholder emits a layout-only edge with the fixed placeholder weight.
// display carries the true amount (0 for a true-zero flow).
func (b *builder) placeholder(source, target string, display float64) {
	b.g.Edges = append(b.g.Edges, Edge{
		Source:      source,
		Target:      target,
		Value:       PlaceholderWeight,
		Display:     display,
		Placeholder: true,
	})
}

// =============================================================================
// Node IDs
// =============================================================================

// Synthetic node IDs shared across a graph.
const (
	idTotal       = "total"
	idUnexecuted  = "unexecuted"
	idNoRecipient = "norecipient"

	idOtherMinistries = "other:ministries"
	idOtherProjects   = "other:projects"

	idPriorMinistries     = "prior:ministries"
	idPriorProjectsBudget = "prior:projects:budget"
	idPriorProjectsSpend  = "prior:projects:spending"
	idPriorRecipients     = "prior:recipients"
)

func ministryID(name string) string           { return "ministry:" + name }
func projectBudgetID(id int64) string         { return fmt.Sprintf("project:%d:budget", id) }
func projectSpendingID(id int64) string       { return fmt.Sprintf("project:%d:spending", id) }
func recipientNodeID(id int64) string         { return fmt.Sprintf("recipient:%d", id) }
func subRecipientID(rid int64, n string) string { return fmt.Sprintf("sub:%d:%s", rid, n) }
func otherProjectsID(ministry string) string  { return idOtherProjects + ":" + ministry }
func otherRecipientsID(pid int64) string      { return fmt.Sprintf("other:recipients:%d", pid) }
func otherSubsID(rid int64) string            { return fmt.Sprintf("other:subs:%d", rid) }

// =============================================================================
// Labels
// =============================================================================

func otherLabel(what string, cutoff int) string {
	return fmt.Sprintf("Other %s (rank %d+)", what, cutoff)
}

func otherOfLabel(what, owner string, cutoff int) string {
	return fmt.Sprintf("Other %s of %s (rank %d+)", what, owner, cutoff)
}

func priorLabel(count int) string {
	return fmt.Sprintf("Top %d combined", count)
}

// =============================================================================
// Forward planning
// =============================================================================

// recipientAgg accumulates one recipient's contributions from the shown
// page of projects. portions keeps per-project sums in shown-project order
// so edge emission stays deterministic.
type recipientAgg struct {
	r        *dataset.Recipient
	total    float64
	portions []portion
}

type portion struct {
	projectID int64
	amount    float64
}

// aggregateRecipients groups contributions from the given projects by
// recipient, preserving first-seen order.
func aggregateRecipients(idx *dataset.Index, projects []*dataset.Project) []*recipientAgg {
	var order []*recipientAgg
	byID := make(map[int64]*recipientAgg)

	for _, p := range projects {
		for _, rc := range idx.ContributionsByProject[p.ID] {
			a, ok := byID[rc.Recipient.ID]
			if !ok {
				a = &recipientAgg{r: rc.Recipient}
				byID[rc.Recipient.ID] = a
				order = append(order, a)
			}
			amount := rc.Contribution.Amount.Float64()
			a.total += amount
			if n := len(a.portions); n > 0 && a.portions[n-1].projectID == p.ID {
				a.portions[n-1].amount += amount
			} else {
				a.portions = append(a.portions, portion{projectID: p.ID, amount: amount})
			}
		}
	}
	return order
}

// projectPlan carries the flow amounts computed for one shown project
// before any node is emitted. All conservation arithmetic happens here.
type projectPlan struct {
	proj *dataset.Project
	rank int

	budget   float64 // declared budget total
	spending float64 // declared executed amount

	shownC float64 // contributions to recipients on the current page
	residC float64 // contributions to recipients below the cutoff
	priorC float64 // contributions to recipients on earlier pages
	unattr float64 // spending not attributable to any recipient

	spendingOut    float64 // spending node value: shownC + residC + unattr
	spendEdge      float64 // budget→spending edge value
	unexec         float64 // budget→unexecuted edge value
	budgetRendered float64 // budget node value and upstream edge value
}

// forwardPlan is the computed selection for the shared forward columns
// (project budget → project spending → recipient → sub-recipient).
type forwardPlan struct {
	projects   []*projectPlan
	byID       map[int64]*projectPlan
	window     Window[*dataset.Project] // the project drilldown window
	recipients Window[*recipientAgg]
}

// planForward computes all flow amounts for the shown page of projects.
//
// Per project, with budget B, spending S, and contribution partitions
// shownC/residC/priorC against the recipient window:
//
//	unattr    = max(0, S - shownC - residC - priorC)
//	spendingOut = shownC + residC + unattr
//	spendEdge = min(B, spendingOut)
//	unexec    = max(0, B - spendEdge - priorC)
//
// budgetRendered = spendEdge + unexec is what the upstream column sees: the
// part of the budget whose flow this page actually renders. Prior-page
// contributions are excluded (they were rendered earlier) and reattach only
// through placeholder edges to the collapsed prior node.
func (b *builder) planForward(w Window[*dataset.Project]) *forwardPlan {
	plan := &forwardPlan{
		window: w,
		byID:   make(map[int64]*projectPlan, len(w.Shown)),
	}

	shown := make([]*dataset.Project, len(w.Shown))
	for i, r := range w.Shown {
		shown[i] = r.Item
		pp := &projectPlan{
			proj:     r.Item,
			rank:     r.Rank,
			budget:   r.Item.Budget.Total.Float64(),
			spending: r.Item.Spending.Float64(),
		}
		plan.projects = append(plan.projects, pp)
		plan.byID[r.Item.ID] = pp
	}

	aggs := aggregateRecipients(b.snap.Index, shown)
	ranked := RankBy(aggs, func(a *recipientAgg) float64 { return a.total })
	plan.recipients = Page(ranked, b.p.RecipientLevel, b.p.RecipientLimit)

	sumInto := func(aggs []Ranked[*recipientAgg], bucket func(*projectPlan) *float64) {
		for _, ra := range aggs {
			for _, pt := range ra.Item.portions {
				if pp, ok := plan.byID[pt.projectID]; ok {
					*bucket(pp) += pt.amount
				}
			}
		}
	}
	sumInto(plan.recipients.Shown, func(pp *projectPlan) *float64 { return &pp.shownC })
	sumInto(plan.recipients.Residual, func(pp *projectPlan) *float64 { return &pp.residC })
	sumInto(plan.recipients.Prior, func(pp *projectPlan) *float64 { return &pp.priorC })

	for _, pp := range plan.projects {
		pp.unattr = pp.spending - pp.shownC - pp.residC - pp.priorC
		if pp.unattr < 0 {
			pp.unattr = 0
		}
		pp.spendingOut = pp.shownC + pp.residC + pp.unattr
		pp.spendEdge = pp.spendingOut
		if pp.spendEdge > pp.budget {
			pp.spendEdge = pp.budget
		}
		pp.unexec = pp.budget - pp.spendEdge - pp.priorC
		if pp.unexec < 0 {
			pp.unexec = 0
		}
		pp.budgetRendered = pp.spendEdge + pp.unexec
	}
	return plan
}

// =============================================================================
// Forward emission
// =============================================================================

// emitBudgetColumn adds the project-budget nodes and their upstream edges.
// upstream maps each project to the node it attaches to (its ministry in
// the global and ministry views, the single ministry node in the project
// view).
func (b *builder) emitBudgetColumn(plan *forwardPlan, upstream func(*projectPlan) string) {
	for _, pp := range plan.projects {
		n := b.add(Node{
			ID:      projectBudgetID(pp.proj.ID),
			Name:    pp.proj.Name,
			Type:    NodeProjectBudget,
			Value:   pp.budgetRendered,
			Display: pp.budget,
			Rank:    pp.rank,
			Detail: map[string]any{
				"ministry":      pp.proj.Ministry,
				"initial":       pp.proj.Budget.Initial.Float64(),
				"supplementary": pp.proj.Budget.Supplementary.Float64(),
				"carried_over":  pp.proj.Budget.CarriedOver.Float64(),
				"reserve":       pp.proj.Budget.Reserve.Float64(),
			},
		})
		src := upstream(pp)
		if pp.budgetRendered > 0 {
			b.edge(src, n.ID, pp.budgetRendered)
		} else {
			// Zero-budget project with or without spending: keep it attached.
			b.placeholder(src, n.ID, 0)
		}
	}
}

// emitSpendingColumn adds the project-spending nodes, the budget→spending
// edges, the shared unexecuted sink, and placeholder links into the
// prior-recipients collapsed node.
func (b *builder) emitSpendingColumn(plan *forwardPlan) {
	for _, pp := range plan.projects {
		n := b.add(Node{
			ID:      projectSpendingID(pp.proj.ID),
			Name:    pp.proj.Name,
			Type:    NodeProjectSpending,
			Value:   pp.spendingOut,
			Display: pp.spending,
			Rank:    pp.rank,
		})

		budgetID := projectBudgetID(pp.proj.ID)
		if pp.spendEdge > 0 {
			b.edge(budgetID, n.ID, pp.spendEdge)
		} else {
			// Budget 0 with spending > 0 (or both 0): the known anomaly must
			// render as a connected 0→S pair, not a broken edge.
			b.placeholder(budgetID, n.ID, 0)
		}

		if pp.unexec > 0 {
			sink := b.add(Node{
				ID:        idUnexecuted,
				Name:      "Unexecuted budget",
				Type:      NodeProjectSpending,
				Aggregate: true,
			})
			sink.Value += pp.unexec
			sink.Display += pp.unexec
			b.edge(budgetID, sink.ID, pp.unexec)
		}

		if pp.priorC > 0 {
			b.placeholder(n.ID, idPriorRecipients, pp.priorC)
		}
	}
}

// emitRecipients adds the recipient column: shown recipients with their
// per-project inflow edges, one residual bucket per upstream project, the
// no-recipient terminal, and the prior-recipients collapsed node.
func (b *builder) emitRecipients(plan *forwardPlan) {
	rw := plan.recipients

	if rw.Level > 0 && len(rw.Prior) > 0 {
		b.add(Node{
			ID:        idPriorRecipients,
			Name:      priorLabel(rw.Level * rw.Limit),
			Type:      NodeRecipient,
			Value:     PlaceholderWeight,
			Display:   rw.PriorTotal(),
			Aggregate: true,
		})
	}

	for _, ra := range rw.Shown {
		agg := ra.Item
		n := b.add(Node{
			ID:      recipientNodeID(agg.r.ID),
			Name:    agg.r.Name,
			Type:    NodeRecipient,
			Value:   agg.total,
			Display: agg.r.Total.Float64(),
			Rank:    ra.Rank,
			Detail:  recipientDetail(agg.r),
		})
		for _, pt := range agg.portions {
			b.edge(projectSpendingID(pt.projectID), n.ID, pt.amount)
		}
	}

	// Residual buckets: one per upstream project that has unshown
	// recipients, carrying exactly the unshown contributions.
	for _, pp := range plan.projects {
		if pp.residC > 0 {
			b.add(Node{
				ID:        otherRecipientsID(pp.proj.ID),
				Name:      otherOfLabel("recipients", pp.proj.Name, rw.CutoffRank()),
				Type:      NodeRecipient,
				Value:     pp.residC,
				Display:   pp.residC,
				Aggregate: true,
			})
			b.edge(projectSpendingID(pp.proj.ID), otherRecipientsID(pp.proj.ID), pp.residC)
		}

		noContrib := pp.shownC == 0 && pp.residC == 0 && pp.priorC == 0
		if pp.unattr > 0 || (noContrib && pp.spendingOut == 0) {
			sink := b.add(Node{
				ID:        idNoRecipient,
				Name:      "No recipient disclosed",
				Type:      NodeRecipient,
				Aggregate: true,
			})
			if pp.unattr > 0 {
				sink.Value += pp.unattr
				sink.Display += pp.unattr
				b.edge(projectSpendingID(pp.proj.ID), sink.ID, pp.unattr)
			} else {
				// Project paid no recipient and spent nothing: terminal
				// placeholder keeps the column from dead-ending.
				b.placeholder(projectSpendingID(pp.proj.ID), sink.ID, 0)
			}
		}
	}
}

func recipientDetail(r *dataset.Recipient) map[string]any {
	d := map[string]any{}
	if r.TaxID != "" {
		d["tax_id"] = r.TaxID
	}
	if len(d) == 0 {
		return nil
	}
	return d
}

// emitSubRecipients attaches the sub-recipient column for every shown
// recipient that forwards money onward.
func (b *builder) emitSubRecipients(plan *forwardPlan) {
	resolver := newChainResolver(b.snap.Data)

	for _, ra := range plan.recipients.Shown {
		b.emitOutflows(resolver, ra.Item.r)
	}
}

// emitOutflows renders one recipient's onward payments: the top targets by
// merged amount plus a residual bucket.
func (b *builder) emitOutflows(resolver *chainResolver, r *dataset.Recipient) {
	if len(r.Outflows) == 0 {
		return
	}

	merged := mergeOutflows(r.Outflows)
	ranked := RankBy(merged, func(s subAgg) float64 { return s.amount })
	w := Page(ranked, 0, b.p.SubRecipientLimit)

	for _, rs := range w.Shown {
		sub := rs.Item
		n := b.add(Node{
			ID:      subRecipientID(r.ID, sub.name),
			Name:    sub.name,
			Type:    NodeSubRecipient,
			Value:   sub.amount,
			Display: sub.amount,
			Rank:    rs.Rank,
			Detail:  subDetail(resolver, r, sub),
		})
		b.edge(recipientNodeID(r.ID), n.ID, sub.amount)
	}

	if resid := w.ResidualTotal(); resid > 0 {
		b.add(Node{
			ID:        otherSubsID(r.ID),
			Name:      otherLabel("sub-recipients", w.CutoffRank()),
			Type:      NodeSubRecipient,
			Value:     resid,
			Display:   resid,
			Aggregate: true,
		})
		b.edge(recipientNodeID(r.ID), otherSubsID(r.ID), resid)
	}
}

func subDetail(resolver *chainResolver, r *dataset.Recipient, sub subAgg) map[string]any {
	d := map[string]any{}
	if sub.flowType != "" {
		d["flow_type"] = sub.flowType
	}
	if len(sub.projects) > 0 {
		d["project_ids"] = sub.projects
	}
	var pid int64
	if len(sub.projects) > 0 {
		pid = sub.projects[0]
	}
	if chain := resolver.Chain(r.Name, pid); len(chain) > 1 {
		d["funding_chain"] = chain
	}
	if len(d) == 0 {
		return nil
	}
	return d
}

// chainPrior links the collapsed prior-page nodes of consecutive columns
// with placeholder edges so a user can navigate back up without losing
// context. Only nodes that were actually emitted participate.
func (b *builder) chainPrior(ids ...string) {
	var present []string
	for _, id := range ids {
		if b.node(id) != nil {
			present = append(present, id)
		}
	}
	for i := 0; i+1 < len(present); i++ {
		b.placeholder(present[i], present[i+1], 0)
	}
}
