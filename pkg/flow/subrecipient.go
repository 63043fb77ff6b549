package flow

import (
	"strconv"

	"github.com/mfujita/budgetflow/pkg/dataset"
)

// subAgg is one merged onward payment target. Datasets routinely list the
// same target several times for one recipient (one row per disclosure
// block), so outflows are merged by target name before ranking.
type subAgg struct {
	name     string
	amount   float64
	flowType string
	projects []int64
}

// mergeOutflows groups a recipient's outflows by target name, preserving
// first-seen order. Project IDs are deduplicated; the flow type of the
// first occurrence wins.
func mergeOutflows(outflows []dataset.Outflow) []subAgg {
	var order []subAgg
	index := make(map[string]int)

	for _, o := range outflows {
		i, ok := index[o.To]
		if !ok {
			index[o.To] = len(order)
			order = append(order, subAgg{name: o.To, flowType: o.FlowType})
			i = len(order) - 1
		}
		order[i].amount += o.Amount.Float64()
		for _, pid := range o.ProjectIDs {
			if !containsID(order[i].projects, pid) {
				order[i].projects = append(order[i].projects, pid)
			}
		}
	}
	return order
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// chainResolver answers "who paid this entity" by walking recorded
// outflows backwards. It is built once per generation from the full
// dataset, not just the shown page, so chains can reach through entities
// the current view does not render.
type chainResolver struct {
	// payers maps a target name to every (payer, outflow) pair that sent
	// money to it, in dataset order.
	payers map[string][]payerLink
}

type payerLink struct {
	r *dataset.Recipient
	o dataset.Outflow
}

func newChainResolver(d *dataset.Dataset) *chainResolver {
	rv := &chainResolver{payers: make(map[string][]payerLink)}
	for i := range d.Recipients {
		r := &d.Recipients[i]
		for _, o := range r.Outflows {
			rv.payers[o.To] = append(rv.payers[o.To], payerLink{r: r, o: o})
		}
	}
	return rv
}

// Chain returns the funding chain ending at name, ordered from the most
// upstream payer down to name itself. At each step the first recorded
// payer wins. Disclosure data contains genuine loops (A pays B, B pays A
// under another block), so the walk marks each (project, block) pair and
// stops when one repeats.
func (rv *chainResolver) Chain(name string, projectID int64) []string {
	chain := []string{name}
	visited := make(map[string]bool)

	cur := name
	for {
		links := rv.payers[cur]
		if len(links) == 0 {
			break
		}
		link := links[0]
		key := strconv.FormatInt(projectID, 10) + "|" + link.o.BlockID
		if visited[key] {
			break
		}
		visited[key] = true
		chain = append([]string{link.r.Name}, chain...)
		cur = link.r.Name
		if len(chain) > maxChainDepth {
			break
		}
	}
	return chain
}

// maxChainDepth caps pathological pass-through chains.
const maxChainDepth = 16
