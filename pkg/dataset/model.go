package dataset

import "time"

// BudgetBreakdown itemizes a project's budget by origin.
// Total is the authoritative figure; the components are informational and
// may not sum exactly to Total in the source data.
type BudgetBreakdown struct {
	Initial       Amount `json:"initial"`
	Supplementary Amount `json:"supplementary"`
	CarriedOver   Amount `json:"carried_over"`
	Reserve       Amount `json:"reserve"`
	Total         Amount `json:"total"`
}

// Project is a budgeted government initiative with its own spend tracking.
//
// Total budget is always >= 0. Spending may be 0 with budget > 0 and,
// as a known data anomaly, budget may be 0 with spending > 0. Both shapes
// must flow through the engine unchanged.
type Project struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Ministry     string          `json:"ministry"`
	Bureau       string          `json:"bureau,omitempty"`
	Budget       BudgetBreakdown `json:"budget"`
	Spending     Amount          `json:"spending"`
	RecipientIDs []int64         `json:"recipient_ids,omitempty"`
}

// Contribution is one payment from a project to a recipient.
type Contribution struct {
	ProjectID      int64  `json:"project_id"`
	Amount         Amount `json:"amount"`
	BlockID        string `json:"block_id,omitempty"`
	ContractMethod string `json:"contract_method,omitempty"`
}

// Outflow is money a recipient forwards to another named party.
// ProjectIDs lists the projects the forwarded money originated from.
type Outflow struct {
	To         string  `json:"to"`
	Amount     Amount  `json:"amount"`
	FlowType   string  `json:"flow_type,omitempty"`
	BlockID    string  `json:"block_id,omitempty"`
	ProjectIDs []int64 `json:"project_ids,omitempty"`
}

// Recipient is a party paid by one or more projects. A recipient with no
// outflows is terminal; one with outflows is a pass-through.
type Recipient struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	TaxID         string         `json:"tax_id,omitempty"`
	Contributions []Contribution `json:"contributions"`
	Total         Amount         `json:"total"`
	Outflows      []Outflow      `json:"outflows,omitempty"`
}

// MinistryNode is one level of the ministry → bureau → … → project hierarchy.
// Total equals the sum of child totals plus the directly attached projects'
// budgets; the upstream build precomputes it.
type MinistryNode struct {
	Name       string          `json:"name"`
	Path       string          `json:"path"`
	Total      Amount          `json:"total"`
	ProjectIDs []int64         `json:"project_ids,omitempty"`
	Children   []*MinistryNode `json:"children,omitempty"`
}

// Dataset is the immutable in-memory snapshot the engine works against.
// It is loaded once per process and never mutated afterwards.
type Dataset struct {
	FiscalYear  int             `json:"fiscal_year"`
	GeneratedAt time.Time       `json:"generated_at"`
	Ministries  []*MinistryNode `json:"ministries"`
	Projects    []Project       `json:"projects"`
	Recipients  []Recipient     `json:"recipients"`
}

// TotalBudget returns the sum of all top-level ministry totals.
func (d *Dataset) TotalBudget() Amount {
	var sum Amount
	for _, m := range d.Ministries {
		sum += m.Total
	}
	return sum
}
