package dataset

// Index provides O(1) lookups over a Dataset. It is built once per load and
// shared read-only afterwards; chain walks in the sub-recipient resolver
// depend on it staying linear instead of rescanning the flat lists.
type Index struct {
	ProjectByID     map[int64]*Project
	ProjectByName   map[string]*Project
	RecipientByID   map[int64]*Recipient
	RecipientByName map[string]*Recipient
	MinistryByName  map[string]*MinistryNode

	// ProjectsByMinistry groups projects under their top-level ministry name.
	ProjectsByMinistry map[string][]*Project

	// ContributionsByProject groups (recipient, contribution) pairs by the
	// paying project, preserving dataset order.
	ContributionsByProject map[int64][]RecipientContribution
}

// RecipientContribution pairs a contribution with the recipient it funded.
type RecipientContribution struct {
	Recipient    *Recipient
	Contribution Contribution
}

// BuildIndex constructs lookup maps for the dataset.
// Name collisions keep the first occurrence, matching upstream behavior
// where names were canonicalized before the snapshot was written.
func BuildIndex(d *Dataset) *Index {
	idx := &Index{
		ProjectByID:            make(map[int64]*Project, len(d.Projects)),
		ProjectByName:          make(map[string]*Project, len(d.Projects)),
		RecipientByID:          make(map[int64]*Recipient, len(d.Recipients)),
		RecipientByName:        make(map[string]*Recipient, len(d.Recipients)),
		MinistryByName:         make(map[string]*MinistryNode, len(d.Ministries)),
		ProjectsByMinistry:     make(map[string][]*Project, len(d.Ministries)),
		ContributionsByProject: make(map[int64][]RecipientContribution),
	}

	for i := range d.Projects {
		p := &d.Projects[i]
		idx.ProjectByID[p.ID] = p
		if _, ok := idx.ProjectByName[p.Name]; !ok {
			idx.ProjectByName[p.Name] = p
		}
		idx.ProjectsByMinistry[p.Ministry] = append(idx.ProjectsByMinistry[p.Ministry], p)
	}

	for i := range d.Recipients {
		r := &d.Recipients[i]
		idx.RecipientByID[r.ID] = r
		if _, ok := idx.RecipientByName[r.Name]; !ok {
			idx.RecipientByName[r.Name] = r
		}
		for _, c := range r.Contributions {
			idx.ContributionsByProject[c.ProjectID] = append(idx.ContributionsByProject[c.ProjectID],
				RecipientContribution{Recipient: r, Contribution: c})
		}
	}

	for _, m := range d.Ministries {
		indexMinistry(idx, m)
	}

	return idx
}

// indexMinistry registers a hierarchy node and its descendants by name.
// Only top-level nodes matter for view resolution, but bureau nodes are
// indexed too so path lookups stay cheap.
func indexMinistry(idx *Index, m *MinistryNode) {
	if _, ok := idx.MinistryByName[m.Name]; !ok {
		idx.MinistryByName[m.Name] = m
	}
	for _, child := range m.Children {
		indexMinistry(idx, child)
	}
}

// ContributionTo returns the total amount a project paid to the recipient,
// summed across that recipient's contribution entries for the project.
func (idx *Index) ContributionTo(projectID int64, r *Recipient) Amount {
	var sum Amount
	for _, c := range r.Contributions {
		if c.ProjectID == projectID {
			sum += c.Amount
		}
	}
	return sum
}
