package dataset

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver

	"github.com/mfujita/budgetflow/pkg/errors"
)

// SQLiteSource loads a snapshot from the SQLite database the upstream
// ingestion pipeline writes. The schema is the normalized form of the raw
// recipients CSV: one row per project, recipient, contribution, and outflow,
// with the ministry hierarchy flattened to (path, name, total) rows.
type SQLiteSource struct {
	path string
}

// NewSQLiteSource creates a source reading from the given database file.
func NewSQLiteSource(path string) *SQLiteSource {
	return &SQLiteSource{path: path}
}

// Load reads the full snapshot. The database is opened read-only; the
// snapshot is immutable by contract and nothing here writes.
func (s *SQLiteSource) Load(ctx context.Context) (*Dataset, error) {
	db, err := sql.Open("sqlite", s.path+"?mode=ro&_pragma=journal_mode(wal)")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatasetSource, err, "open %s", s.path)
	}
	defer db.Close()

	d := &Dataset{}
	if err := s.loadMeta(ctx, db, d); err != nil {
		return nil, err
	}
	if err := s.loadProjects(ctx, db, d); err != nil {
		return nil, err
	}
	if err := s.loadRecipients(ctx, db, d); err != nil {
		return nil, err
	}
	if err := s.loadMinistries(ctx, db, d); err != nil {
		return nil, err
	}

	if err := validateSnapshot(d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *SQLiteSource) loadMeta(ctx context.Context, db *sql.DB, d *Dataset) error {
	var generated string
	err := db.QueryRowContext(ctx,
		`SELECT fiscal_year, generated_at FROM meta LIMIT 1`).Scan(&d.FiscalYear, &generated)
	if err != nil {
		return errors.Wrap(errors.ErrCodeMalformedDataset, err, "read meta")
	}
	if t, err := time.Parse(time.RFC3339, generated); err == nil {
		d.GeneratedAt = t
	}
	return nil
}

func (s *SQLiteSource) loadProjects(ctx context.Context, db *sql.DB, d *Dataset) error {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, ministry, COALESCE(bureau, ''),
		       COALESCE(budget_initial, 0), COALESCE(budget_supplementary, 0),
		       COALESCE(budget_carried_over, 0), COALESCE(budget_reserve, 0),
		       COALESCE(budget_total, 0), COALESCE(spending, 0)
		FROM projects ORDER BY id`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeMalformedDataset, err, "query projects")
	}
	defer rows.Close()

	for rows.Next() {
		var p Project
		var initial, supp, carried, reserve, total, spending float64
		if err := rows.Scan(&p.ID, &p.Name, &p.Ministry, &p.Bureau,
			&initial, &supp, &carried, &reserve, &total, &spending); err != nil {
			return errors.Wrap(errors.ErrCodeMalformedDataset, err, "scan project")
		}
		p.Budget = BudgetBreakdown{
			Initial:       Amount(initial),
			Supplementary: Amount(supp),
			CarriedOver:   Amount(carried),
			Reserve:       Amount(reserve),
			Total:         Amount(total),
		}
		p.Spending = Amount(spending)
		d.Projects = append(d.Projects, p)
	}
	return rows.Err()
}

func (s *SQLiteSource) loadRecipients(ctx context.Context, db *sql.DB, d *Dataset) error {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, COALESCE(corporate_number, ''), COALESCE(total, 0)
		FROM recipients ORDER BY id`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeMalformedDataset, err, "query recipients")
	}
	defer rows.Close()

	byID := make(map[int64]int)
	for rows.Next() {
		var r Recipient
		var total float64
		if err := rows.Scan(&r.ID, &r.Name, &r.TaxID, &total); err != nil {
			return errors.Wrap(errors.ErrCodeMalformedDataset, err, "scan recipient")
		}
		r.Total = Amount(total)
		byID[r.ID] = len(d.Recipients)
		d.Recipients = append(d.Recipients, r)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if err := s.loadContributions(ctx, db, d, byID); err != nil {
		return err
	}
	return s.loadOutflows(ctx, db, d, byID)
}

func (s *SQLiteSource) loadContributions(ctx context.Context, db *sql.DB, d *Dataset, byID map[int64]int) error {
	rows, err := db.QueryContext(ctx, `
		SELECT recipient_id, project_id, COALESCE(amount, 0),
		       COALESCE(block_id, ''), COALESCE(contract_method, '')
		FROM contributions ORDER BY rowid`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeMalformedDataset, err, "query contributions")
	}
	defer rows.Close()

	for rows.Next() {
		var rid int64
		var c Contribution
		var amount float64
		if err := rows.Scan(&rid, &c.ProjectID, &amount, &c.BlockID, &c.ContractMethod); err != nil {
			return errors.Wrap(errors.ErrCodeMalformedDataset, err, "scan contribution")
		}
		c.Amount = Amount(amount)
		i, ok := byID[rid]
		if !ok {
			// Dangling reference: skip rather than fail, per the graceful
			// degradation contract for source data.
			continue
		}
		d.Recipients[i].Contributions = append(d.Recipients[i].Contributions, c)
	}
	return rows.Err()
}

func (s *SQLiteSource) loadOutflows(ctx context.Context, db *sql.DB, d *Dataset, byID map[int64]int) error {
	rows, err := db.QueryContext(ctx, `
		SELECT recipient_id, target_name, COALESCE(amount, 0),
		       COALESCE(flow_type, ''), COALESCE(block_id, ''), COALESCE(project_ids, '')
		FROM outflows ORDER BY rowid`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeMalformedDataset, err, "query outflows")
	}
	defer rows.Close()

	for rows.Next() {
		var rid int64
		var o Outflow
		var amount float64
		var projectIDs string
		if err := rows.Scan(&rid, &o.To, &amount, &o.FlowType, &o.BlockID, &projectIDs); err != nil {
			return errors.Wrap(errors.ErrCodeMalformedDataset, err, "scan outflow")
		}
		o.Amount = Amount(amount)
		o.ProjectIDs = parseIDList(projectIDs)
		i, ok := byID[rid]
		if !ok {
			continue
		}
		d.Recipients[i].Outflows = append(d.Recipients[i].Outflows, o)
	}
	return rows.Err()
}

func (s *SQLiteSource) loadMinistries(ctx context.Context, db *sql.DB, d *Dataset) error {
	rows, err := db.QueryContext(ctx, `
		SELECT path, name, COALESCE(total, 0), COALESCE(project_ids, '')
		FROM ministries ORDER BY path`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeMalformedDataset, err, "query ministries")
	}
	defer rows.Close()

	byPath := make(map[string]*MinistryNode)
	for rows.Next() {
		var node MinistryNode
		var total float64
		var projectIDs string
		if err := rows.Scan(&node.Path, &node.Name, &total, &projectIDs); err != nil {
			return errors.Wrap(errors.ErrCodeMalformedDataset, err, "scan ministry")
		}
		node.Total = Amount(total)
		node.ProjectIDs = parseIDList(projectIDs)
		byPath[node.Path] = &node

		if parent, ok := byPath[parentPath(node.Path)]; ok && parentPath(node.Path) != "" {
			parent.Children = append(parent.Children, &node)
		} else {
			d.Ministries = append(d.Ministries, &node)
		}
	}
	return rows.Err()
}
