package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mfujita/budgetflow/pkg/errors"
)

// JSONSource loads a snapshot from a single JSON file.
// The file is the serialized form of Dataset; unknown fields are ignored and
// malformed numeric fields decode to zero via Amount.
type JSONSource struct {
	path string
}

// NewJSONSource creates a source reading from the given file path.
func NewJSONSource(path string) *JSONSource {
	return &JSONSource{path: path}
}

// Load reads and decodes the snapshot file.
func (s *JSONSource) Load(ctx context.Context) (*Dataset, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatasetSource, err, "open %s", s.path)
	}
	defer f.Close()
	return decodeSnapshot(f, s.path)
}

func decodeSnapshot(r io.Reader, name string) (*Dataset, error) {
	var d Dataset
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedDataset, err, "decode %s", name)
	}
	if err := validateSnapshot(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

// validateSnapshot rejects structurally broken snapshots early. Value-level
// anomalies (zero budgets with spending, mismatched totals) pass through;
// only referential breakage that would corrupt every downstream graph fails.
func validateSnapshot(d *Dataset) error {
	if len(d.Projects) == 0 {
		return errors.New(errors.ErrCodeMalformedDataset, "snapshot has no projects")
	}

	seen := make(map[int64]bool, len(d.Projects))
	for _, p := range d.Projects {
		if seen[p.ID] {
			return errors.New(errors.ErrCodeMalformedDataset, "duplicate project id %d (%s)", p.ID, p.Name)
		}
		seen[p.ID] = true
		if p.Budget.Total < 0 {
			return errors.New(errors.ErrCodeMalformedDataset, "project %d (%s) has negative budget", p.ID, p.Name)
		}
	}

	seenR := make(map[int64]bool, len(d.Recipients))
	for _, r := range d.Recipients {
		if seenR[r.ID] {
			return errors.New(errors.ErrCodeMalformedDataset, "duplicate recipient id %d (%s)", r.ID, r.Name)
		}
		seenR[r.ID] = true
	}

	return nil
}

// WriteSnapshot serializes a dataset to w as indented JSON.
// Useful for converting between source backends and for test fixtures.
func WriteSnapshot(d *Dataset, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}
