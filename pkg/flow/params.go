package flow

import (
	"github.com/mfujita/budgetflow/pkg/cache"
	"github.com/mfujita/budgetflow/pkg/errors"
)

// Mode selects the view the graph is generated for.
type Mode string

// View modes.
const (
	// ModeGlobal renders top ministries and everything downstream of them.
	ModeGlobal Mode = "global"
	// ModeMinistry fixes one ministry and paginates its projects.
	ModeMinistry Mode = "ministry"
	// ModeProject fixes one project and paginates its recipients.
	ModeProject Mode = "project"
	// ModeRecipient fixes one recipient and reverses the flow direction:
	// the diagram answers "who funded this recipient".
	ModeRecipient Mode = "recipient"
)

// Default Top-N limits per column.
const (
	DefaultMinistryLimit     = 10
	DefaultProjectLimit      = 10
	DefaultRecipientLimit    = 10
	DefaultSubRecipientLimit = 5
)

// Params is the full view-parameter set. Limits are Top-N page sizes per
// column; levels are 0-indexed drilldown pages in units of the column's
// limit (level 1 with limit 10 shows ranks 11-20).
//
// The zero value is usable: Canonical fills every default explicitly, so an
// omitted parameter and its default hash to the same cache key.
type Params struct {
	Mode   Mode   `json:"mode"`
	Target string `json:"target,omitempty"` // fixed entity name for non-global modes

	MinistryLimit     int `json:"ministry_limit"`
	ProjectLimit      int `json:"project_limit"`
	RecipientLimit    int `json:"recipient_limit"`
	SubRecipientLimit int `json:"sub_recipient_limit"`

	MinistryLevel  int `json:"ministry_level"`
	ProjectLevel   int `json:"project_level"`
	RecipientLevel int `json:"recipient_level"`
}

// Canonical returns a copy with every default applied explicitly and
// negative drilldown levels clamped to zero.
func (p Params) Canonical() Params {
	if p.Mode == "" {
		p.Mode = ModeGlobal
	}
	if p.MinistryLimit <= 0 {
		p.MinistryLimit = DefaultMinistryLimit
	}
	if p.ProjectLimit <= 0 {
		p.ProjectLimit = DefaultProjectLimit
	}
	if p.RecipientLimit <= 0 {
		p.RecipientLimit = DefaultRecipientLimit
	}
	if p.SubRecipientLimit <= 0 {
		p.SubRecipientLimit = DefaultSubRecipientLimit
	}
	if p.MinistryLevel < 0 {
		p.MinistryLevel = 0
	}
	if p.ProjectLevel < 0 {
		p.ProjectLevel = 0
	}
	if p.RecipientLevel < 0 {
		p.RecipientLevel = 0
	}
	return p
}

// Validate checks a canonicalized parameter set.
func (p Params) Validate() error {
	switch p.Mode {
	case ModeGlobal:
		if p.Target != "" {
			return errors.New(errors.ErrCodeInvalidParams, "global view takes no target entity")
		}
	case ModeMinistry, ModeProject, ModeRecipient:
		if err := errors.ValidateEntityName(p.Target); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidMode, "unknown view mode %q", p.Mode)
	}
	return nil
}

// CacheKey returns the result-cache key for the canonicalized parameters.
// Field order is fixed; two parameter sets with equal canonical forms always
// produce the same key.
func (p Params) CacheKey() string {
	c := p.Canonical()
	return cache.Key("flow",
		string(c.Mode), c.Target,
		c.MinistryLimit, c.ProjectLimit, c.RecipientLimit, c.SubRecipientLimit,
		c.MinistryLevel, c.ProjectLevel, c.RecipientLevel,
	)
}
