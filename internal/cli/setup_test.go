package cli

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/mfujita/budgetflow/pkg/cache"
	"github.com/mfujita/budgetflow/pkg/config"
	"github.com/mfujita/budgetflow/pkg/dataset"
	"github.com/mfujita/budgetflow/pkg/flow"
)

func TestOpenSource(t *testing.T) {
	if _, err := openSource(config.DatasetConfig{Driver: config.DriverJSON, Path: "x.json"}); err != nil {
		t.Errorf("json driver: %v", err)
	}
	if _, err := openSource(config.DatasetConfig{Driver: config.DriverSQLite, Path: "x.db"}); err != nil {
		t.Errorf("sqlite driver: %v", err)
	}
	if _, err := openSource(config.DatasetConfig{Driver: "csv"}); err == nil {
		t.Error("unknown driver accepted")
	}
}

func TestOpenSourceTypes(t *testing.T) {
	src, _ := openSource(config.DatasetConfig{Driver: config.DriverJSON, Path: "x.json"})
	if _, ok := src.(*dataset.JSONSource); !ok {
		t.Errorf("json driver produced %T", src)
	}
	src, _ = openSource(config.DatasetConfig{Driver: config.DriverSQLite, Path: "x.db"})
	if _, ok := src.(*dataset.SQLiteSource); !ok {
		t.Errorf("sqlite driver produced %T", src)
	}
}

func TestOpenCache(t *testing.T) {
	logger := log.New(io.Discard)
	ctx := context.Background()

	c := openCache(ctx, config.CacheConfig{Backend: config.CacheMemory, Capacity: 8}, logger)
	if _, ok := c.(*cache.MemoryCache); !ok {
		t.Errorf("memory backend produced %T", c)
	}

	c = openCache(ctx, config.CacheConfig{Backend: config.CacheNone}, logger)
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("none backend produced %T", c)
	}
}

func TestApplyLimits(t *testing.T) {
	limits := config.LimitsConfig{Ministry: 20, Project: 15, Recipient: 12, SubRecipient: 3}

	got := applyLimits(flow.Params{Mode: flow.ModeGlobal}, limits)
	if got.MinistryLimit != 20 || got.ProjectLimit != 15 || got.RecipientLimit != 12 || got.SubRecipientLimit != 3 {
		t.Errorf("limits = %+v, want configured defaults", got)
	}

	// Explicit flag values win over configured defaults.
	got = applyLimits(flow.Params{Mode: flow.ModeGlobal, ProjectLimit: 5}, limits)
	if got.ProjectLimit != 5 {
		t.Errorf("project limit = %d, want explicit 5", got.ProjectLimit)
	}
}
