package flow

import (
	"testing"

	"github.com/mfujita/budgetflow/pkg/errors"
)

func TestParamsCanonical(t *testing.T) {
	got := Params{RecipientLevel: -2}.Canonical()

	if got.Mode != ModeGlobal {
		t.Errorf("mode = %q, want %q", got.Mode, ModeGlobal)
	}
	if got.MinistryLimit != DefaultMinistryLimit ||
		got.ProjectLimit != DefaultProjectLimit ||
		got.RecipientLimit != DefaultRecipientLimit ||
		got.SubRecipientLimit != DefaultSubRecipientLimit {
		t.Errorf("limits = %+v, want defaults", got)
	}
	if got.RecipientLevel != 0 {
		t.Errorf("recipient level = %d, want 0", got.RecipientLevel)
	}

	explicit := Params{Mode: ModeMinistry, Target: "m", ProjectLimit: 3, ProjectLevel: 2}.Canonical()
	if explicit.ProjectLimit != 3 || explicit.ProjectLevel != 2 {
		t.Errorf("explicit values changed: %+v", explicit)
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		code errors.Code
	}{
		{"global ok", Params{Mode: ModeGlobal}, ""},
		{"ministry ok", Params{Mode: ModeMinistry, Target: "Ministry A"}, ""},
		{"global with target", Params{Mode: ModeGlobal, Target: "x"}, errors.ErrCodeInvalidParams},
		{"ministry without target", Params{Mode: ModeMinistry}, errors.ErrCodeInvalidName},
		{"control chars in target", Params{Mode: ModeProject, Target: "a\x00b"}, errors.ErrCodeInvalidName},
		{"unknown mode", Params{Mode: "spiral"}, errors.ErrCodeInvalidMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Canonical().Validate()
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("Validate() code = %q, want %q", got, tt.code)
			}
		})
	}
}

func TestParamsCacheKey(t *testing.T) {
	base := Params{Mode: ModeMinistry, Target: "Ministry A"}

	if got, want := base.CacheKey(), base.Canonical().CacheKey(); got != want {
		t.Errorf("canonicalization changed the key: %q vs %q", got, want)
	}

	explicit := base
	explicit.ProjectLimit = DefaultProjectLimit
	if base.CacheKey() != explicit.CacheKey() {
		t.Error("default and explicit default produced different keys")
	}

	other := base
	other.ProjectLevel = 1
	if base.CacheKey() == other.CacheKey() {
		t.Error("different levels produced the same key")
	}
}
