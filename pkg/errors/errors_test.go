package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNotFoundMinistry, "ministry %q not in dataset", "Ministry of Silly Walks")

	if err.Code != ErrCodeNotFoundMinistry {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNotFoundMinistry)
	}
	if !strings.Contains(err.Message, "Ministry of Silly Walks") {
		t.Errorf("Message should carry the offending name, got %q", err.Message)
	}
	if !strings.HasPrefix(err.Error(), string(ErrCodeNotFoundMinistry)) {
		t.Errorf("Error() = %q, want code prefix", err.Error())
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := fmt.Errorf("disk exploded")
	err := Wrap(ErrCodeDatasetSource, cause, "load dataset")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if got := err.Error(); !strings.Contains(got, "disk exploded") {
		t.Errorf("Error() = %q, want cause included", got)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"Match", New(ErrCodeInvalidMode, "bad mode"), ErrCodeInvalidMode, true},
		{"Mismatch", New(ErrCodeInvalidMode, "bad mode"), ErrCodeInternal, false},
		{"PlainError", fmt.Errorf("plain"), ErrCodeInternal, false},
		{"WrappedMatch", fmt.Errorf("outer: %w", New(ErrCodeNotFoundProject, "x")), ErrCodeNotFoundProject, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"Ministry", New(ErrCodeNotFoundMinistry, "x"), true},
		{"Project", New(ErrCodeNotFoundProject, "x"), true},
		{"Recipient", New(ErrCodeNotFoundRecipient, "x"), true},
		{"Generic", New(ErrCodeNotFound, "x"), true},
		{"Internal", New(ErrCodeInternal, "x"), false},
		{"Plain", fmt.Errorf("plain"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.want {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidParams, "limit must be positive")
	if got := UserMessage(err); got != "limit must be positive" {
		t.Errorf("UserMessage = %q, want message without code", got)
	}

	plain := fmt.Errorf("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage = %q, want %q", got, "plain failure")
	}
}

func TestValidateEntityName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Valid", "Ministry of Education", false},
		{"ValidJapanese", "文部科学省", false},
		{"Empty", "", true},
		{"ControlChar", "bad\x01name", true},
		{"NullByte", "bad\x00name", true},
		{"TooLong", strings.Repeat("a", 300), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntityName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEntityName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidName {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidName)
			}
		})
	}
}
