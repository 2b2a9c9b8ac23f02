package cli

import (
	"errors"
	"fmt"
	"testing"

	ruleErrors "github.com/anushka81/Rule-Engine-with-AST/pkg/rules/errors"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/store"
)

func TestConfigError(t *testing.T) {
	tests := []struct {
		name string
		err  *ConfigError
		want string
	}{
		{
			name: "with field",
			err:  NewConfigError("server.listen_address", "missing required field"),
			want: "config error in server.listen_address: missing required field",
		},
		{
			name: "without field",
			err:  NewConfigError("", "failed to load config"),
			want: "config error: failed to load config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommandError(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := NewCommandError("serve", underlyingErr)

	expected := "command serve failed: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if err.Unwrap() != underlyingErr {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), underlyingErr)
	}
	if !errors.Is(err, underlyingErr) {
		t.Error("errors.Is() should work with CommandError.Unwrap()")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain", errors.New("boom"), ExitFailure},
		{"config", NewConfigError("output", "bad"), ExitConfig},
		{"wrapped config", fmt.Errorf("startup: %w", NewConfigError("", "bad")), ExitConfig},
		{"not found", NewCommandError("rules get", fmt.Errorf("%w: abc", store.ErrRuleNotFound)), ExitNotFound},
		{"parse", NewCommandError("parse", ruleErrors.NewParseError("bad", "a=1", 1)), ExitRule},
		{"combine", fmt.Errorf("%w: need two rules", ruleErrors.ErrCombine), ExitRule},
		{"evaluation", fmt.Errorf("%w: boom", ruleErrors.ErrEvaluation), ExitRule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
