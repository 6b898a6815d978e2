package build

import (
	"errors"
	"strings"
	"testing"

	"github.com/harborlabs/berthd/internal/runtime"
)

func TestInstallErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		result  *runtime.ExecResult
		wantErr error
	}{
		{
			name:   "clean exit",
			result: &runtime.ExecResult{ExitCode: 0},
		},
		{
			name: "nonexistent package",
			result: &runtime.ExecResult{
				ExitCode: 1,
				Stderr:   "ERROR: No matching distribution found for no-such-package==9.9.9",
			},
			wantErr: ErrDependencyResolution,
		},
		{
			name:    "installer crash",
			result:  &runtime.ExecResult{ExitCode: 137},
			wantErr: ErrDependencyResolution,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := installError(tt.result)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.result.Stderr != "" && !strings.Contains(err.Error(), tt.result.Stderr) {
				t.Fatalf("err %q does not carry installer stderr %q", err, tt.result.Stderr)
			}
		})
	}
}

func TestSetupErrorMapping(t *testing.T) {
	if err := setupError(1, &runtime.ExecResult{ExitCode: 0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := setupError(2, &runtime.ExecResult{ExitCode: 127, Stderr: "sh: apt-get: not found"})
	if !errors.Is(err, ErrCommandFailed) {
		t.Fatalf("err = %v, want ErrCommandFailed", err)
	}
	if !strings.Contains(err.Error(), "setup 2") {
		t.Fatalf("err %q does not name the failing step", err)
	}
	if !strings.Contains(err.Error(), "sh: apt-get: not found") {
		t.Fatalf("err %q does not carry command stderr", err)
	}
}
