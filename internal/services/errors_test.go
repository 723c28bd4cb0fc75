package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"speakerscript/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "diarize", "pyannote", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"diarize", "pyannote", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestExitCodeMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, services.ExitOK},
		{"busy", services.Wrap(services.ErrBusy, "run", "lock", "held", nil), services.ExitBusy},
		{"validation", services.Wrap(services.ErrValidation, "align", "", "bad", nil), services.ExitUsage},
		{"config", fmt.Errorf("load: %w", services.ErrConfiguration), services.ExitConfiguration},
		{"tool", services.Wrap(services.ErrExternalTool, "transcribe", "whisperx", "", errors.New("exit 1")), services.ExitExternalTool},
		{"plain", errors.New("io"), services.ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.ExitCode(tt.err); got != tt.want {
				t.Fatalf("ExitCode = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFailureKind(t *testing.T) {
	if kind := services.FailureKind(nil); kind != "" {
		t.Fatalf("expected empty kind for nil, got %q", kind)
	}
	if kind := services.FailureKind(services.Wrap(services.ErrValidation, "align", "", "", nil)); kind != "validation" {
		t.Fatalf("unexpected kind %q", kind)
	}
	if kind := services.FailureKind(errors.New("x")); kind != "failed" {
		t.Fatalf("unexpected kind %q", kind)
	}
}
