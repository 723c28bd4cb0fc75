package services_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"speakerscript/internal/services"
)

func TestExecRunnerReportsOutputOnFailure(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "fail")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho \"bad input $SPEAKERSCRIPT_TEST\" >&2\nexit 3\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	err := services.ExecRunner("SPEAKERSCRIPT_TEST=marker")(context.Background(), script)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "bad input marker") {
		t.Fatalf("expected stderr and env in error, got %v", err)
	}
}

func TestExecRunnerSuccess(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "ok")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	if err := services.ExecRunner()(context.Background(), script, "a", "b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
