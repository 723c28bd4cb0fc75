package deps

import (
	"os"
	"path/filepath"
	"testing"

	"speakerscript/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[2].Detail)
	}
}

func TestMissingSkipsOptional(t *testing.T) {
	statuses := []Status{
		{Name: "ffmpeg", Available: false},
		{Name: "ffprobe", Available: false, Optional: true},
		{Name: "uvx", Available: true},
	}
	missing := Missing(statuses)
	if len(missing) != 1 || missing[0].Name != "ffmpeg" {
		t.Fatalf("unexpected missing set: %#v", missing)
	}
}

func TestRequirementsCoverPipelineTools(t *testing.T) {
	cfg := config.Default()
	reqs := Requirements(&cfg)
	commands := map[string]bool{}
	for _, r := range reqs {
		commands[r.Command] = r.Optional
	}
	if optional, ok := commands["ffmpeg"]; !ok || optional {
		t.Fatalf("ffmpeg should be required: %#v", reqs)
	}
	if optional, ok := commands["uvx"]; !ok || optional {
		t.Fatalf("uvx should be required: %#v", reqs)
	}
}
