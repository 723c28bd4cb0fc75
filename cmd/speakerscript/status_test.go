package main

import (
	"strings"
	"testing"

	"speakerscript/internal/testsupport"
)

func TestStatusReportAllAvailable(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())

	lines, problems := statusReport(cfg, false)
	if problems != 0 {
		t.Fatalf("problems = %d\n%s", problems, strings.Join(lines, "\n"))
	}
	report := strings.Join(lines, "\n")
	for _, want := range []string{"FFmpeg:", "[OK]", "Hugging Face token:", "French"} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
	if strings.Contains(report, "\x1b[") {
		t.Fatalf("uncolored report contains escape codes:\n%s", report)
	}
}

func TestStatusReportMissingToken(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries(), testsupport.WithHFToken(""))

	lines, problems := statusReport(cfg, false)
	if problems != 1 {
		t.Fatalf("problems = %d, want 1", problems)
	}
	if !strings.Contains(strings.Join(lines, "\n"), "[ERROR] missing") {
		t.Fatalf("missing token not reported:\n%s", strings.Join(lines, "\n"))
	}
}

func TestRenderStatusLineColor(t *testing.T) {
	plain := renderStatusLine("uvx", statusWarn, "slow", false)
	if plain != "  uvx:               [WARN] slow" {
		t.Fatalf("plain = %q", plain)
	}
	colored := renderStatusLine("uvx", statusError, "", true)
	if !strings.HasPrefix(colored, ansiRed) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("colored = %q", colored)
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0:00"},
		{-3, "0:00"},
		{4.4, "0:04"},
		{59.6, "1:00"},
		{3725, "1:02:05"},
	}
	for _, tc := range tests {
		if got := formatSeconds(tc.in); got != tc.want {
			t.Fatalf("formatSeconds(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
