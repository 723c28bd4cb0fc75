package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestConvertBuildsFFmpegInvocation(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "meeting.m4a")
	if err := os.WriteFile(source, []byte("fake"), 0o644); err != nil {
		t.Fatal(err)
	}
	dest := filepath.Join(dir, "audio.wav")

	var gotName string
	var gotArgs []string
	run := func(_ context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		return nil
	}
	if err := Convert(context.Background(), run, "", source, dest); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if gotName != "ffmpeg" {
		t.Fatalf("expected default ffmpeg binary, got %q", gotName)
	}
	want := []string{"-y", "-hide_banner", "-loglevel", "error", "-i", source, "-vn", "-sn", "-dn", "-ac", "1", "-ar", "16000", "-c:a", "pcm_s16le", dest}
	if !reflect.DeepEqual(gotArgs, want) {
		t.Fatalf("unexpected args:\n got %v\nwant %v", gotArgs, want)
	}
}

func TestConvertRejectsMissingSource(t *testing.T) {
	called := false
	run := func(context.Context, string, ...string) error {
		called = true
		return nil
	}
	err := Convert(context.Background(), run, "ffmpeg", filepath.Join(t.TempDir(), "absent.mp3"), "out.wav")
	if err == nil {
		t.Fatal("expected error for missing source")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if called {
		t.Fatal("ffmpeg should not run for a missing source")
	}
}

func TestConvertPropagatesRunnerError(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "in.mp3")
	if err := os.WriteFile(source, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("exit status 1")
	err := Convert(context.Background(), func(context.Context, string, ...string) error { return boom }, "ffmpeg", source, filepath.Join(dir, "out.wav"))
	if !errors.Is(err, boom) {
		t.Fatalf("expected runner error, got %v", err)
	}
}

func TestParseProbe(t *testing.T) {
	raw := []byte(`{"streams":[{"index":0,"codec_type":"video"},{"index":1,"codec_type":"audio","sample_rate":"48000","channels":2}],"format":{"duration":"123.45","format_name":"mov,mp4"}}`)
	result, err := ParseProbe(raw)
	if err != nil {
		t.Fatalf("ParseProbe: %v", err)
	}
	if result.AudioStreamCount() != 1 {
		t.Fatalf("expected 1 audio stream, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
}

func TestDurationHandlesInvalidNumbers(t *testing.T) {
	for _, value := range []string{"", "bad", "-1", "NaN"} {
		r := ProbeResult{Format: Format{Duration: value}}
		if got := r.DurationSeconds(); got != 0 {
			t.Fatalf("DurationSeconds(%q) = %v, want 0", value, got)
		}
	}
}
