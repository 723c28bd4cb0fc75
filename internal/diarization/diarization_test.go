package diarization

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestDecodeValidatesSegments(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"valid", `[{"start":0,"end":1.5,"speaker":"SPEAKER_00"},{"start":1.5,"end":3,"speaker":" SPEAKER_01 "}]`, ""},
		{"empty array", `[]`, ""},
		{"missing speaker", `[{"start":0,"end":1}]`, "missing speaker"},
		{"inverted", `[{"start":2,"end":1,"speaker":"S0"}]`, "not before"},
		{"zero length", `[{"start":1,"end":1,"speaker":"S0"}]`, "not before"},
		{"not array", `{"segments":[]}`, "parse diarization"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs, err := Decode(strings.NewReader(tt.input))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				for _, s := range segs {
					if s.Speaker != strings.TrimSpace(s.Speaker) {
						t.Fatalf("speaker not trimmed: %q", s.Speaker)
					}
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestWriteLoadRoundTripKeepsUnicode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diarization.json")
	segs := []Segment{{Start: 0, End: 2.5, Speaker: "Locuteur_é_0"}, {Start: 2.5, End: 4, Speaker: "SPEAKER_01"}}
	if err := Write(path, segs); err != nil {
		t.Fatalf("Write: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "Locuteur_é_0") {
		t.Fatalf("expected raw UTF-8 in file, got %s", raw)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !slices.Equal(got, segs) {
		t.Fatalf("round trip mismatch: %#v", got)
	}
}

func TestToAlignAndLabels(t *testing.T) {
	segs := []Segment{
		{Start: 0, End: 1, Speaker: "SPEAKER_01"},
		{Start: 1, End: 2, Speaker: "SPEAKER_00"},
		{Start: 2, End: 3, Speaker: "SPEAKER_01"},
	}
	converted := ToAlign(segs)
	if len(converted) != 3 || converted[1].Speaker != "SPEAKER_00" || converted[2].End != 3 {
		t.Fatalf("unexpected conversion: %#v", converted)
	}
	if labels := Labels(segs); !slices.Equal(labels, []string{"SPEAKER_01", "SPEAKER_00"}) {
		t.Fatalf("unexpected labels: %v", labels)
	}
}

func TestDiarizeRunsScriptThroughUVX(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "diarization.json")
	svc := NewService(Config{HFToken: "hf_test", CUDAEnabled: true}, "")

	var gotName string
	var gotArgs []string
	svc.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		return Write(out, []Segment{{Start: 0, End: 1, Speaker: "SPEAKER_00"}})
	})

	segs, err := svc.Diarize(context.Background(), filepath.Join(dir, "audio.wav"), 2, out)
	if err != nil {
		t.Fatalf("Diarize: %v", err)
	}
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if gotName != "uvx" {
		t.Fatalf("expected uvx, got %q", gotName)
	}
	joined := strings.Join(gotArgs, " ")
	for _, want := range []string{"--with pyannote.audio", "--index-url https://download.pytorch.org/whl/cu128", "--num-speakers 2", "--model pyannote/speaker-diarization-3.1", "python " + filepath.Join(dir, ScriptName)} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in args %q", want, joined)
		}
	}
	if strings.Contains(joined, "hf_test") {
		t.Fatalf("token must not appear on the command line: %q", joined)
	}
	script, err := os.ReadFile(filepath.Join(dir, ScriptName))
	if err != nil {
		t.Fatalf("script not written: %v", err)
	}
	if !strings.Contains(string(script), "Pipeline.from_pretrained") {
		t.Fatal("unexpected script contents")
	}
}

func TestDiarizeRequiresToken(t *testing.T) {
	svc := NewService(Config{}, "uvx")
	svc.WithCommandRunner(func(context.Context, string, ...string) error {
		t.Fatal("runner should not be called")
		return nil
	})
	if _, err := svc.Diarize(context.Background(), "a.wav", 2, filepath.Join(t.TempDir(), "d.json")); err == nil {
		t.Fatal("expected token error")
	}
}

func TestDiarizeGatedModelError(t *testing.T) {
	svc := NewService(Config{HFToken: "x"}, "uvx")
	svc.WithCommandRunner(func(context.Context, string, ...string) error {
		return errors.New("uvx: exit status 1: GatedRepoError: Access to model is restricted")
	})
	_, err := svc.Diarize(context.Background(), "a.wav", 2, filepath.Join(t.TempDir(), "d.json"))
	if !errors.Is(err, ErrGatedModel) {
		t.Fatalf("expected gated model error, got %v", err)
	}
	if !strings.Contains(err.Error(), "hf.co/pyannote/speaker-diarization-3.1") {
		t.Fatalf("expected actionable message, got %v", err)
	}
}

func TestDiarizeRemovesStaleOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "d.json")
	if err := Write(out, []Segment{{Start: 0, End: 1, Speaker: "OLD_0"}}); err != nil {
		t.Fatal(err)
	}
	svc := NewService(Config{HFToken: "x"}, "uvx")
	svc.WithCommandRunner(func(context.Context, string, ...string) error { return nil })
	if _, err := svc.Diarize(context.Background(), "a.wav", 1, out); err == nil {
		t.Fatal("expected error when the script produced no output")
	}
}
