package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// ReadFile returns the contents of path or fails the test.
func ReadFile(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// Sample fixtures shared by the pipeline and CLI tests: two speakers whose
// labels resolve to indices 0 and 1.
const (
	SampleDiarization = `[
    {"start": 0.0, "end": 2.0, "speaker": "SPEAKER_00"},
    {"start": 2.0, "end": 4.0, "speaker": "SPEAKER_01"},
    {"start": 4.0, "end": 6.0, "speaker": "SPEAKER_00"}
]`
	SampleTranscription = `[
    {"start": 0.1, "end": 1.0, "text": " Bonjour."},
    {"start": 1.0, "end": 1.9, "text": " Comment ça va ?"},
    {"start": 2.1, "end": 3.8, "text": " Très bien."},
    {"start": 4.2, "end": 5.5, "text": " Parfait."}
]`
	SampleTranscript = "Alice:\nBonjour.\nComment ça va ?\n\nBob:\nTrès bien.\n\nAlice:\nParfait.\n"
)
