package align

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestRenderTextLayout(t *testing.T) {
	blocks := []Block{
		{Speaker: "Alice", Index: 0, Start: 0, End: 4, Lines: []string{"Hi", "there"}},
		{Speaker: "Bob", Index: 1, Start: 6, End: 9, Lines: []string{"World"}},
	}
	want := "Alice:\nHi\nthere\n\nBob:\nWorld\n"
	if got := Text(blocks); got != want {
		t.Fatalf("Text mismatch:\n got %q\nwant %q", got, want)
	}
	if got := Text(nil); got != "" {
		t.Fatalf("expected empty output for no blocks, got %q", got)
	}
}

func TestRenderTimestamped(t *testing.T) {
	blocks := []Block{{Speaker: "Alice", Start: 61.4, End: 3725, Lines: []string{"Hi"}}}
	var buf bytes.Buffer
	if err := Render(&buf, blocks, FormatTimestamped); err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "Alice [00:01:01 - 01:02:05]:\nHi\n"
	if buf.String() != want {
		t.Fatalf("got %q want %q", buf.String(), want)
	}
}

func TestRenderJSON(t *testing.T) {
	blocks := []Block{{Speaker: "Bob", Index: 1, Start: 6, End: 9, Lines: []string{"World"}}}
	var buf bytes.Buffer
	if err := Render(&buf, blocks, FormatJSON); err != nil {
		t.Fatalf("Render: %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != 1 || decoded[0]["speaker"] != "Bob" || decoded[0]["index"] != float64(1) {
		t.Fatalf("unexpected JSON: %s", buf.String())
	}

	buf.Reset()
	if err := Render(&buf, nil, FormatJSON); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("expected empty array, got %q", buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("JSON"); err != nil || f != FormatJSON {
		t.Fatalf("ParseFormat(JSON) = %q, %v", f, err)
	}
	if _, err := ParseFormat("srt"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
