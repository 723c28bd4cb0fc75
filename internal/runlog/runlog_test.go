package runlog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"speakerscript/internal/runlog"
)

func writeLog(t *testing.T, root, recording, runID, content string) string {
	t.Helper()
	path := filepath.Join(root, recording, "logs", runID+runlog.Extension)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	first := writeLog(t, root, "interview", "3f2a9c10-aaaa", "")
	writeLog(t, root, "podcast", "3f2b0000-bbbb", "")

	tests := []struct {
		id   string
		want string
		err  error
	}{
		{id: "3f2a", want: first},
		{id: "3f2a9c10-aaaa", want: first},
		{id: "3f2", err: runlog.ErrAmbiguous},
		{id: "ffff", err: runlog.ErrNotFound},
		{id: "../x", err: runlog.ErrNotFound},
		{id: " ", err: runlog.ErrNotFound},
	}
	for _, tc := range tests {
		got, err := runlog.Find(root, tc.id)
		if tc.err != nil {
			if !errors.Is(err, tc.err) {
				t.Fatalf("Find(%q) err = %v, want %v", tc.id, err, tc.err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("Find(%q) = %q, %v", tc.id, got, err)
		}
	}
}

func TestTailLastLines(t *testing.T) {
	path := writeLog(t, t.TempDir(), "rec", "run", "one\ntwo\nthree\nfour\n")

	lines, offset, err := runlog.Tail(path, 2)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if strings.Join(lines, ",") != "three,four" {
		t.Fatalf("lines = %v", lines)
	}
	if offset != int64(len("one\ntwo\nthree\nfour\n")) {
		t.Fatalf("offset = %d", offset)
	}

	all, _, err := runlog.Tail(path, 0)
	if err != nil || len(all) != 4 {
		t.Fatalf("Tail(0) = %v, %v", all, err)
	}
}

func TestTailLeavesPartialLineForFollow(t *testing.T) {
	path := writeLog(t, t.TempDir(), "rec", "run", "one\ntwo\npart")

	lines, offset, err := runlog.Tail(path, 10)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if strings.Join(lines, ",") != "one,two" {
		t.Fatalf("lines = %v", lines)
	}
	if offset != int64(len("one\ntwo\n")) {
		t.Fatalf("offset = %d", offset)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := file.WriteString("ial\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	file.Close()

	ctx, cancel := context.WithCancel(context.Background())
	var got []string
	err = runlog.Follow(ctx, path, offset, func(line string) {
		got = append(got, line)
		cancel()
	})
	cancel()
	if err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if strings.Join(got, ",") != "partial" {
		t.Fatalf("followed lines = %v", got)
	}
}

func TestFollowEmitsAppendedLines(t *testing.T) {
	path := writeLog(t, t.TempDir(), "rec", "run", "old\n")
	_, offset, err := runlog.Tail(path, 10)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var mu sync.Mutex
	var got []string
	done := make(chan error, 1)
	go func() {
		done <- runlog.Follow(ctx, path, offset, func(line string) {
			mu.Lock()
			got = append(got, line)
			mu.Unlock()
		})
	}()

	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := file.WriteString("new\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	file.Close()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Follow: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0] != "new" {
		t.Fatalf("followed lines = %v", got)
	}
}

func TestFormat(t *testing.T) {
	line := `{"ts":"2026-01-02T03:04:05Z","level":"info","msg":"stage complete","component":"pipeline","stage":"diarize","run_id":"abc","elapsed":1500000000,"path":"/tmp/my file.json"}`
	want := `2026-01-02T03:04:05Z INFO pipeline/diarize: stage complete elapsed=1.5e+09 path="/tmp/my file.json"`
	if got := runlog.Format(line); got != want {
		t.Fatalf("Format =\n%s\nwant\n%s", got, want)
	}
	if got := runlog.Format("plain text"); got != "plain text" {
		t.Fatalf("non-JSON line changed: %q", got)
	}
}
