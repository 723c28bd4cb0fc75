package runlog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Extension is the suffix of every run log file.
const Extension = ".log"

var (
	// ErrNotFound reports that no log matches a run ID.
	ErrNotFound = errors.New("run log not found")
	// ErrAmbiguous reports a run ID prefix that matches several logs.
	ErrAmbiguous = errors.New("ambiguous run id")
)

const (
	readBufferSize = 64 * 1024
	pollInterval   = 250 * time.Millisecond
)

// Find returns the log for runID below workRoot. runID may be a unique prefix.
func Find(workRoot, runID string) (string, error) {
	runID = strings.TrimSpace(runID)
	if runID == "" || strings.ContainsAny(runID, `/\*?[`) {
		return "", fmt.Errorf("%w: invalid run id %q", ErrNotFound, runID)
	}
	matches, err := filepath.Glob(filepath.Join(workRoot, "*", "logs", runID+"*"+Extension))
	if err != nil {
		return "", fmt.Errorf("search run logs: %w", err)
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNotFound, runID)
	case 1:
		return matches[0], nil
	}
	for _, match := range matches {
		if strings.TrimSuffix(filepath.Base(match), Extension) == runID {
			return match, nil
		}
	}
	return "", fmt.Errorf("%w: %s matches %d logs", ErrAmbiguous, runID, len(matches))
}

// Tail returns up to limit trailing complete lines of path and the offset
// just past the last newline, so a partial line still being written is picked
// up by Follow. A non-positive limit returns every line.
func Tail(path string, limit int) ([]string, int64, error) {
	lines, offset, err := readFrom(path, 0)
	if err != nil {
		return nil, 0, err
	}
	if limit > 0 && len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	return lines, offset, nil
}

// Follow polls path from offset and passes each new complete line to emit
// until ctx is done. The returned error is nil when ctx was cancelled.
func Follow(ctx context.Context, path string, offset int64, emit func(string)) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		lines, next, err := readFrom(path, offset)
		if err != nil {
			return err
		}
		for _, line := range lines {
			emit(line)
		}
		offset = next

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// readFrom returns the complete lines after offset. A trailing partial line
// is left for the next read.
func readFrom(path string, offset int64) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, offset, fmt.Errorf("open run log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, offset, fmt.Errorf("stat run log: %w", err)
	}
	if offset > info.Size() {
		// Truncated; start over.
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, offset, fmt.Errorf("seek run log: %w", err)
	}

	reader := bufio.NewReaderSize(file, readBufferSize)
	var lines []string
	for {
		chunk, err := reader.ReadString('\n')
		if err == io.EOF {
			break
		}
		if err != nil {
			return lines, offset, fmt.Errorf("read run log: %w", err)
		}
		offset += int64(len(chunk))
		lines = append(lines, strings.TrimRight(chunk, "\r\n"))
	}
	return lines, offset, nil
}
