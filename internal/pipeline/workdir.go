package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"speakerscript/internal/config"
	"speakerscript/internal/services"
	"speakerscript/internal/textutil"
)

// RecordingName derives the work directory name for an input file.
func RecordingName(input string) string {
	base := filepath.Base(strings.TrimSpace(input))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return textutil.SanitizeToken(base)
}

// WorkDir returns the per-recording directory holding cached intermediates.
func WorkDir(cfg *config.Config, input string) string {
	return filepath.Join(cfg.Paths.WorkDir, RecordingName(input))
}

// acquireLock takes the work directory lock without blocking.
func acquireLock(workDir string) (*flock.Flock, error) {
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrTransient, "", "work dir", "create "+workDir, err)
	}
	lock := flock.New(filepath.Join(workDir, LockFile))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "", "lock", "acquire "+lock.Path(), err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrBusy, "", "lock", fmt.Sprintf("another run is processing %s", workDir), nil)
	}
	return lock, nil
}
