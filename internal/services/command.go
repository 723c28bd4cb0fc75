package services

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// CommandRunner executes an external tool. Implementations return an error
// that includes the tool's trimmed output when the process fails.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// ExecRunner returns a CommandRunner backed by os/exec. extraEnv entries
// ("KEY=value") are appended to the inherited environment.
func ExecRunner(extraEnv ...string) CommandRunner {
	return func(ctx context.Context, name string, args ...string) error {
		cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
		if len(extraEnv) > 0 {
			cmd.Env = append(os.Environ(), extraEnv...)
		}
		output, err := cmd.CombinedOutput()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w", name, ctx.Err())
		}
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
}
