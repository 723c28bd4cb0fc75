package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"speakerscript/internal/runlog"
	"speakerscript/internal/services"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow, raw bool

	cmd := &cobra.Command{
		Use:   "logs <run-id>",
		Short: "Show the log of a run (run IDs are listed by history)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := runlog.Find(cfg.Paths.WorkDir, args[0])
			if err != nil {
				if errors.Is(err, runlog.ErrAmbiguous) {
					return services.Wrap(services.ErrValidation, "", "logs", "", err)
				}
				return services.Wrap(services.ErrNotFound, "", "logs", "", err)
			}
			out := cmd.OutOrStdout()
			emit := func(line string) {
				if !raw {
					line = runlog.Format(line)
				}
				fmt.Fprintln(out, line)
			}

			tail, offset, err := runlog.Tail(path, lines)
			if err != nil {
				return err
			}
			for _, line := range tail {
				emit(line)
			}
			if !follow {
				return nil
			}
			return runlog.Follow(cmd.Context(), path, offset, emit)
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to show (0 for all)")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines until interrupted")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw JSON records")
	return cmd
}
