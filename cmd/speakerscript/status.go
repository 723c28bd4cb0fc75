package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"speakerscript/internal/config"
	"speakerscript/internal/deps"
	"speakerscript/internal/language"
	"speakerscript/internal/services"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check external tools and credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			lines, problems := statusReport(cfg, colorize)
			fmt.Fprintln(out, strings.Join(lines, "\n"))
			if problems > 0 {
				return services.Wrap(services.ErrConfiguration, "", "status",
					fmt.Sprintf("%d required dependency check(s) failed", problems), nil)
			}
			return nil
		},
	}
}

// statusReport builds the status lines and counts failed required checks.
func statusReport(cfg *config.Config, colorize bool) ([]string, int) {
	lines := []string{renderSectionHeader("Dependencies", colorize)}
	problems := 0
	for _, status := range deps.CheckBinaries(deps.Requirements(cfg)) {
		kind := statusOK
		message := status.Command
		switch {
		case !status.Available && status.Optional:
			kind = statusWarn
			message = status.Detail + " (optional: " + status.Description + ")"
		case !status.Available:
			kind = statusError
			message = status.Detail + " (" + status.Description + ")"
			problems++
		}
		lines = append(lines, renderStatusLine(status.Name, kind, message, colorize))
	}

	lines = append(lines, "", renderSectionHeader("Configuration", colorize))
	if err := cfg.RequireHFToken(); err != nil {
		lines = append(lines, renderStatusLine("Hugging Face token", statusError, "missing; diarization cannot run", colorize))
		problems++
	} else {
		lines = append(lines, renderStatusLine("Hugging Face token", statusOK, "configured", colorize))
	}
	lines = append(lines,
		renderStatusLine("Language", statusInfo, language.DisplayName(cfg.Transcription.Language), colorize),
		renderStatusLine("Whisper model", statusInfo, cfg.Transcription.Model, colorize),
		renderStatusLine("Diarization model", statusInfo, cfg.Diarization.Model, colorize),
		renderStatusLine("CUDA", statusInfo, "transcription "+yesNo(cfg.Transcription.CUDAEnabled)+", diarization "+yesNo(cfg.Diarization.CUDAEnabled), colorize),
		renderStatusLine("Work directory", statusInfo, cfg.Paths.WorkDir, colorize),
		renderStatusLine("History", statusInfo, historyStatus(cfg), colorize),
	)
	return lines, problems
}

func historyStatus(cfg *config.Config) string {
	if !cfg.History.Enabled {
		return "disabled"
	}
	return cfg.HistoryPath()
}
