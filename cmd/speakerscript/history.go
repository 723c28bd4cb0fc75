package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"speakerscript/internal/history"
)

type historyRow struct {
	ID           int64    `json:"id"`
	RunID        string   `json:"run_id"`
	Command      string   `json:"command"`
	Input        string   `json:"input,omitempty"`
	Speakers     []string `json:"speakers"`
	Language     string   `json:"language,omitempty"`
	Output       string   `json:"output,omitempty"`
	Status       string   `json:"status"`
	FailureKind  string   `json:"failure_kind,omitempty"`
	Error        string   `json:"error,omitempty"`
	Blocks       int      `json:"blocks"`
	Utterances   int      `json:"utterances"`
	AudioSeconds float64  `json:"audio_seconds,omitempty"`
	StartedAt    string   `json:"started_at"`
	FinishedAt   string   `json:"finished_at,omitempty"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.History.Enabled {
				fmt.Fprintln(out, "Run history is disabled ([history] enabled = false)")
				return nil
			}
			store, err := history.Open(cfg.HistoryPath())
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				rows := make([]historyRow, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, toHistoryRow(run))
				}
				return writeJSON(cmd, rows)
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderHistoryTable(runs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultListLimit, "Maximum number of runs to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func toHistoryRow(run history.Run) historyRow {
	row := historyRow{
		ID:           run.ID,
		RunID:        run.RunID,
		Command:      run.Command,
		Input:        run.Input,
		Speakers:     run.Speakers,
		Language:     run.Language,
		Output:       run.Output,
		Status:       string(run.Status),
		FailureKind:  run.FailureKind,
		Error:        run.ErrorMessage,
		Blocks:       run.Blocks,
		Utterances:   run.Utterances,
		AudioSeconds: run.AudioSeconds,
		StartedAt:    run.StartedAt.UTC().Format(time.RFC3339),
	}
	if row.Speakers == nil {
		row.Speakers = []string{}
	}
	if !run.FinishedAt.IsZero() {
		row.FinishedAt = run.FinishedAt.UTC().Format(time.RFC3339)
	}
	return row
}

func renderHistoryTable(runs []history.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		status := string(run.Status)
		if run.FailureKind != "" {
			status += " (" + run.FailureKind + ")"
		}
		elapsed := "-"
		if d := run.Duration(); d > 0 {
			elapsed = d.Round(time.Second).String()
		}
		rows = append(rows, []string{
			strconv.FormatInt(run.ID, 10),
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.Command,
			displayInput(run.Input),
			strings.Join(run.Speakers, ", "),
			status,
			strconv.Itoa(run.Blocks),
			elapsed,
		})
	}
	return renderTable([]column{
		{header: "ID", right: true},
		{header: "Started"},
		{header: "Command"},
		{header: "Input"},
		{header: "Speakers"},
		{header: "Status"},
		{header: "Blocks", right: true},
		{header: "Elapsed", right: true},
	}, rows)
}

func displayInput(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "-"
	}
	return filepath.Base(path)
}
