package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"speakerscript/internal/align"
	"speakerscript/internal/pipeline"
)

func newAlignCommand(ctx *commandContext) *cobra.Command {
	var flags alignFlags
	var diarizationPath, transcriptionPath string
	var stats, quiet bool

	cmd := &cobra.Command{
		Use:   "align --diarization <file> --transcription <file> <speaker>...",
		Short: "Assemble a transcript from existing diarization and transcription files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			result, err := pipeline.Align(cmd.Context(), cfg, logger, pipeline.AlignOptions{
				DiarizationPath:   diarizationPath,
				TranscriptionPath: transcriptionPath,
				Speakers:          args,
				Output:            flags.output,
				Format:            flags.format,
				SpeakerOrder:      flags.order,
				NoOverlap:         flags.noOverlap,
			})
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), result, quiet)
			if stats {
				fmt.Fprintln(cmd.OutOrStdout(), renderSpeakerStats(align.Summarize(result.Blocks)))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&diarizationPath, "diarization", "", "Diarization JSON file")
	cmd.Flags().StringVar(&transcriptionPath, "transcription", "", "Transcription JSON file")
	cmd.Flags().BoolVar(&stats, "stats", false, "Print per-speaker statistics after the transcript")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not echo the transcript to stdout")
	_ = cmd.MarkFlagRequired("diarization")
	_ = cmd.MarkFlagRequired("transcription")
	return cmd
}

func renderSpeakerStats(stats []align.SpeakerStats) string {
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{
			strconv.Itoa(int(s.Index)),
			s.Speaker,
			strconv.Itoa(s.Turns),
			strconv.Itoa(s.Utterances),
			formatSeconds(s.Seconds),
		})
	}
	return renderTable([]column{
		{header: "#", right: true},
		{header: "Speaker"},
		{header: "Turns", right: true},
		{header: "Utterances", right: true},
		{header: "Time", right: true},
	}, rows)
}
