package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"speakerscript/internal/pipeline"
)

type alignFlags struct {
	format    string
	order     string
	noOverlap string
	output    string
}

func (f *alignFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.format, "format", "", "Transcript format: text, timestamped, or json")
	cmd.Flags().StringVar(&f.order, "order", "", "Speaker numbering: label (SPEAKER_00 is the first name) or appearance")
	cmd.Flags().StringVar(&f.noOverlap, "no-overlap", "", "Utterances without a speaker: fail, nearest, or previous")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Write the transcript to this path")
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags alignFlags
	var language string
	var force, quiet bool

	cmd := &cobra.Command{
		Use:   "run <input> <speaker>...",
		Short: "Diarize, transcribe, and assemble a recording",
		Long: `Convert the recording to 16 kHz mono audio, diarize it with pyannote,
transcribe it with WhisperX, and print the speaker script.

Speakers are given in the order of the diarizer's labels: the first name is
SPEAKER_00, the second SPEAKER_01, and so on. Intermediate files are cached
per recording, so re-running with a different speaker order is instant.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.newPipeline()
			if err != nil {
				return err
			}
			result, err := p.Run(cmd.Context(), pipeline.Options{
				Input:        args[0],
				Language:     language,
				Speakers:     args[1:],
				Output:       flags.output,
				Force:        force,
				Format:       flags.format,
				SpeakerOrder: flags.order,
				NoOverlap:    flags.noOverlap,
			})
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), result, quiet)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&language, "language", "l", "", "Spoken language (ISO 639-1 code or name)")
	cmd.Flags().BoolVar(&force, "force", false, "Re-run every stage even when cached output exists")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not echo the transcript to stdout")
	return cmd
}

func printResult(out, errOut io.Writer, result *pipeline.Result, quiet bool) {
	if !quiet {
		fmt.Fprint(out, result.Transcript)
		if !strings.HasSuffix(result.Transcript, "\n") {
			fmt.Fprintln(out)
		}
	}
	cached := 0
	for _, stage := range result.Stages {
		if stage.Cached {
			cached++
		}
	}
	if cached > 0 {
		fmt.Fprintf(errOut, "Reused %d cached stage(s) from %s\n", cached, result.WorkDir)
	}
	if result.Output != "" {
		fmt.Fprintf(out, "Transcript saved to %s\n", result.Output)
	}
}
