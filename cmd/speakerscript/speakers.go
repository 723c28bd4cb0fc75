package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"speakerscript/internal/pipeline"
)

func newSpeakersCommand(ctx *commandContext) *cobra.Command {
	var diarizationPath, order string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "speakers --diarization <file>",
		Short: "List diarization labels with their speaker positions and speaking time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if order == "" {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				order = cfg.Align.SpeakerOrder
			}
			infos, err := pipeline.InspectSpeakers(diarizationPath, order)
			if err != nil {
				return err
			}
			if jsonOutput {
				if infos == nil {
					infos = []pipeline.SpeakerInfo{}
				}
				return writeJSON(cmd, infos)
			}
			out := cmd.OutOrStdout()
			if len(infos) == 0 {
				fmt.Fprintln(out, "No speakers found")
				return nil
			}
			rows := make([][]string, 0, len(infos))
			for _, info := range infos {
				rows = append(rows, []string{
					strconv.Itoa(int(info.Index) + 1),
					info.Label,
					strconv.Itoa(info.Segments),
					formatSeconds(info.Seconds),
				})
			}
			fmt.Fprintln(out, renderTable([]column{
				{header: "Position", right: true},
				{header: "Label"},
				{header: "Segments", right: true},
				{header: "Time", right: true},
			}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&diarizationPath, "diarization", "", "Diarization JSON file")
	cmd.Flags().StringVar(&order, "order", "", "Speaker numbering: label or appearance")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("diarization")
	return cmd
}
