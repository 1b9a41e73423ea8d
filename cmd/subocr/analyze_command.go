package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"subocr/internal/analysis"
	"subocr/internal/config"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "analyze <srt-file>...",
		Short:       "Grade the quality of existing SRT files",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			type entry struct {
				File     string          `json:"file"`
				Analysis analysis.Report `json:"analysis"`
			}

			entries := make([]entry, 0, len(args))
			for _, arg := range args {
				path, err := config.ExpandPath(arg)
				if err != nil {
					return err
				}
				entries = append(entries, entry{File: path, Analysis: analysis.Analyze(path)})
			}

			if jsonOutput {
				return writeJSON(cmd, entries)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.File,
					e.Analysis.Status,
					strconv.Itoa(e.Analysis.SubtitleCount),
					strconv.Itoa(e.Analysis.LineCount),
					strconv.FormatFloat(e.Analysis.AverageSubtitleLength, 'f', 1, 64),
					formatDuration(e.Analysis.DurationSeconds),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"File", "Quality", "Subtitles", "Lines", "Avg Length", "Duration"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
			))

			for _, e := range entries {
				kind := qualityKind(analysis.Tier(e.Analysis.Status))
				if kind != statusOK {
					fmt.Fprintln(out, renderStatusLine(e.File, kind, e.Analysis.Status, colorize))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit analysis as JSON")
	return cmd
}

// formatDuration renders whole seconds as h:mm:ss.
func formatDuration(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}
