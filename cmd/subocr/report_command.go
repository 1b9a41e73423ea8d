package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"subocr/internal/config"
	"subocr/internal/media"
	"subocr/internal/results"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var runID string
	var format string
	var outputPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show or export the results of a batch run",
		Long: "Print the per-video results of the latest run (or the run named\n" +
			"with --run) as a table, or export them as JSON or CSV.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := results.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := resolveRun(cmd, store, runID)
			if err != nil {
				return err
			}
			records, err := store.RecordsForRun(cmd.Context(), run.ID)
			if err != nil {
				return err
			}

			switch strings.ToLower(strings.TrimSpace(format)) {
			case "", "table":
				renderRecords(cmd, run, records)
				return nil
			case "json":
				return exportRecords(cmd, records, outputPath, results.ExportJSON)
			case "csv":
				return exportRecords(cmd, records, outputPath, results.ExportCSV)
			default:
				return fmt.Errorf("unknown format %q (expected table, json, or csv)", format)
			}
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Run identifier (defaults to the latest run)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json, or csv")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the export to a file instead of stdout")
	return cmd
}

func resolveRun(cmd *cobra.Command, store *results.Store, runID string) (results.Run, error) {
	runID = strings.TrimSpace(runID)
	if runID != "" {
		run, err := store.GetRun(cmd.Context(), runID)
		if errors.Is(err, results.ErrRunNotFound) {
			return results.Run{}, fmt.Errorf("run %s not found", runID)
		}
		return run, err
	}
	run, err := store.LatestRun(cmd.Context())
	if errors.Is(err, results.ErrRunNotFound) {
		return results.Run{}, errors.New("no runs recorded yet")
	}
	return run, err
}

func renderRecords(cmd *cobra.Command, run results.Run, records []results.Record) {
	out := cmd.OutOrStdout()

	rows := make([][]string, 0, len(records))
	for _, record := range records {
		detail := record.OutputSRT
		if !record.Success {
			detail = record.Message
		}
		rows = append(rows, []string{
			media.Stem(record.Video),
			resultLabel(record.Success),
			record.Report.Status,
			strconv.Itoa(record.Report.SubtitleCount),
			detail,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Video", "Result", "Quality", "Subtitles", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))
	fmt.Fprintf(out, "Run %s: %d succeeded, %d failed (%d total)\n",
		run.ID, run.Succeeded, run.Failed, run.Total)
}

func exportRecords(cmd *cobra.Command, records []results.Record, outputPath string, export func(io.Writer, []results.Record) error) error {
	if strings.TrimSpace(outputPath) == "" {
		return export(cmd.OutOrStdout(), records)
	}

	path, err := config.ExpandPath(outputPath)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer file.Close()

	if err := export(file, records); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d result(s) to %s\n", len(records), path)
	return nil
}
