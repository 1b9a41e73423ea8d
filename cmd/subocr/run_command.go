package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"subocr/internal/analysis"
	"subocr/internal/config"
	"subocr/internal/media"
	"subocr/internal/pipeline"
	"subocr/internal/preflight"
	"subocr/internal/results"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var force bool

	cmd := &cobra.Command{
		Use:   "run [path]",
		Short: "Extract and grade subtitles for a video or directory",
		Long: "Run pgsrip against a single video or every video in a directory,\n" +
			"move the produced SRT files into the output directory, and grade\n" +
			"their quality. Without an argument the configured input directory\n" +
			"is processed.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if force {
				cfg.Rip.Force = true
			}

			source := cfg.Paths.InputDir
			if len(args) == 1 {
				source, err = config.ExpandPath(args[0])
				if err != nil {
					return err
				}
			}
			videos, err := media.Resolve(source)
			if err != nil {
				return err
			}
			if len(videos) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No videos found in %s\n", source)
				return nil
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			checks := preflight.RunAll(runCtx, cfg)
			if err := reportPreflight(cmd, checks); err != nil {
				return err
			}

			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}
			store, err := results.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			processor, err := pipeline.NewProcessor(cfg, logger)
			if err != nil {
				return err
			}
			batch, err := pipeline.NewBatch(cfg, processor, store, logger)
			if err != nil {
				return err
			}

			summary, runErr := batch.Run(runCtx, videos)
			if runErr != nil && len(summary.Outcomes) == 0 {
				return runErr
			}

			if jsonOutput {
				if err := writeJSON(cmd, summaryDocument(summary)); err != nil {
					return err
				}
			} else {
				renderSummary(cmd, summary)
			}

			if runErr != nil {
				return runErr
			}
			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d videos failed", summary.Failed, summary.Total)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the run summary as JSON")
	cmd.Flags().BoolVar(&force, "force", false, "Re-rip videos whose output already exists")
	return cmd
}

// reportPreflight prints warnings and fails on hard check errors.
func reportPreflight(cmd *cobra.Command, checks []preflight.Result) error {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	failed := 0
	for _, check := range checks {
		switch {
		case !check.Passed:
			failed++
			fmt.Fprintln(out, renderStatusLine(check.Name, statusError, check.Detail, colorize))
		case check.Warning:
			fmt.Fprintln(out, renderStatusLine(check.Name, statusWarn, check.Detail, colorize))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d preflight check(s) failed", failed)
	}
	return nil
}

func renderSummary(cmd *cobra.Command, summary pipeline.Summary) {
	out := cmd.OutOrStdout()

	rows := make([][]string, 0, len(summary.Outcomes))
	for _, outcome := range summary.Outcomes {
		detail := outcome.OutputSRT
		if !outcome.Success {
			detail = outcome.Message
		}
		rows = append(rows, []string{
			media.Stem(outcome.Video),
			resultLabel(outcome.Success),
			outcome.Report.Status,
			strconv.Itoa(outcome.Report.SubtitleCount),
			detail,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Video", "Result", "Quality", "Subtitles", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))
	fmt.Fprintf(out, "Run %s: %d succeeded, %d failed (%d total)\n",
		summary.RunID, summary.Succeeded, summary.Failed, summary.Total)
}

func resultLabel(success bool) string {
	if success {
		return "OK"
	}
	return "FAILED"
}

type summaryEntry struct {
	Video     string          `json:"video"`
	Success   bool            `json:"success"`
	Message   string          `json:"message,omitempty"`
	OutputSRT string          `json:"output_srt,omitempty"`
	Analysis  analysis.Report `json:"analysis"`
}

type summaryDoc struct {
	RunID     string         `json:"run_id"`
	Total     int            `json:"total"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Results   []summaryEntry `json:"results"`
}

func summaryDocument(summary pipeline.Summary) summaryDoc {
	doc := summaryDoc{
		RunID:     summary.RunID,
		Total:     summary.Total,
		Succeeded: summary.Succeeded,
		Failed:    summary.Failed,
		Results:   make([]summaryEntry, 0, len(summary.Outcomes)),
	}
	for _, outcome := range summary.Outcomes {
		doc.Results = append(doc.Results, summaryEntry{
			Video:     outcome.Video,
			Success:   outcome.Success,
			Message:   outcome.Message,
			OutputSRT: outcome.OutputSRT,
			Analysis:  outcome.Report,
		})
	}
	return doc
}
