package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"subocr/internal/language"
	"subocr/internal/preflight"
	"subocr/internal/results"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration, dependency, and last-run status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("Configuration", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintf(out, "%sInput:     %s\n", statusIndent, cfg.Paths.InputDir)
			fmt.Fprintf(out, "%sOutput:    %s\n", statusIndent, cfg.Paths.OutputDir)
			fmt.Fprintf(out, "%sLogs:      %s\n", statusIndent, cfg.Paths.LogDir)
			fmt.Fprintf(out, "%sLanguage:  %s [%s] (OCR: %s)\n", statusIndent,
				language.DisplayName(cfg.Languages.RipLanguage),
				cfg.Languages.RipLanguage, cfg.Languages.OCRLanguage)
			fmt.Fprintf(out, "%sForce:     %s  Rip all: %s\n", statusIndent,
				yesNo(cfg.Rip.Force), yesNo(cfg.Rip.RipAll))
			fmt.Fprintln(out)

			for _, line := range renderSectionHeader("Preflight", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, check := range preflight.RunAll(cmd.Context(), cfg) {
				kind := statusOK
				switch {
				case !check.Passed:
					kind = statusError
				case check.Warning:
					kind = statusWarn
				}
				fmt.Fprintln(out, renderStatusLine(check.Name, kind, check.Detail, colorize))
			}
			fmt.Fprintln(out)

			for _, line := range renderSectionHeader("Dependencies", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, status := range preflight.CheckSystemDeps(cfg) {
				kind := statusOK
				detail := status.Command
				if !status.Available {
					kind = statusError
					if status.Optional {
						kind = statusWarn
					}
					detail = status.Detail
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, kind, detail, colorize))
			}
			fmt.Fprintln(out)

			for _, line := range renderSectionHeader("Last run", colorize) {
				fmt.Fprintln(out, line)
			}
			if err := renderLastRun(cmd, ctx, colorize); err != nil {
				return err
			}
			return nil
		},
	}
}

func renderLastRun(cmd *cobra.Command, ctx *commandContext, colorize bool) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := results.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.LatestRun(cmd.Context())
	if errors.Is(err, results.ErrRunNotFound) {
		fmt.Fprintf(cmd.OutOrStdout(), "%sNo runs recorded yet\n", statusIndent)
		return nil
	}
	if err != nil {
		return err
	}

	kind := statusOK
	if run.Failed > 0 {
		kind = statusWarn
	}
	detail := fmt.Sprintf("%d succeeded, %d failed (%s)",
		run.Succeeded, run.Failed, run.StartedAt.Local().Format(time.DateTime))
	fmt.Fprintln(cmd.OutOrStdout(), renderStatusLine(run.ID, kind, detail, colorize))
	return nil
}
