package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"subocr/internal/pipeline"
	"subocr/internal/preflight"
	"subocr/internal/results"
	"subocr/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var debounceSeconds int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the input directory and rip new videos as they arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
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

			handler := func(handleCtx context.Context, videoPath string) error {
				summary, err := batch.Run(handleCtx, []string{videoPath})
				if err != nil {
					return err
				}
				if summary.Failed > 0 {
					return fmt.Errorf("processing %s failed", videoPath)
				}
				return nil
			}

			watcher, err := watch.New(cfg.Paths.InputDir, time.Duration(debounceSeconds)*time.Second, handler, logger)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (ctrl-c to stop)\n", cfg.Paths.InputDir)
			return watcher.Run(runCtx)
		},
	}

	cmd.Flags().IntVar(&debounceSeconds, "debounce", 0, "Seconds a file must stay quiet before processing (0 uses the default)")
	return cmd
}
