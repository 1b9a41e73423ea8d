package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"subocr/internal/config"
	"subocr/internal/models"
)

func newModelsCommand(ctx *commandContext) *cobra.Command {
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "Manage Tesseract traineddata models",
	}

	modelsCmd.AddCommand(newModelsDownloadCommand(ctx))
	modelsCmd.AddCommand(newModelsLatestCommand(ctx))

	return modelsCmd
}

func newModelsDownloadCommand(ctx *commandContext) *cobra.Command {
	var destFlag string

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download traineddata from the configured GitHub release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			dest := strings.TrimSpace(destFlag)
			if dest == "" {
				dest = cfg.Tools.TessdataDir
			}
			if dest == "" {
				return fmt.Errorf("no destination: set tools.tessdata_dir or pass --dest")
			}
			dest, err = config.ExpandPath(dest)
			if err != nil {
				return err
			}

			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}
			downloader, err := models.New(cfg.Models.GitHubOwner, cfg.Models.GitHubRepo, models.WithLogger(logger))
			if err != nil {
				return err
			}

			count, err := downloader.Install(cmd.Context(), cfg.Models.AssetName, dest)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Installed %d traineddata file(s) to %s\n", count, dest)
			return nil
		},
	}

	cmd.Flags().StringVar(&destFlag, "dest", "", "Destination tessdata directory (defaults to tools.tessdata_dir)")
	return cmd
}

func newModelsLatestCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Show the latest traineddata release and its assets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			downloader, err := models.New(cfg.Models.GitHubOwner, cfg.Models.GitHubRepo)
			if err != nil {
				return err
			}
			release, err := downloader.LatestRelease(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, release)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s/%s %s", cfg.Models.GitHubOwner, cfg.Models.GitHubRepo, release.TagName)
			if !release.PublishedAt.IsZero() {
				fmt.Fprintf(out, " (published %s)", release.PublishedAt.Local().Format(time.DateOnly))
			}
			fmt.Fprintln(out)
			rows := make([][]string, 0, len(release.Assets))
			for _, asset := range release.Assets {
				marker := ""
				if asset.Name == cfg.Models.AssetName {
					marker = "*"
				}
				rows = append(rows, []string{asset.Name, fmt.Sprintf("%d", asset.Size), marker})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Asset", "Bytes", "Configured"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit release metadata as JSON")
	return cmd
}
