package main

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"espaform/internal/config"
	"espaform/internal/staging"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var destDir string

	cmd := &cobra.Command{
		Use:   "fetch <product-id>",
		Short: "Download a scene product from the staging bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Staging.Enabled {
				return errors.New("staging is disabled; set [staging] enabled and bucket in the configuration")
			}
			fetcher, err := staging.NewFetcher(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			dest := cfg.Paths.WorkDir
			if strings.TrimSpace(destDir) != "" {
				dest, err = config.ExpandPath(destDir)
				if err != nil {
					return fmt.Errorf("resolve destination: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Fetching %s from s3://%s\n", args[0], fetcher.Bucket())
			xmlPath, err := fetcher.Fetch(cmd.Context(), args[0], dest, func(update staging.ProgressUpdate) {
				fmt.Fprintf(out, "  (%d/%d) %s\n", update.Index, update.Total, path.Base(update.Key))
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Scene metadata ready at %s\n", xmlPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&destDir, "dest", "", "Destination directory (defaults to the work directory)")

	return cmd
}
