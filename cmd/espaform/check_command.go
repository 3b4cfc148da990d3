package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"espaform/internal/config"
	"espaform/internal/ledger"
	"espaform/internal/preflight"
	"espaform/internal/staging"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify external tools, directories, and staging access",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			failures := 0

			printSection(out, "Dependencies", colorize)
			for _, status := range preflight.CheckSystemDeps(cfg) {
				kind := statusOK
				if !status.Available {
					if status.Optional {
						kind = statusWarn
					} else {
						kind = statusError
						failures++
					}
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, kind, status.Detail, colorize))
			}

			fmt.Fprintln(out)
			printSection(out, "Directories", colorize)
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
					failures++
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			fmt.Fprintln(out)
			printSection(out, "Staging", colorize)
			fmt.Fprintln(out, renderStatusLine("Enabled", statusInfo, yesNo(cfg.Staging.Enabled), colorize))
			if cfg.Staging.Enabled {
				kind, message := checkStaging(cmd.Context(), cfg)
				if kind == statusError {
					failures++
				}
				fmt.Fprintln(out, renderStatusLine("Bucket", kind, message, colorize))
			}

			fmt.Fprintln(out)
			printSection(out, "Ledger", colorize)
			fmt.Fprintln(out, renderStatusLine("Enabled", statusInfo, yesNo(cfg.Ledger.Enabled), colorize))
			if cfg.Ledger.Enabled {
				kind, message := checkLedger(cfg)
				if kind == statusError {
					failures++
				}
				fmt.Fprintln(out, renderStatusLine("Database", kind, message, colorize))
			}

			fmt.Fprintln(out)
			if failures > 0 {
				return fmt.Errorf("%d checks failed", failures)
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}
}

func printSection(out io.Writer, title string, colorize bool) {
	for _, line := range renderSectionHeader(title, colorize) {
		fmt.Fprintln(out, line)
	}
}

func checkStaging(ctx context.Context, cfg *config.Config) (statusKind, string) {
	fetcher, err := staging.NewFetcher(ctx, cfg)
	if err != nil {
		return statusError, compactError(err.Error(), 72)
	}
	if err := fetcher.Check(ctx); err != nil {
		return statusError, compactError(err.Error(), 72)
	}
	return statusOK, fmt.Sprintf("s3://%s reachable", fetcher.Bucket())
}

func checkLedger(cfg *config.Config) (statusKind, string) {
	store, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		return statusError, compactError(err.Error(), 72)
	}
	defer store.Close()
	return statusOK, store.Path()
}
