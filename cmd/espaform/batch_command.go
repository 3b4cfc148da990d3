package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"espaform/internal/batch"
	"espaform/internal/ledger"
	"espaform/internal/services"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var formatFlags []string
	var workers int

	cmd := &cobra.Command{
		Use:   "batch <directory>",
		Short: "Convert every scene product under a directory",
		Long: `Convert every scene metadata document found under a directory.

Scenes are discovered recursively by their .xml documents and converted
concurrently. One failing scene never aborts the rest of the run; the
summary table reports the outcome per conversion and the command exits
nonzero when any scene failed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := resolveDirPath(args[0])
			if err != nil {
				return err
			}
			formats, err := parseFormatFlags(formatFlags)
			if err != nil {
				return err
			}

			var opts []batch.Option
			if workers > 0 {
				opts = append(opts, batch.WithWorkers(workers))
			}
			runner, store, err := ctx.newRunner(opts...)
			if err != nil {
				return err
			}
			defer closeStore(store)

			summary, err := runner.Run(cmd.Context(), root, formats)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(summary.Results))
			for _, res := range summary.Results {
				rows = append(rows, batchResultRow(res))
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Scene", "Format", "Status", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "Converted %d of %d scenes\n", summary.ScenesConverted, summary.ScenesTotal)

			if !summary.Ok() {
				return fmt.Errorf("%d of %d scenes failed to convert", summary.ScenesFailed, summary.ScenesTotal)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&formatFlags, "format", []string{"hdf"}, "Output format to produce (hdf, gtif); repeat for both")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent scene conversions (default 4)")

	return cmd
}

func parseFormatFlags(values []string) ([]batch.Format, error) {
	formats := make([]batch.Format, 0, len(values))
	seen := make(map[batch.Format]struct{}, len(values))
	for _, value := range values {
		format, err := batch.ParseFormat(value)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[format]; ok {
			continue
		}
		seen[format] = struct{}{}
		formats = append(formats, format)
	}
	return formats, nil
}

func batchResultRow(res batch.SceneResult) []string {
	scene := res.ProductID
	if scene == "" {
		scene = filepath.Base(res.XMLPath)
	}
	if res.Err != nil {
		status := "failed"
		if services.FailureStatus(res.Err) == ledger.StatusRejected {
			status = "rejected"
		}
		return []string{scene, string(res.Format), status, compactError(res.Err.Error(), 72)}
	}
	return []string{scene, string(res.Format), "succeeded", strings.Join(outputNames(res.Outputs), ", ")}
}

func outputNames(outputs []string) []string {
	names := make([]string, 0, len(outputs))
	for _, output := range outputs {
		names = append(names, filepath.Base(output))
	}
	return names
}
