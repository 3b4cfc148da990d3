package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"espaform/internal/ledger"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var productID string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded conversions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.requireLedger()
			if err != nil {
				return err
			}
			defer closeStore(store)

			var records []*ledger.Record
			if strings.TrimSpace(productID) != "" {
				records, err = store.ByProduct(cmd.Context(), strings.TrimSpace(productID))
			} else {
				records, err = store.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, historyViews(records))
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No conversions recorded")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, historyRow(rec))
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Started", "Product", "Format", "Status", "Duration", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))

			summary, err := store.Summarize(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Total %d: %d succeeded, %d failed, %d rejected, %d running\n",
				summary.Total, summary.Succeeded, summary.Failed, summary.Rejected, summary.Running)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum records to show")
	cmd.Flags().StringVar(&productID, "product", "", "Show records for one product only")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit records as JSON")

	return cmd
}

type historyView struct {
	ID           string `json:"id"`
	ProductID    string `json:"product_id"`
	Format       string `json:"format"`
	Status       string `json:"status"`
	OutputPath   string `json:"output_path,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	StartedAt    string `json:"started_at"`
	FinishedAt   string `json:"finished_at,omitempty"`
}

func historyViews(records []*ledger.Record) []historyView {
	views := make([]historyView, 0, len(records))
	for _, rec := range records {
		view := historyView{
			ID:           rec.ID,
			ProductID:    rec.ProductID,
			Format:       rec.Format,
			Status:       string(rec.Status),
			OutputPath:   rec.OutputPath,
			ErrorMessage: rec.ErrorMessage,
			StartedAt:    rec.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		if rec.FinishedAt != nil {
			view.FinishedAt = rec.FinishedAt.Format("2006-01-02T15:04:05Z07:00")
		}
		views = append(views, view)
	}
	return views
}

func historyRow(rec *ledger.Record) []string {
	detail := rec.OutputPath
	if rec.Status == ledger.StatusFailed || rec.Status == ledger.StatusRejected {
		detail = compactError(rec.ErrorMessage, 72)
	}
	return []string{
		formatTimestamp(rec.StartedAt),
		rec.ProductID,
		rec.Format,
		string(rec.Status),
		formatRecordDuration(rec),
		detail,
	}
}
