package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joshsymonds/paper-trail/internal/cli"
	"github.com/joshsymonds/paper-trail/internal/report"
	"github.com/joshsymonds/paper-trail/internal/service"
)

func reportCmd() *cobra.Command {
	var (
		fromFlag string
		toFlag   string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize expenses by month and label",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			start, end, err := parseDateRange(fromFlag, toFlag)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			records, err := store.ListRecords(ctx, service.RecordFilter{})
			if err != nil {
				return fmt.Errorf("failed to load records: %w", err)
			}

			summary := report.Summarize(records, start, end)

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Expenses %s to %s",
				start.Format("2006-01-02"), end.Format("2006-01-02"))))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Records:\t%d\n", summary.TotalCount)
			fmt.Fprintf(w, "Total amount:\t%.2f\n", summary.TotalAmount)
			fmt.Fprintf(w, "Total VAT:\t%.2f\n", summary.TotalVAT)
			if err := w.Flush(); err != nil {
				return err
			}

			if len(summary.Monthly) > 0 {
				fmt.Println()
				fmt.Println(cli.HeaderStyle.Render("By month"))
				mw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				for _, m := range summary.Monthly {
					fmt.Fprintf(mw, "%s\t%.2f\n", m.Month, m.Amount)
				}
				if err := mw.Flush(); err != nil {
					return err
				}
			}

			if len(summary.ByLabel) > 0 {
				fmt.Println()
				fmt.Println(cli.HeaderStyle.Render("By label"))
				lw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				for _, l := range summary.ByLabel {
					fmt.Fprintf(lw, "%s\t%.2f\n", l.Name, l.Value)
				}
				if err := lw.Flush(); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&fromFlag, "from", "", "start date (YYYY-MM-DD, default 30 days ago)")
	cmd.Flags().StringVar(&toFlag, "to", "", "end date (YYYY-MM-DD, default today)")

	return cmd
}
