package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joshsymonds/paper-trail/internal/cli"
	"github.com/joshsymonds/paper-trail/internal/scanner"
)

func scanCmd() *cobra.Command {
	var (
		fromFlag   string
		toFlag     string
		sourceName string
		sourcePath string
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the document source for new invoices",
		Long: `Fetch documents from the configured source, extract invoice fields
from their text, apply your active rules to new records, and reconcile
everything against the stored history.

Records you have already edited are never overwritten by a re-scan.`,
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

			if sourceName == "" {
				sourceName = viper.GetString("scan.source")
			}
			if sourceName == "" {
				sourceName = "directory"
			}
			src, err := newSource(sourceName, sourcePath)
			if err != nil {
				return err
			}

			result, err := scanner.New(src, store, store).Scan(ctx, start, end)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatTitle("Scan complete"))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Documents scanned:\t%d\n", result.DocumentsScanned)
			fmt.Fprintf(w, "Records returned:\t%d\n", len(result.Records))
			fmt.Fprintf(w, "New records:\t%d\n", result.NewRecords)
			fmt.Fprintf(w, "Backfilled:\t%d\n", result.Backfilled)
			fmt.Fprintf(w, "Discarded by rules:\t%d\n", result.Discarded)
			if err := w.Flush(); err != nil {
				return err
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&fromFlag, "from", "", "start date (YYYY-MM-DD, default 30 days ago)")
	cmd.Flags().StringVar(&toFlag, "to", "", "end date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&sourceName, "source", "", "document source (directory, simulated)")
	cmd.Flags().StringVar(&sourcePath, "path", "", "path for the directory source")

	return cmd
}
