package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshsymonds/paper-trail/internal/cli"
	"github.com/joshsymonds/paper-trail/internal/report"
	"github.com/joshsymonds/paper-trail/internal/service"
)

func exportCmd() *cobra.Command {
	var (
		fromFlag   string
		toFlag     string
		outputFlag string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export records to CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			filter := service.RecordFilter{}
			if fromFlag != "" || toFlag != "" {
				start, end, rangeErr := parseDateRange(fromFlag, toFlag)
				if rangeErr != nil {
					return rangeErr
				}
				filter.StartDate = &start
				filter.EndDate = &end
			}

			records, err := store.ListRecords(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to load records: %w", err)
			}

			out := os.Stdout
			if outputFlag != "" {
				f, createErr := os.Create(outputFlag) // #nosec G304 -- path comes from the operator
				if createErr != nil {
					return fmt.Errorf("failed to create output file: %w", createErr)
				}
				defer func() { _ = f.Close() }()
				out = f
			}

			if err := report.WriteCSV(out, records); err != nil {
				return err
			}

			if outputFlag != "" {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d records to %s", len(records), outputFlag)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFlag, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toFlag, "to", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "output file (default stdout)")

	return cmd
}
