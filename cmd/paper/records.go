package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshsymonds/paper-trail/internal/cli"
	"github.com/joshsymonds/paper-trail/internal/model"
	"github.com/joshsymonds/paper-trail/internal/service"
)

func recordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Manage scanned invoice records",
		Long:  `List, inspect, and edit the invoice records in your history.`,
	}

	cmd.AddCommand(listRecordsCmd())
	cmd.AddCommand(showRecordCmd())
	cmd.AddCommand(setStatusCmd())
	cmd.AddCommand(labelRecordCmd())
	cmd.AddCommand(unlabelRecordCmd())
	cmd.AddCommand(commentRecordCmd())
	cmd.AddCommand(deleteRecordCmd())

	return cmd
}

func listRecordsCmd() *cobra.Command {
	var (
		fromFlag   string
		toFlag     string
		statusFlag string
		labelFlag  string
		limitFlag  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			filter := service.RecordFilter{
				Status: statusFlag,
				Label:  labelFlag,
				Limit:  limitFlag,
			}
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
				return fmt.Errorf("failed to list records: %w", err)
			}

			if len(records) == 0 {
				fmt.Println(cli.InfoStyle.Render("No records found. Run 'paper scan' to discover invoices."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Date"),
				cli.HeaderStyle.Render("Vendor"),
				cli.HeaderStyle.Render("Total"),
				cli.HeaderStyle.Render("VAT"),
				cli.HeaderStyle.Render("Status"),
				cli.HeaderStyle.Render("Labels"))

			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					r.ID,
					formatDate(r.InvoiceDate),
					r.VendorName,
					formatAmount(r.TotalAmount),
					formatAmount(r.VATAmount),
					r.Status,
					strings.Join(r.Labels, ", "))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&fromFlag, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toFlag, "to", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&statusFlag, "status", "", "filter by status (Pending, Processed, Cancelled)")
	cmd.Flags().StringVar(&labelFlag, "label", "", "filter by label")
	cmd.Flags().IntVar(&limitFlag, "limit", 0, "maximum records to show")

	return cmd
}

func showRecordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one record in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			record, err := store.GetRecordByID(ctx, args[0])
			if err != nil {
				return err
			}
			if record == nil {
				return fmt.Errorf("no record with id %q", args[0])
			}

			fmt.Println(cli.FormatTitle("Record " + record.ID))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "Vendor:\t%s\n", record.VendorName)
			fmt.Fprintf(w, "Sender:\t%s\n", record.SenderEmail)
			fmt.Fprintf(w, "Subject:\t%s\n", record.Subject)
			fmt.Fprintf(w, "Filename:\t%s\n", record.Filename)
			fmt.Fprintf(w, "Invoice date:\t%s\n", formatDate(record.InvoiceDate))
			fmt.Fprintf(w, "Total:\t%s %s\n", formatAmount(record.TotalAmount), record.Currency)
			fmt.Fprintf(w, "VAT:\t%s %s\n", formatAmount(record.VATAmount), record.Currency)
			fmt.Fprintf(w, "Status:\t%s\n", record.Status)
			fmt.Fprintf(w, "Labels:\t%s\n", strings.Join(record.Labels, ", "))
			fmt.Fprintf(w, "Download:\t%s\n", record.DownloadURL)
			fmt.Fprintf(w, "Comments:\t%s\n", record.Comments)
			fmt.Fprintf(w, "Updated:\t%s\n", record.UpdatedAt.Format(time.RFC3339))

			return nil
		},
	}
}

func setStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <id> <status>",
		Short: "Set a record's status",
		Long:  `Set a record's status to Pending, Processed, or Cancelled.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			status, ok := model.ParseStatus(args[1])
			if !ok {
				return fmt.Errorf("invalid status %q (want Pending, Processed, or Cancelled)", args[1])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.UpdateRecordStatus(ctx, args[0], status); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Record %s is now %s", args[0], status)))
			return nil
		},
	}
}

func labelRecordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "label <id> <label>",
		Short: "Add a label to a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.AddRecordLabel(ctx, args[0], args[1]); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Labeled %s with %q", args[0], args[1])))
			return nil
		},
	}
}

func unlabelRecordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlabel <id> <label>",
		Short: "Remove a label from a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.RemoveRecordLabel(ctx, args[0], args[1]); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Removed %q from %s", args[1], args[0])))
			return nil
		},
	}
}

func commentRecordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comment <id> <text>",
		Short: "Set the comments on a record",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			comments := strings.Join(args[1:], " ")
			if err := store.UpdateRecordComments(ctx, args[0], comments); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("Comment saved"))
			return nil
		},
	}
}

func deleteRecordCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if !force {
				return fmt.Errorf("refusing to delete without --force")
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteRecord(ctx, args[0]); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted record %s", args[0])))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "confirm deletion")

	return cmd
}
