package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshsymonds/paper-trail/internal/cli"
)

func labelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labels",
		Short: "Manage the label vocabulary",
		Long: `The label vocabulary is the set of labels offered when tagging
records. Removing a label from the vocabulary does not strip it from
records that already carry it.`,
	}

	cmd.AddCommand(listLabelsCmd())
	cmd.AddCommand(addLabelCmd())
	cmd.AddCommand(removeLabelCmd())

	return cmd
}

func listLabelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all labels",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			labels, err := store.GetLabels(ctx)
			if err != nil {
				return fmt.Errorf("failed to list labels: %w", err)
			}

			if len(labels) == 0 {
				fmt.Println(cli.InfoStyle.Render("No labels defined."))
				return nil
			}

			for _, label := range labels {
				fmt.Println(label)
			}
			return nil
		},
	}
}

func addLabelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <label>",
		Short: "Add a label to the vocabulary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.AddLabel(ctx, args[0]); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added label %q", args[0])))
			return nil
		},
	}
}

func removeLabelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <label>",
		Short: "Remove a label from the vocabulary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteLabel(ctx, args[0]); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Removed label %q", args[0])))
			return nil
		},
	}
}
