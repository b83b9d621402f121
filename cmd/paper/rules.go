package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joshsymonds/paper-trail/internal/cli"
	"github.com/joshsymonds/paper-trail/internal/model"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage classification rules",
		Long: `Rules run against every newly discovered record, in order. A rule's
conditions select records; its actions set the status, add labels, or
discard the record entirely.`,
	}

	cmd.AddCommand(listRulesCmd())
	cmd.AddCommand(addRuleCmd())
	cmd.AddCommand(deleteRuleCmd())
	cmd.AddCommand(setRuleActiveCmd("enable", true))
	cmd.AddCommand(setRuleActiveCmd("disable", false))

	return cmd
}

func listRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all rules in evaluation order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ruleset, err := store.ListRules(ctx)
			if err != nil {
				return fmt.Errorf("failed to list rules: %w", err)
			}

			if len(ruleset) == 0 {
				fmt.Println(cli.InfoStyle.Render("No rules defined. Use 'paper rules add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Name"),
				cli.HeaderStyle.Render("Logic"),
				cli.HeaderStyle.Render("Conditions"),
				cli.HeaderStyle.Render("Actions"),
				cli.HeaderStyle.Render("Active"))

			for _, rule := range ruleset {
				active := cli.SuccessStyle.Render("yes")
				if !rule.IsActive {
					active = cli.SubtleStyle.Render("no")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					rule.ID, rule.Name, rule.Logic,
					describeConditions(rule.Conditions),
					describeActions(rule.Actions),
					active)
			}

			return nil
		},
	}
}

func addRuleCmd() *cobra.Command {
	var (
		whenFlags []string
		thenFlags []string
		logicFlag string
		disabled  bool
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new rule",
		Long: `Create a rule from condition and action flags.

Conditions take the form "field operator value", e.g.:
  --when "sender_email contains amazon"
  --when "total_amount gt 100"

Operators: contains, equals, starts_with, ends_with, gt, lt.

Actions:
  --then "set_status=Processed"
  --then "add_label=Business, Software"
  --then "delete_record"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			conditions, err := parseConditionFlags(whenFlags)
			if err != nil {
				return err
			}
			actions, err := parseActionFlags(thenFlags)
			if err != nil {
				return err
			}
			if len(actions) == 0 {
				return fmt.Errorf("a rule needs at least one --then action")
			}

			rule := &model.Rule{
				Name:       args[0],
				Conditions: conditions,
				Actions:    actions,
				Logic:      model.ParseLogicMode(logicFlag),
				IsActive:   !disabled,
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.CreateRule(ctx, rule); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created rule %q (%s)", rule.Name, rule.ID)))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&whenFlags, "when", nil, `condition "field operator value" (repeatable)`)
	cmd.Flags().StringArrayVar(&thenFlags, "then", nil, `action "type=value" (repeatable)`)
	cmd.Flags().StringVar(&logicFlag, "logic", "and", "condition logic (and, or)")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "create the rule inactive")

	return cmd
}

func deleteRuleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteRule(ctx, args[0]); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted rule %s", args[0])))
			return nil
		},
	}
}

func setRuleActiveCmd(verb string, active bool) *cobra.Command {
	short := "Enable a rule"
	if !active {
		short = "Disable a rule"
	}

	return &cobra.Command{
		Use:   verb + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SetRuleActive(ctx, args[0], active); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Rule %s %sd", args[0], verb)))
			return nil
		},
	}
}

// parseConditionFlags validates "field operator value" strings into typed
// conditions at the boundary, so the engine never sees unparsed input.
func parseConditionFlags(flags []string) ([]model.Condition, error) {
	conditions := make([]model.Condition, 0, len(flags))
	for _, flag := range flags {
		parts := strings.SplitN(strings.TrimSpace(flag), " ", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid condition %q (want \"field operator value\")", flag)
		}
		op, ok := model.ParseOperator(parts[1])
		if !ok {
			return nil, fmt.Errorf("invalid operator %q in condition %q", parts[1], flag)
		}
		conditions = append(conditions, model.Condition{
			Field:    parts[0],
			Operator: op,
			Value:    parts[2],
		})
	}
	return conditions, nil
}

// parseActionFlags validates "type=value" strings into typed actions.
func parseActionFlags(flags []string) ([]model.Action, error) {
	actions := make([]model.Action, 0, len(flags))
	for _, flag := range flags {
		name, value, _ := strings.Cut(strings.TrimSpace(flag), "=")
		actionType, ok := model.ParseActionType(name)
		if !ok {
			return nil, fmt.Errorf("invalid action type %q", name)
		}
		if actionType != model.ActionDeleteRecord && value == "" {
			return nil, fmt.Errorf("action %q needs a value", name)
		}
		actions = append(actions, model.Action{Type: actionType, Value: value})
	}
	return actions, nil
}

func describeConditions(conditions []model.Condition) string {
	if len(conditions) == 0 {
		return "(always)"
	}
	parts := make([]string, 0, len(conditions))
	for _, c := range conditions {
		parts = append(parts, fmt.Sprintf("%s %s %q", c.Field, c.Operator, c.Value))
	}
	return strings.Join(parts, "; ")
}

func describeActions(actions []model.Action) string {
	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		if a.Value == "" {
			parts = append(parts, string(a.Type))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%s", a.Type, a.Value))
	}
	return strings.Join(parts, "; ")
}
