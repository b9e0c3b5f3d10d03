package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sablefin/sable/internal/cli"
	"github.com/sablefin/sable/internal/model"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage user categorization rules",
		Long: `User rules always win over the built-in industry rules. Lower
priority values are evaluated first.`,
	}

	cmd.AddCommand(rulesListCmd())
	cmd.AddCommand(rulesAddCmd())
	cmd.AddCommand(rulesDeleteCmd())

	return cmd
}

func rulesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the tenant's rules in evaluation order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tenantID, err := requireTenant()
			if err != nil {
				return err
			}

			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rules, err := store.GetUserRules(cmd.Context(), tenantID)
			if err != nil {
				return fmt.Errorf("failed to load rules: %w", err)
			}
			if len(rules) == 0 {
				printf("%s", cli.FormatInfo("No user rules defined"))
				return nil
			}

			printf("%s", cli.TableHeaderStyle.Render(fmt.Sprintf("%-6s %-10s %-13s %-30s %-10s", "ID", "PRIORITY", "MATCH", "VALUE", "CATEGORY")))
			for _, r := range rules {
				printf("%-6d %-10d %-13s %-30s %-10s", r.ID, r.Priority, r.MatchType, r.MatchValue, r.Category)
			}
			return nil
		},
	}
}

func rulesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a rule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tenantID, err := requireTenant()
			if err != nil {
				return err
			}

			matchType, _ := cmd.Flags().GetString("match")
			matchValue, _ := cmd.Flags().GetString("value")
			category, _ := cmd.Flags().GetString("category")
			priority, _ := cmd.Flags().GetInt("priority")

			rule := &model.UserRule{
				TenantID:   tenantID,
				MatchType:  model.RuleMatchType(matchType),
				MatchValue: matchValue,
				Category:   model.Category(category),
				Priority:   priority,
			}

			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SaveUserRule(cmd.Context(), rule); err != nil {
				return fmt.Errorf("failed to save rule: %w", err)
			}

			printf("%s", cli.FormatSuccess(fmt.Sprintf("Rule #%d added", rule.ID)))
			return nil
		},
	}

	cmd.Flags().String("match", "vendor", "match type (vendor, description, amount_range)")
	cmd.Flags().String("value", "", "match value (substring, or min-max for amount_range)")
	cmd.Flags().String("category", "", "category to assign (business, personal, ambiguous)")
	cmd.Flags().Int("priority", 100, "evaluation priority (lower first)")
	_ = cmd.MarkFlagRequired("value")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func rulesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tenantID, err := requireTenant()
			if err != nil {
				return err
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid rule id %q: %w", args[0], err)
			}

			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteUserRule(cmd.Context(), tenantID, id); err != nil {
				return fmt.Errorf("failed to delete rule: %w", err)
			}

			printf("%s", cli.FormatSuccess(fmt.Sprintf("Rule #%d deleted", id)))
			return nil
		},
	}
}
