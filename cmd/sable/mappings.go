package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sablefin/sable/internal/cli"
	"github.com/sablefin/sable/internal/model"
)

func mappingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mappings",
		Short: "Manage category to account mappings",
		Long: `Write-back targets one remote account per category. Without mappings
the preview is always empty.`,
	}

	cmd.AddCommand(mappingsListCmd())
	cmd.AddCommand(mappingsSetCmd())

	return cmd
}

func mappingsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the tenant's account mappings",
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

			mappings, err := store.GetAccountMappings(cmd.Context(), tenantID)
			if err != nil {
				return fmt.Errorf("failed to load mappings: %w", err)
			}
			if len(mappings) == 0 {
				printf("%s", cli.FormatInfo("No account mappings configured"))
				return nil
			}

			printf("%s", cli.TableHeaderStyle.Render(fmt.Sprintf("%-12s %-10s %-30s", "CATEGORY", "ACCOUNT", "NAME")))
			for _, m := range mappings {
				printf("%-12s %-10s %-30s", m.Category, m.AccountID, m.AccountName)
			}
			return nil
		},
	}
}

func mappingsSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <category>",
		Short: "Map a category to a remote account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tenantID, err := requireTenant()
			if err != nil {
				return err
			}

			accountID, _ := cmd.Flags().GetString("account-id")
			accountName, _ := cmd.Flags().GetString("account-name")

			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			mapping := &model.AccountMapping{
				TenantID:    tenantID,
				Category:    model.Category(args[0]),
				AccountID:   accountID,
				AccountName: accountName,
			}
			if err := store.SaveAccountMapping(cmd.Context(), mapping); err != nil {
				return fmt.Errorf("failed to save mapping: %w", err)
			}

			printf("%s", cli.FormatSuccess(fmt.Sprintf("Mapped %s to account %s (%s)", mapping.Category, accountID, accountName)))
			return nil
		},
	}

	cmd.Flags().String("account-id", "", "remote account id")
	cmd.Flags().String("account-name", "", "remote account display name")
	_ = cmd.MarkFlagRequired("account-id")
	_ = cmd.MarkFlagRequired("account-name")

	return cmd
}
