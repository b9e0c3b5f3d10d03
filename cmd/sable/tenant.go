package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sablefin/sable/internal/cli"
	"github.com/sablefin/sable/internal/common"
	"github.com/sablefin/sable/internal/industry"
	"github.com/sablefin/sable/internal/model"
)

func tenantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Manage tenants",
	}

	cmd.AddCommand(tenantAddCmd())
	cmd.AddCommand(tenantShowCmd())

	return cmd
}

func tenantAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Register a tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			slug, _ := cmd.Flags().GetString("industry")

			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if _, err := store.GetTenant(cmd.Context(), args[0]); err == nil {
				return fmt.Errorf("%w: tenant %s", common.ErrDuplicateEntry, args[0])
			} else if !errors.Is(err, common.ErrNotFound) {
				return fmt.Errorf("failed to check tenant: %w", err)
			}

			tenant := &model.Tenant{
				ID:           args[0],
				Name:         name,
				IndustrySlug: slug,
			}
			if err := store.SaveTenant(cmd.Context(), tenant); err != nil {
				return fmt.Errorf("failed to save tenant: %w", err)
			}

			printf("%s", cli.FormatSuccess(fmt.Sprintf("Tenant %s registered (industry: %s)", tenant.ID, slug)))
			return nil
		},
	}

	cmd.Flags().String("name", "", "display name for the tenant")
	cmd.Flags().String("industry", "generic", "industry slug (e.g. dental)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func tenantShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current tenant and its effective industry configuration",
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

			tenant, err := store.GetTenant(cmd.Context(), tenantID)
			if err != nil {
				return fmt.Errorf("failed to load tenant: %w", err)
			}

			cfg, err := industry.NewResolver(store).Resolve(cmd.Context(), tenantID)
			if err != nil {
				return err
			}

			printf("%s", cli.FormatTitle(tenant.Name))
			printf("  id:        %s", tenant.ID)
			printf("  industry:  %s (effective config: %s)", tenant.IndustrySlug, cfg.Slug)
			printf("  suppliers: %d  labs: %d  software: %d  payroll: %d",
				len(cfg.SupplyVendors), len(cfg.LabNames), len(cfg.SoftwareVendors), len(cfg.PayrollVendors))
			printf("  overhead benchmark: %.0f%%-%.0f%%",
				cfg.OverheadBenchmarkLow*100, cfg.OverheadBenchmarkHigh*100)
			return nil
		},
	}
}
