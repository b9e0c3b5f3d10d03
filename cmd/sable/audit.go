package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sablefin/sable/internal/cli"
)

func auditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent audit log entries",
		RunE:  runAudit,
	}

	cmd.Flags().Int("limit", 50, "maximum entries to show")

	return cmd
}

func runAudit(cmd *cobra.Command, _ []string) error {
	tenantID, err := requireTenant()
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entries, err := store.GetAuditEntries(cmd.Context(), tenantID, limit)
	if err != nil {
		return fmt.Errorf("failed to load audit entries: %w", err)
	}
	if len(entries) == 0 {
		printf("%s", cli.FormatInfo("No audit entries"))
		return nil
	}

	printf("%s", cli.TableHeaderStyle.Render(fmt.Sprintf("%-20s %-28s %-12s %-20s", "TIME", "ACTION", "ACTOR", "ENTITY")))
	for _, e := range entries {
		entity := e.EntityType
		if e.EntityID != "" {
			entity = fmt.Sprintf("%s/%s", e.EntityType, e.EntityID)
		}
		printf("%-20s %-28s %-12s %-20s", e.CreatedAt.Format("2006-01-02 15:04:05"), e.Action, e.ActorID, entity)
		if e.OldValue != "" || e.NewValue != "" {
			printf("  %s", cli.SubtleStyle.Render(fmt.Sprintf("%s -> %s", e.OldValue, e.NewValue)))
		}
	}

	return nil
}
