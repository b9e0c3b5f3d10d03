package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sablefin/sable/internal/cli"
	"github.com/sablefin/sable/internal/writeback"
)

func writebackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "writeback",
		Short: "Write categorization results back to the remote accounting system",
		Long: `Build the preview, then apply each proposed account update to the
remote system one at a time. Each write carries the entity's current
sync token; an update rejected because another writer got there first
is recorded as a failure and can be re-attempted in a later run.`,
		RunE: runWriteback,
	}

	addPreviewFlags(cmd)
	cmd.Flags().Bool("yes", false, "apply without confirmation")
	cmd.Flags().String("actor", "", "actor recorded in the audit log (default: ledger client id)")

	return cmd
}

func runWriteback(cmd *cobra.Command, _ []string) error {
	tenantID, err := requireTenant()
	if err != nil {
		return err
	}

	opts, err := previewOptionsFromFlags(cmd)
	if err != nil {
		return err
	}

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	items, err := writeback.NewBuilder(store).Preview(cmd.Context(), tenantID, opts)
	if err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}
	if len(items) == 0 {
		printf("%s", cli.FormatInfo("Nothing to write back"))
		return nil
	}

	skipConfirm, _ := cmd.Flags().GetBool("yes")
	if !skipConfirm && !confirm(fmt.Sprintf("Apply %d account updates?", len(items))) {
		printf("%s", cli.FormatInfo("Aborted"))
		return nil
	}

	actorID, _ := cmd.Flags().GetString("actor")
	if actorID == "" {
		actorID = viper.GetString("ledger.client_id")
	}

	client, err := newLedgerClient(cmd.Context())
	if err != nil {
		return err
	}

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.TransactionID
	}

	result, err := writeback.NewExecutor(store, client).Execute(cmd.Context(), tenantID, ids, actorID)
	if err != nil {
		return fmt.Errorf("write-back aborted: %w", err)
	}

	printf("%s", cli.FormatSuccess(fmt.Sprintf("%d updates applied", result.Succeeded)))
	if result.Failed > 0 {
		printf("%s", cli.FormatWarning(fmt.Sprintf("%d updates failed:", result.Failed)))
		for _, e := range result.Errors {
			printf("  %s  %s", e.TransactionID, cli.SubtleStyle.Render(e.Message))
		}
	}

	return nil
}

func confirm(prompt string) bool {
	fmt.Fprintf(os.Stdout, "%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
