package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/sablefin/sable/internal/cli"
	"github.com/sablefin/sable/internal/engine"
	"github.com/sablefin/sable/internal/industry"
)

func categorizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categorize",
		Short: "Categorize all uncategorized transactions",
		Long: `Run the deterministic rule engine over every transaction that has no
categorization yet. Transactions the rules cannot decide are left
uncategorized for later review.`,
		RunE: runCategorize,
	}

	cmd.Flags().Bool("account-fallback", false, "classify unmatched transactions by their account label")

	return cmd
}

func runCategorize(cmd *cobra.Command, _ []string) error {
	tenantID, err := requireTenant()
	if err != nil {
		return err
	}
	useFallback, _ := cmd.Flags().GetBool("account-fallback")

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var bar *progressbar.ProgressBar
	orch := engine.NewOrchestrator(store, industry.NewResolver(store))
	result, err := orch.Run(cmd.Context(), tenantID, engine.Options{
		UseAccountFallback: useFallback,
		Progress: func(done, total int) {
			if bar == nil {
				bar = newCategorizeBar(total)
			}
			_ = bar.Set(done)
		},
	})
	if err != nil {
		return fmt.Errorf("categorization failed: %w", err)
	}

	printf("%s", cli.FormatSuccess(fmt.Sprintf("Categorized %d transactions", result.Categorized)))
	if result.Uncategorized > 0 {
		printf("%s", cli.FormatInfo(fmt.Sprintf("%d left uncategorized", result.Uncategorized)))
	}
	if result.Failed > 0 {
		printf("%s", cli.FormatWarning(fmt.Sprintf("%d rows failed to save", result.Failed)))
	}

	return nil
}

func newCategorizeBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan]Categorizing transactions...[reset]"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}
