package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sablefin/sable/internal/cli"
	"github.com/sablefin/sable/internal/model"
	"github.com/sablefin/sable/internal/writeback"
)

func previewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview which transactions would be written back",
		Long: `Build the list of remote account updates the writeback command would
apply. Transactions already in their target account are never proposed.`,
		RunE: runPreview,
	}

	addPreviewFlags(cmd)

	return cmd
}

func addPreviewFlags(cmd *cobra.Command) {
	cmd.Flags().String("since", "", "only include transactions on or after this date (YYYY-MM-DD)")
	cmd.Flags().Bool("include-low-confidence", false, "include categorizations below confidence 90")
	cmd.Flags().StringSlice("category", nil, "restrict to these categories (repeatable)")
}

func previewOptionsFromFlags(cmd *cobra.Command) (writeback.PreviewOptions, error) {
	opts := writeback.PreviewOptions{}

	sinceFlag, _ := cmd.Flags().GetString("since")
	if sinceFlag != "" {
		since, err := time.Parse("2006-01-02", sinceFlag)
		if err != nil {
			return opts, fmt.Errorf("invalid since date %q: %w", sinceFlag, err)
		}
		opts.SinceDate = &since
	}

	includeLow, _ := cmd.Flags().GetBool("include-low-confidence")
	opts.OnlyHighConfidence = !includeLow

	categories, _ := cmd.Flags().GetStringSlice("category")
	for _, c := range categories {
		category := model.Category(c)
		if !category.Valid() {
			return opts, fmt.Errorf("invalid category %q", c)
		}
		opts.Categories = append(opts.Categories, category)
	}

	return opts, nil
}

func runPreview(cmd *cobra.Command, _ []string) error {
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

	printf("%s", cli.TableHeaderStyle.Render(fmt.Sprintf("%-12s %-25s %-10s %5s  %-25s",
		"DATE", "VENDOR", "CATEGORY", "CONF", "TARGET ACCOUNT")))
	for _, item := range items {
		printf("%-12s %-25s %-10s %5d  %-25s",
			item.Date.Format("2006-01-02"),
			truncate(item.VendorName, 25),
			item.Category,
			item.Confidence,
			item.TargetAccountName)
	}
	printf("")
	printf("%s", cli.FormatInfo(fmt.Sprintf("%d transactions would be updated", len(items))))

	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-1] + "…"
}
