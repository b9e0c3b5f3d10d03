package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sablefin/sable/internal/cli"
	"github.com/sablefin/sable/internal/common"
	"github.com/sablefin/sable/internal/model"
	"github.com/sablefin/sable/internal/service"
)

func syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull transactions from the remote accounting system",
		Long: `Fetch the tenant's transactions from the Ledger API for a date range
and store them locally. Re-running a sync upserts by remote id, so
overlapping ranges are safe.`,
		RunE: runSync,
	}

	cmd.Flags().String("start", "", "start date (YYYY-MM-DD, default 30 days ago)")
	cmd.Flags().String("end", "", "end date (YYYY-MM-DD, default today)")

	return cmd
}

func runSync(cmd *cobra.Command, _ []string) error {
	tenantID, err := requireTenant()
	if err != nil {
		return err
	}

	startDate, endDate, err := parseDateRange(cmd)
	if err != nil {
		return err
	}

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	client, err := newLedgerClient(cmd.Context())
	if err != nil {
		return err
	}

	// The read path retries; write-back never does.
	var transactions []model.Transaction
	err = common.WithRetry(cmd.Context(), func() error {
		var fetchErr error
		transactions, fetchErr = client.FetchTransactions(cmd.Context(), tenantID, startDate, endDate)
		if fetchErr != nil && !common.IsRetryable(fetchErr) {
			return &common.RetryableError{Err: fetchErr, Retryable: false}
		}
		return fetchErr
	}, service.RetryOptions{MaxAttempts: 3})
	if err != nil {
		return fmt.Errorf("failed to fetch transactions: %w", err)
	}

	if err := store.SaveTransactions(cmd.Context(), transactions); err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}

	printf("%s", cli.FormatSuccess(fmt.Sprintf("Synced %d transactions (%s to %s)",
		len(transactions), startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))))

	return nil
}

func parseDateRange(cmd *cobra.Command) (start, end time.Time, err error) {
	startFlag, _ := cmd.Flags().GetString("start")
	endFlag, _ := cmd.Flags().GetString("end")

	end = time.Now().UTC().Truncate(24 * time.Hour)
	start = end.AddDate(0, 0, -30)

	if startFlag != "" {
		start, err = time.Parse("2006-01-02", startFlag)
		if err != nil {
			return start, end, fmt.Errorf("invalid start date %q: %w", startFlag, err)
		}
	}
	if endFlag != "" {
		end, err = time.Parse("2006-01-02", endFlag)
		if err != nil {
			return start, end, fmt.Errorf("invalid end date %q: %w", endFlag, err)
		}
	}
	if start.After(end) {
		return start, end, fmt.Errorf("start date must be before end date")
	}
	return start, end, nil
}
