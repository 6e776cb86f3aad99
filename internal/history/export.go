package history

import (
	"errors"
	"fmt"

	"github.com/pfdtrack/pfdstatus/internal/contract"
	"github.com/pfdtrack/pfdstatus/internal/parquet"
)

// ExecuteExport writes the whole run history to two Parquet files next to outputFile.
func ExecuteExport(store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no history data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total recipient records: %d\n", status.TableSizes[RecipientsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve history runs: %w", err)
	}
	recipients, err := store.GetAllRecipients()
	if err != nil {
		return fmt.Errorf("failed to retrieve history recipients: %w", err)
	}

	runsFile := outputFile + ".history_runs.parquet"
	parquetRuns := parquet.ConvertHistoryRunRecords(runs)
	if err := parquet.WriteHistoryRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write history runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	recipientsFile := outputFile + ".history_recipients.parquet"
	parquetRecipients := parquet.ConvertHistoryRecipientRecords(recipients)
	if err := parquet.WriteHistoryRecipientsParquet(parquetRecipients, recipientsFile); err != nil {
		return fmt.Errorf("failed to write history recipients: %w", err)
	}
	fmt.Printf("Exported %d recipient records to: %s\n", len(parquetRecipients), recipientsFile)

	return nil
}
