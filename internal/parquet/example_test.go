package parquet_test

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/pfdtrack/pfdstatus/internal/parquet"
	"github.com/pfdtrack/pfdstatus/schema"
)

// Example shows how a recipient table is exported for DuckDB, pandas or Spark.
func Example() {
	dir, err := os.MkdirTemp("", "pfdstatus-parquet-*")
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	rows := parquet.ConvertRecipientSummaries([]schema.RecipientSummary{
		{Recipient: "NHS England", Total: 12, Overdue: 3, Pending: 2, Received: 7, ReceivedPercent: 58.3},
		{Recipient: "Department of Health and Social Care", Total: 9, Received: 9, ReceivedPercent: 100},
	})

	outputPath := filepath.Join(dir, "recipients.parquet")
	if err := parquet.WriteFile(rows, outputPath); err != nil {
		log.Fatalf("Failed to write recipients: %v", err)
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Wrote %d recipients, file is non-empty: %t\n", len(rows), info.Size() > 0)
	// Output: Wrote 2 recipients, file is non-empty: true
}
