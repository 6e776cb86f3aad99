// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"github.com/pfdtrack/pfdstatus/schema"
)

// HistoryManager defines the interface for reaching the run history store.
// This allows the history layer to be mocked for testing.
type HistoryManager interface {
	GetHistoryStore() HistoryStore
}

// HistoryStore defines the interface for recording analyse runs and reading them back.
type HistoryStore interface {
	// RecordRun stores a run and its per-recipient summary, returning the run ID
	RecordRun(run schema.HistoryRunRecord, recipients []schema.RecipientSummary) (int64, error)

	// ListRuns returns the most recent runs in chronological order, at most limit of them
	ListRuns(limit int) ([]schema.HistoryRunRecord, error)

	// GetAllRuns returns every recorded run
	GetAllRuns() ([]schema.HistoryRunRecord, error)

	// GetAllRecipients returns every recorded recipient row
	GetAllRecipients() ([]schema.HistoryRecipientRecord, error)

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection
	Close() error
}
