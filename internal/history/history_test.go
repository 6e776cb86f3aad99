package history

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pfdtrack/pfdstatus/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRun(day int, received float64) schema.HistoryRunRecord {
	return schema.HistoryRunRecord{
		RunUUID:         uuid.NewString(),
		StartedAt:       time.Date(2024, 6, day, 9, 0, 0, 0, time.UTC),
		ReferenceDate:   time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC),
		TotalReports:    10,
		TotalRequests:   20,
		ReceivedPercent: received,
	}
}

var recipients = []schema.RecipientSummary{
	{Recipient: "NHS England", Total: 5, Overdue: 1, Pending: 1, Received: 3, ReceivedPercent: 60},
	{Recipient: "Department of Health", Total: 2, Received: 2, ReceivedPercent: 100},
}

func TestStore_NoneBackend(t *testing.T) {
	store, err := NewStore(schema.NoneBackend, "")
	require.NoError(t, err)
	require.NotNil(t, store)

	id, err := store.RecordRun(newRun(1, 50), recipients)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), id)

	runs, err := store.ListRuns(5)
	assert.NoError(t, err)
	assert.Empty(t, runs)

	status, err := store.GetStatus()
	assert.NoError(t, err)
	assert.False(t, status.Connected)

	assert.NoError(t, store.Close())
}

func TestStore_UnsupportedBackend(t *testing.T) {
	_, err := NewStore("oracle", "")
	assert.Error(t, err)
}

func TestStore_SQLite(t *testing.T) {
	store, err := NewStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	params := `{"as_of":"2024-06-01"}`
	first := newRun(1, 50)
	first.ConfigParams = &params

	firstID, err := store.RecordRun(first, recipients)
	require.NoError(t, err)
	assert.Greater(t, firstID, int64(0))

	secondID, err := store.RecordRun(newRun(2, 55.5), recipients[:1])
	require.NoError(t, err)
	assert.Greater(t, secondID, firstID)

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, first.RunUUID, runs[0].RunUUID)
	assert.True(t, first.StartedAt.Equal(runs[0].StartedAt))
	assert.Equal(t, first.ReferenceDate, runs[0].ReferenceDate)
	require.NotNil(t, runs[0].ConfigParams)
	assert.Equal(t, params, *runs[0].ConfigParams)
	assert.Nil(t, runs[1].ConfigParams)
	assert.InDelta(t, 55.5, runs[1].ReceivedPercent, 0.001)

	rows, err := store.GetAllRecipients()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Department of Health", rows[0].Recipient)
	assert.Equal(t, firstID, rows[0].RunID)
	assert.Equal(t, int32(2), rows[0].Received)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, int64(2), status.TotalRuns)
	assert.Equal(t, secondID, status.LastRunID)
	assert.True(t, status.OldestRunTime.Before(status.LastRunTime))
	assert.Equal(t, int64(3), status.TableSizes[RecipientsTable])
}

func TestStore_ListRuns(t *testing.T) {
	store, err := NewStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	for day := 1; day <= 5; day++ {
		_, err := store.RecordRun(newRun(day, float64(day*10)), nil)
		require.NoError(t, err)
	}

	runs, err := store.ListRuns(3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	// Latest three, oldest first.
	assert.Equal(t, 3, runs[0].ReferenceDate.Day())
	assert.Equal(t, 5, runs[2].ReferenceDate.Day())

	_, err = store.ListRuns(0)
	assert.Error(t, err)
}

func TestStore_DuplicateRecipientRollsBack(t *testing.T) {
	store, err := NewStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	dup := []schema.RecipientSummary{recipients[0], recipients[0]}
	_, err = store.RecordRun(newRun(1, 10), dup)
	require.Error(t, err)

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	assert.Empty(t, runs, "failed run should not be recorded")
}

func TestMigrateHistory_NoneBackend(t *testing.T) {
	err := MigrateHistory(schema.NoneBackend, "", -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}

func TestMigrateHistory_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, -1))
	_, err := os.Stat(dbPath)
	assert.NoError(t, err)

	// No-op, then step through the versions.
	assert.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, -1))
	assert.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, 1))
	assert.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, 0))
	assert.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, 2))
}

func TestMigrateHistory_AfterStoreCreatedTables(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	store, err := NewStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	_, err = store.RecordRun(newRun(1, 10), recipients)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, -1))

	store, err = NewStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestUpStatements(t *testing.T) {
	for _, backend := range []schema.DatabaseBackend{schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend} {
		statements, err := upStatements(backend)
		require.NoError(t, err)
		require.Len(t, statements, 2, backend)
		assert.Contains(t, statements[0].query, RunsTable)
		assert.Contains(t, statements[1].query, RecipientsTable)
	}
	_, err := upStatements(schema.NoneBackend)
	assert.Error(t, err)
}

func TestClearHistory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := NewStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearHistory(schema.SQLiteBackend, dbPath, ""))
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	// Clearing twice is fine.
	assert.NoError(t, ClearHistory(schema.SQLiteBackend, dbPath, ""))
	assert.NoError(t, ClearHistory(schema.NoneBackend, "", ""))
	assert.Error(t, ClearHistory(schema.SQLiteBackend, "", ""))
}

func TestExecuteExport(t *testing.T) {
	store, err := NewStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	out := filepath.Join(t.TempDir(), "export")
	assert.Error(t, ExecuteExport(store, out), "empty history")

	_, err = store.RecordRun(newRun(1, 10), recipients)
	require.NoError(t, err)
	require.NoError(t, ExecuteExport(store, out))
	assert.FileExists(t, out+".history_runs.parquet")
	assert.FileExists(t, out+".history_recipients.parquet")

	assert.Error(t, ExecuteExport(store, ""))
}

func TestExecuteExport_StoreError(t *testing.T) {
	store := &MockHistoryStore{}
	store.On("GetStatus").Return(schema.HistoryStatus{}, errors.New("boom"))

	err := ExecuteExport(store, "out")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	store.AssertExpectations(t)
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintStatus(&buf, schema.HistoryStatus{Backend: "none"})
	assert.Equal(t, "History Backend: none\nConnected: false\n", buf.String())

	buf.Reset()
	PrintStatus(&buf, schema.HistoryStatus{
		Backend:       "sqlite",
		Connected:     true,
		TotalRuns:     1,
		LastRunID:     1,
		LastRunTime:   time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
		OldestRunTime: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
		TableSizes:    map[string]int64{RunsTable: 1, RecipientsTable: 2},
	})
	assert.Contains(t, buf.String(), "Last Run: 2024-06-01 09:00:00")
	assert.Contains(t, buf.String(), "  history_recipients: 2 rows\n  history_runs: 1 rows\n")
}

func TestScanTime(t *testing.T) {
	want := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	for _, v := range []any{want, "2024-06-01T09:00:00Z", []byte("2024-06-01 09:00:00")} {
		got, err := scanTime(v)
		require.NoError(t, err)
		assert.True(t, want.Equal(got))
	}
	_, err := scanTime(42)
	assert.Error(t, err)
}
