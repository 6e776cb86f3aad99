//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pfdtrack/pfdstatus/internal/history"
	"github.com/pfdtrack/pfdstatus/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startMySQL starts a MySQL container and returns its connection string.
func startMySQL(t *testing.T) string {
	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "pfdstatus",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mysqlC.Terminate(ctx) })

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)
	return fmt.Sprintf("root:secret123@tcp(%s:%s)/pfdstatus", host, port.Port())
}

// startPostgres starts a PostgreSQL container and returns its connection string.
func startPostgres(t *testing.T) string {
	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)
	return fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
}

func TestHistoryStores(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		start   func(t *testing.T) string
	}{
		{"mysql", schema.MySQLBackend, startMySQL},
		{"postgresql", schema.PostgreSQLBackend, startPostgres},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			connStr := tt.start(t)
			testHistoryStore(t, tt.backend, connStr)
			testHistoryCLI(t, tt.backend, connStr)
		})
	}
}

// testHistoryStore exercises the store directly against a live database.
func testHistoryStore(t *testing.T, backend schema.DatabaseBackend, connStr string) {
	require.NoError(t, history.ClearHistory(backend, "", connStr))

	store, err := history.NewStore(backend, connStr)
	require.NoError(t, err)

	run := schema.HistoryRunRecord{
		RunUUID:         "0b7a4c1e-51a8-4bb1-9e8e-0f7d1c2b3a4d",
		StartedAt:       time.Date(2024, 6, 30, 9, 0, 0, 0, time.UTC),
		ReferenceDate:   time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		TotalReports:    4,
		TotalRequests:   4,
		ReceivedPercent: 50,
	}
	recipients := []schema.RecipientSummary{
		{Recipient: "A", Total: 2, Received: 2, ReceivedPercent: 100},
		{Recipient: "B", Total: 1, Overdue: 1},
	}
	id, err := store.RecordRun(run, recipients)
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	runs, err := store.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.RunUUID, runs[0].RunUUID)
	assert.True(t, run.StartedAt.Equal(runs[0].StartedAt))
	assert.True(t, run.ReferenceDate.Equal(runs[0].ReferenceDate))

	rows, err := store.GetAllRecipients()
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, int64(1), status.TotalRuns)
	require.NoError(t, store.Close())

	// Tables created by the store are adopted by the migrator.
	require.NoError(t, history.MigrateHistory(backend, connStr, -1))
	require.NoError(t, history.MigrateHistory(backend, connStr, 0))
	require.NoError(t, history.MigrateHistory(backend, connStr, -1))
}

// testHistoryCLI runs the binary against the same database.
func testHistoryCLI(t *testing.T, backend schema.DatabaseBackend, connStr string) {
	env := []string{
		"PFDSTATUS_HISTORY_BACKEND=" + string(backend),
		"PFDSTATUS_HISTORY_DB_CONNECT=" + connStr,
		"PFDSTATUS_AS_OF=2024-06-30",
	}

	_, err := runCommand(t, env, "history", "clear")
	require.NoError(t, err)

	input := writeFixture(t)
	_, err = runCommand(t, env, "analyse", input)
	require.NoError(t, err)
	_, err = runCommand(t, env, "analyse", input)
	require.NoError(t, err)

	out, err := runCommand(t, env, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Runs: 2")

	_, err = runCommand(t, env, "history", "trend")
	require.NoError(t, err)

	_, err = runCommand(t, env, "history", "migrate")
	require.NoError(t, err)
}
