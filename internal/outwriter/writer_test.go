package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/pelletier/go-toml/v2"
	"github.com/pfdtrack/pfdstatus/internal/contract"
	"github.com/pfdtrack/pfdstatus/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

var sampleRecipients = []schema.RecipientSummary{
	{Recipient: "NHS England", Total: 5, Overdue: 2, Pending: 1, Received: 2, ReceivedPercent: 40},
	{Recipient: "Department of Health and Social Care", Total: 3, Overdue: 0, Pending: 0, Received: 3, ReceivedPercent: 100},
	{Recipient: "Ofsted", Total: 1, Overdue: 1, ReceivedPercent: 0},
}

func testConfig(t *testing.T, mode schema.OutputMode) *contract.Config {
	t.Helper()
	return &contract.Config{
		Output:      mode,
		OutputFile:  filepath.Join(t.TempDir(), "out"),
		Precision:   1,
		ResultLimit: 25,
		Width:       120,
	}
}

func readOutput(t *testing.T, cfg *contract.Config) string {
	t.Helper()
	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	return string(data)
}

func TestWriteRecipientResults(t *testing.T) {
	t.Run("csv", func(t *testing.T) {
		cfg := testConfig(t, schema.CSVOut)
		require.NoError(t, WriteRecipientResults(sampleRecipients, cfg))
		lines := strings.Split(strings.TrimSpace(readOutput(t, cfg)), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "rank,recipient,no_reports,overdue,pending,received,received_percent", lines[0])
		assert.Equal(t, "1,NHS England,5,2,1,2,40.0", lines[1])
	})

	t.Run("json with limit", func(t *testing.T) {
		cfg := testConfig(t, schema.JSONOut)
		cfg.ResultLimit = 2
		require.NoError(t, WriteRecipientResults(sampleRecipients, cfg))

		var got []map[string]any
		require.NoError(t, json.Unmarshal([]byte(readOutput(t, cfg)), &got))
		require.Len(t, got, 2)
		assert.Equal(t, float64(2), got[1]["rank"])
		assert.Equal(t, float64(100), got[1]["received_percent"])
	})

	t.Run("text", func(t *testing.T) {
		cfg := testConfig(t, schema.TextOut)
		require.NoError(t, WriteRecipientResults(sampleRecipients, cfg))
		out := readOutput(t, cfg)
		assert.Contains(t, out, "NHS England")
		assert.Contains(t, out, "Showing top 3 of 3 recipients (requests: 9, received: 5, overdue: 3)")
	})

	t.Run("parquet needs a file", func(t *testing.T) {
		cfg := testConfig(t, schema.ParquetOut)
		require.NoError(t, WriteRecipientResults(sampleRecipients, cfg))
		assert.NotEmpty(t, readOutput(t, cfg))

		cfg.OutputFile = ""
		assert.Error(t, WriteRecipientResults(sampleRecipients, cfg))
	})

	t.Run("toml unsupported", func(t *testing.T) {
		assert.Error(t, WriteRecipientResults(sampleRecipients, testConfig(t, schema.TOMLOut)))
	})
}

var sampleYears = schema.YearTables{
	Requests: []schema.YearRequestCounts{
		{Year: 2023, Overdue: 1, Pending: 0, Received: 4},
		{Year: 2024, Overdue: 2, Pending: 3, Received: 1},
	},
	Responses: schema.ResponseYearTable{
		Columns: []schema.ResponseStatus{schema.NoRequestsResponse, schema.PendingResponse, schema.OverdueResponse, schema.PartialResponse, schema.CompletedResponse},
		Rows: []schema.YearResponseCounts{
			{Year: 2023, Counts: map[schema.ResponseStatus]int{schema.CompletedResponse: 2, schema.OverdueResponse: 1}},
		},
	},
}

func TestWriteYearResults(t *testing.T) {
	t.Run("csv long format", func(t *testing.T) {
		cfg := testConfig(t, schema.CSVOut)
		require.NoError(t, WriteYearResults(sampleYears, cfg))
		lines := strings.Split(strings.TrimSpace(readOutput(t, cfg)), "\n")
		assert.Equal(t, "level,year,status,count", lines[0])
		assert.Contains(t, lines, "request,2024,pending,3")
		assert.Contains(t, lines, "response,2023,completed,2")
		assert.NotContains(t, strings.Join(lines, "\n"), "failed")
		// 2 years x 3 statuses + 1 year x 5 columns + header
		assert.Len(t, lines, 12)
	})

	t.Run("text", func(t *testing.T) {
		cfg := testConfig(t, schema.TextOut)
		require.NoError(t, WriteYearResults(sampleYears, cfg))
		out := readOutput(t, cfg)
		assert.Contains(t, out, "Requests for response by year")
		assert.Contains(t, out, "Report response status by year")
		assert.Contains(t, out, "2024")
	})

	t.Run("parquet unsupported", func(t *testing.T) {
		assert.Error(t, WriteYearResults(sampleYears, testConfig(t, schema.ParquetOut)))
	})
}

var sampleStats = schema.SnapshotStats{
	ReferenceDate: "30/06/2024",
	Reports: schema.ReportSentStats{
		Parsed:    schema.CountPercent{3, 75},
		Completed: schema.CountPercent{1, 25},
	},
	Requests: schema.RequestStats{
		RecipientsWithRequests: 2,
		Requests:               4,
		Received:               schema.CountPercent{2, 50},
		Mean:                   2,
		Median:                 2,
		IQR:                    [2]float64{1.5, 2.5},
	},
}

func TestWriteSnapshotStats(t *testing.T) {
	t.Run("toml", func(t *testing.T) {
		cfg := testConfig(t, schema.TOMLOut)
		require.NoError(t, WriteSnapshotStats(sampleStats, cfg))

		var got schema.SnapshotStats
		require.NoError(t, toml.Unmarshal([]byte(readOutput(t, cfg)), &got))
		assert.Equal(t, sampleStats, got)
	})

	t.Run("json keys", func(t *testing.T) {
		cfg := testConfig(t, schema.JSONOut)
		require.NoError(t, WriteSnapshotStats(sampleStats, cfg))
		out := readOutput(t, cfg)
		assert.Contains(t, out, `"this report is sent to"`)
		assert.Contains(t, out, `"IQR of requests per recipients"`)
		assert.NotContains(t, out, "window start")
	})

	t.Run("text", func(t *testing.T) {
		cfg := testConfig(t, schema.TextOut)
		withWindow := sampleStats
		withWindow.WindowStart = "31/05/2024"
		require.NoError(t, WriteSnapshotStats(withWindow, cfg))
		out := readOutput(t, cfg)
		assert.Contains(t, out, "Snapshot of reports from 31/05/2024 to 30/06/2024")
		assert.Contains(t, out, "3 (75.0%)")
		assert.Contains(t, out, "1.5 - 2.5")
	})

	t.Run("csv unsupported", func(t *testing.T) {
		assert.Error(t, WriteSnapshotStats(sampleStats, testConfig(t, schema.CSVOut)))
	})
}

func TestWriteAnalysisSummary(t *testing.T) {
	out := &schema.AnalysisOutput{
		Classification: &schema.Classification{
			ReferenceDate: time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
			Reports:       make([]schema.ClassifiedReport, 4),
			Requests:      make([]schema.RecipientRequest, 5),
		},
		ResponseCounts: map[schema.ResponseStatus]int{schema.CompletedResponse: 3, schema.OverdueResponse: 1},
		RequestCounts:  map[schema.RecipientStatus]int{schema.ReceivedRequest: 4, schema.OverdueRequest: 1},
	}

	t.Run("text", func(t *testing.T) {
		cfg := testConfig(t, schema.TextOut)
		require.NoError(t, WriteAnalysisSummary(out, cfg, 1500*time.Microsecond))
		text := readOutput(t, cfg)
		assert.Contains(t, text, "75.0")
		assert.Contains(t, text, "Analysed 4 reports (5 requests for response) as of 30/06/2024")
	})

	t.Run("json", func(t *testing.T) {
		cfg := testConfig(t, schema.JSONOut)
		require.NoError(t, WriteAnalysisSummary(out, cfg, 0))
		var got analysisSummary
		require.NoError(t, json.Unmarshal([]byte(readOutput(t, cfg)), &got))
		assert.Equal(t, 3, got.Responses[schema.CompletedResponse])
		assert.Equal(t, 5, got.Requests)
	})

	t.Run("csv", func(t *testing.T) {
		cfg := testConfig(t, schema.CSVOut)
		require.NoError(t, WriteAnalysisSummary(out, cfg, 0))
		lines := strings.Split(strings.TrimSpace(readOutput(t, cfg)), "\n")
		assert.Len(t, lines, 1+len(schema.AllResponseStatuses)+len(schema.AllRecipientStatuses))
		assert.Contains(t, lines, "response,completed,3")
	})
}

func TestWriteCheckText(t *testing.T) {
	fmtFloat, _ := createFormatters(1)
	var buf bytes.Buffer
	err := writeCheckText(&buf, schema.CheckResult{
		Passed:          false,
		ReferenceDate:   "30/06/2024",
		MinReceived:     60,
		ReceivedPercent: 55.6,
		Requests:        9,
		Received:        5,
		Overdue:         3,
		MostOverdue:     sampleRecipients[:1],
	}, fmtFloat)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Response check as of 30/06/2024: FAILED")
	assert.Contains(t, out, "Requests received: 5 of 9 (55.6%, minimum 60.0%), overdue: 3")
	assert.Contains(t, out, "Most overdue recipients:")

	buf.Reset()
	require.NoError(t, writeCheckText(&buf, schema.CheckResult{Passed: true, ReferenceDate: "30/06/2024"}, fmtFloat))
	assert.Contains(t, buf.String(), "PASSED")
	assert.NotContains(t, buf.String(), "Most overdue")
}

func TestWriteTrendResults(t *testing.T) {
	runs := []schema.HistoryRunRecord{
		{RunID: 1, RunUUID: "a", StartedAt: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC), ReferenceDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), TotalReports: 10, TotalRequests: 20, ReceivedPercent: 50},
		{RunID: 2, RunUUID: "b", StartedAt: time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC), ReferenceDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), TotalReports: 12, TotalRequests: 25, ReceivedPercent: 52.5},
	}

	t.Run("text", func(t *testing.T) {
		cfg := testConfig(t, schema.TextOut)
		require.NoError(t, WriteTrendResults(runs, cfg))
		out := readOutput(t, cfg)
		assert.Contains(t, out, "01/07/2024")
		assert.Contains(t, out, "+2.5")
		assert.Contains(t, out, "Showing 2 runs")
	})

	t.Run("empty", func(t *testing.T) {
		cfg := testConfig(t, schema.TextOut)
		require.NoError(t, WriteTrendResults(nil, cfg))
		assert.Equal(t, "No runs recorded yet.\n", readOutput(t, cfg))
	})

	t.Run("csv", func(t *testing.T) {
		cfg := testConfig(t, schema.CSVOut)
		require.NoError(t, WriteTrendResults(runs, cfg))
		lines := strings.Split(strings.TrimSpace(readOutput(t, cfg)), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "2,b,2024-07-01T09:00:00Z,01/07/2024,12,25,52.5", lines[2])
	})
}

func TestGetMaxTableNameWidth(t *testing.T) {
	assert.Equal(t, 20, GetMaxTableNameWidth(&contract.Config{Width: 60}))
	assert.Equal(t, 50, GetMaxTableNameWidth(&contract.Config{Width: 120}))
	assert.Equal(t, 80, GetMaxTableNameWidth(&contract.Config{Width: 400}))
}
