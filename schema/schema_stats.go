package schema

import "time"

// CountPercent is a (count, percent) pair as consumed by the reporting layer.
type CountPercent [2]float64

// Count returns the count half of the pair.
func (c CountPercent) Count() float64 { return c[0] }

// Percent returns the percentage half of the pair.
func (c CountPercent) Percent() float64 { return c[1] }

// ReportSentStats is the report-level section of the snapshot statistics.
type ReportSentStats struct {
	Parsed            CountPercent `json:"reports parsed" toml:"reports parsed"`
	WithoutRecipients CountPercent `json:"reports without recipients" toml:"reports without recipients"`
	Failed            CountPercent `json:"reports failed" toml:"reports failed"`
	Pending           CountPercent `json:"reports pending" toml:"reports pending"`
	Overdue           CountPercent `json:"reports overdue" toml:"reports overdue"`
	Partial           CountPercent `json:"reports partial" toml:"reports partial"`
	Completed         CountPercent `json:"reports completed" toml:"reports completed"`
}

// RequestStats is the request-level section of the snapshot statistics.
type RequestStats struct {
	RecipientsWithRequests int          `json:"no. recipients with requests" toml:"no. recipients with requests"`
	Requests               int          `json:"no. requests for response" toml:"no. requests for response"`
	Pending                CountPercent `json:"requests pending" toml:"requests pending"`
	Received               CountPercent `json:"requests received" toml:"requests received"`
	Overdue                CountPercent `json:"requests overdue" toml:"requests overdue"`
	Mean                   float64      `json:"mean no. requests per recipient" toml:"mean no. requests per recipient"`
	Median                 float64      `json:"median no. requests per recipient" toml:"median no. requests per recipient"`
	IQR                    [2]float64   `json:"IQR of requests per recipients" toml:"IQR of requests per recipients"`
}

// SnapshotStats is the statistics mapping for periodic reporting.
type SnapshotStats struct {
	ReferenceDate string          `json:"reference date" toml:"reference date"`
	WindowStart   string          `json:"window start,omitempty" toml:"window start,omitempty"`
	Reports       ReportSentStats `json:"this report is sent to" toml:"this report is sent to"`
	Requests      RequestStats    `json:"requests for response" toml:"requests for response"`
}

// HistoryRunRecord is one recorded analyse run.
type HistoryRunRecord struct {
	RunID           int64
	RunUUID         string
	StartedAt       time.Time
	ReferenceDate   time.Time
	TotalReports    int32
	TotalRequests   int32
	ReceivedPercent float64
	ConfigParams    *string
}

// HistoryRecipientRecord is one recipient row of a recorded run.
type HistoryRecipientRecord struct {
	RunID           int64
	Recipient       string
	Total           int32
	Overdue         int32
	Pending         int32
	Received        int32
	ReceivedPercent float64
}

// HistoryStatus describes the state of the history store.
type HistoryStatus struct {
	Backend       string
	Connected     bool
	TotalRuns     int64
	LastRunID     int64
	LastRunTime   time.Time
	OldestRunTime time.Time
	TableSizes    map[string]int64
}
