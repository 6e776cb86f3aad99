// Package schema has configs, models and global constants for all parts of pfdstatus.
package schema

import "time"

// Report is one row of the reports table, reduced to the fields the classifier reads.
type Report struct {
	Row           int     // Zero-based data row index in the source table
	Ref           string  // Unique report identifier
	DateRaw       string  // date_of_report as it appears in the table (DD/MM/YYYY)
	RecipientsRaw *string // Raw delimited recipient field, nil when absent
	RepliesRaw    *string // Raw delimited reply-link field, nil when absent
}

// ReportTable is a reports snapshot as read from disk.
// Header and Rows keep every original column so that the analysed table can be written back.
type ReportTable struct {
	Header  []string
	Rows    [][]string
	Reports []Report
}

// ClassifiedReport is a report with its derived columns and final response status.
type ClassifiedReport struct {
	Report
	Date              time.Time      // Parsed date_of_report
	SentTo            []string       // Ordered recipient tokens
	ReplyTokens       []string       // Reply tokens containing the reply marker
	NormalizedReplies string         // Raw reply field with URL-encoding differences flattened
	Matched           []string       // Recipients found in NormalizedReplies (duplicates kept)
	AgeDays           int            // Whole days between Date and the reference date
	IsDue             bool           // AgeDays > DueThresholdDays
	Reached           bool           // Whether the response rules ran, i.e. the report has recipients
	Status            ResponseStatus // Final response status
}

// NumRecipients returns the number of recipients the report was sent to.
func (c ClassifiedReport) NumRecipients() int { return len(c.SentTo) }

// NumReplies returns the number of substantive replies logged for the report.
func (c ClassifiedReport) NumReplies() int { return len(c.ReplyTokens) }

// RecipientRequest is one exploded (report, recipient) pair.
type RecipientRequest struct {
	Ref       string          `json:"ref"`
	Recipient string          `json:"recipient"`
	Date      time.Time       `json:"date_of_report"`
	Year      int             `json:"year"`
	Matched   bool            `json:"matched"`
	Status    RecipientStatus `json:"status"`
}

// Classification is the full output of one classifier run.
type Classification struct {
	ReferenceDate time.Time
	Reports       []ClassifiedReport
	Requests      []RecipientRequest
}

// RecipientSummary holds the request counts for a single recipient.
type RecipientSummary struct {
	Recipient       string  `json:"recipient"`
	Total           int     `json:"no_reports"`
	Overdue         int     `json:"overdue"`
	Pending         int     `json:"pending"`
	Received        int     `json:"received"`
	ReceivedPercent float64 `json:"received_percent"`
}

// YearRequestCounts holds recipient-level status counts for one calendar year.
type YearRequestCounts struct {
	Year     int `json:"year"`
	Overdue  int `json:"overdue"`
	Pending  int `json:"pending"`
	Received int `json:"received"`
}

// Count returns the count for the given status.
func (y YearRequestCounts) Count(status RecipientStatus) int {
	switch status {
	case OverdueRequest:
		return y.Overdue
	case PendingRequest:
		return y.Pending
	case ReceivedRequest:
		return y.Received
	default:
		return 0
	}
}

// YearResponseCounts holds report-level response status counts for one calendar year.
type YearResponseCounts struct {
	Year   int                    `json:"year"`
	Counts map[ResponseStatus]int `json:"counts"`
}

// ResponseYearTable is the report-level year by response-status table.
// Columns is data-dependent: FailedResponse is only listed when at least one report failed.
type ResponseYearTable struct {
	Columns []ResponseStatus     `json:"columns"`
	Rows    []YearResponseCounts `json:"rows"`
}

// HasColumn reports whether the table carries the given status column.
func (t ResponseYearTable) HasColumn(status ResponseStatus) bool {
	for _, c := range t.Columns {
		if c == status {
			return true
		}
	}
	return false
}

// YearTables bundles both year tables for output.
type YearTables struct {
	Requests  []YearRequestCounts `json:"requests"`
	Responses ResponseYearTable   `json:"responses"`
}

// AnalysisOutput is everything a single run produces.
type AnalysisOutput struct {
	Classification *Classification
	Recipients     []RecipientSummary
	RequestCounts  map[RecipientStatus]int
	ResponseCounts map[ResponseStatus]int
	Years          YearTables
	Snapshot       SnapshotStats
}
