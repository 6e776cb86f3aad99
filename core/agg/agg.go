// Package agg summarizes classified reports into per-recipient, per-year and overall distributions.
package agg

import (
	"math"
	"sort"
	"time"

	"github.com/pfdtrack/pfdstatus/schema"
)

// Percent returns part as a percentage of whole, rounded to one decimal place.
// A zero whole yields 0.
func Percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return Round1(float64(part) / float64(whole) * 100)
}

// Round1 rounds half to even at one decimal place.
func Round1(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}

// SummariseRecipients counts requests per recipient.
// Recipients without any request are absent. Rows are sorted by total
// descending, then by name.
func SummariseRecipients(requests []schema.RecipientRequest) []schema.RecipientSummary {
	byName := make(map[string]*schema.RecipientSummary)
	for _, req := range requests {
		s, ok := byName[req.Recipient]
		if !ok {
			s = &schema.RecipientSummary{Recipient: req.Recipient}
			byName[req.Recipient] = s
		}
		s.Total++
		switch req.Status {
		case schema.OverdueRequest:
			s.Overdue++
		case schema.PendingRequest:
			s.Pending++
		case schema.ReceivedRequest:
			s.Received++
		}
	}

	out := make([]schema.RecipientSummary, 0, len(byName))
	for _, s := range byName {
		s.ReceivedPercent = Percent(s.Received, s.Total)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Recipient < out[j].Recipient
	})
	return out
}

// CountRequestStatuses returns the overall distribution of recipient-level statuses.
// Every status is present, zero when unused.
func CountRequestStatuses(requests []schema.RecipientRequest) map[schema.RecipientStatus]int {
	counts := make(map[schema.RecipientStatus]int, len(schema.AllRecipientStatuses))
	for _, s := range schema.AllRecipientStatuses {
		counts[s] = 0
	}
	for _, req := range requests {
		counts[req.Status]++
	}
	return counts
}

// CountResponseStatuses returns the distribution of report-level response statuses.
// Every status is present, zero when unused.
func CountResponseStatuses(reports []schema.ClassifiedReport) map[schema.ResponseStatus]int {
	counts := make(map[schema.ResponseStatus]int, len(schema.AllResponseStatuses))
	for _, s := range schema.AllResponseStatuses {
		counts[s] = 0
	}
	for _, r := range reports {
		counts[r.Status]++
	}
	return counts
}

// CountRequestYears groups recipient-level statuses by the year of the report.
// Missing (year, status) combinations are zero. Years are ascending.
func CountRequestYears(requests []schema.RecipientRequest) []schema.YearRequestCounts {
	byYear := make(map[int]*schema.YearRequestCounts)
	for _, req := range requests {
		y, ok := byYear[req.Year]
		if !ok {
			y = &schema.YearRequestCounts{Year: req.Year}
			byYear[req.Year] = y
		}
		switch req.Status {
		case schema.OverdueRequest:
			y.Overdue++
		case schema.PendingRequest:
			y.Pending++
		case schema.ReceivedRequest:
			y.Received++
		}
	}

	out := make([]schema.YearRequestCounts, 0, len(byYear))
	for _, y := range byYear {
		out = append(out, *y)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// CountResponseYears groups report-level response statuses by year.
// The failed column is included only when at least one report failed.
func CountResponseYears(reports []schema.ClassifiedReport) schema.ResponseYearTable {
	byYear := make(map[int]map[schema.ResponseStatus]int)
	failed := false
	for _, r := range reports {
		year := r.Date.Year()
		if byYear[year] == nil {
			byYear[year] = make(map[schema.ResponseStatus]int)
		}
		byYear[year][r.Status]++
		if r.Status == schema.FailedResponse {
			failed = true
		}
	}

	columns := make([]schema.ResponseStatus, 0, len(schema.AllResponseStatuses))
	for _, s := range schema.AllResponseStatuses {
		if s == schema.FailedResponse && !failed {
			continue
		}
		columns = append(columns, s)
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	rows := make([]schema.YearResponseCounts, 0, len(years))
	for _, y := range years {
		counts := make(map[schema.ResponseStatus]int, len(columns))
		for _, c := range columns {
			counts[c] = byYear[y][c]
		}
		rows = append(rows, schema.YearResponseCounts{Year: y, Counts: counts})
	}
	return schema.ResponseYearTable{Columns: columns, Rows: rows}
}

// FilterSince restricts a classification to reports dated within [since, reference date].
// Requests follow their reports.
func FilterSince(c *schema.Classification, since time.Time) *schema.Classification {
	end := c.ReferenceDate
	inWindow := func(d time.Time) bool {
		return !d.Before(since) && !d.After(end)
	}

	out := &schema.Classification{ReferenceDate: c.ReferenceDate}
	for _, r := range c.Reports {
		if inWindow(r.Date) {
			out.Reports = append(out.Reports, r)
		}
	}
	for _, req := range c.Requests {
		if inWindow(req.Date) {
			out.Requests = append(out.Requests, req)
		}
	}
	return out
}

// Analyse runs every aggregation over a classification.
func Analyse(c *schema.Classification) *schema.AnalysisOutput {
	return &schema.AnalysisOutput{
		Classification: c,
		Recipients:     SummariseRecipients(c.Requests),
		RequestCounts:  CountRequestStatuses(c.Requests),
		ResponseCounts: CountResponseStatuses(c.Reports),
		Years: schema.YearTables{
			Requests:  CountRequestYears(c.Requests),
			Responses: CountResponseYears(c.Reports),
		},
		Snapshot: BuildSnapshot(c),
	}
}
