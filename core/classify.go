package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfdtrack/pfdstatus/schema"
)

// dateParseLayout accepts both padded and unpadded day/month values.
const dateParseLayout = "2/1/2006"

// recipientRule sets every recipient of a report to status when applies holds.
type recipientRule struct {
	name    string
	applies func(c *schema.ClassifiedReport) bool
	status  schema.RecipientStatus
}

// responseRule sets the report's response status when applies holds.
// Rules see the status produced by the rules before them.
type responseRule struct {
	name    string
	applies func(c *schema.ClassifiedReport, current schema.ResponseStatus) bool
	status  schema.ResponseStatus
}

// recipientRules are evaluated in order and the last matching rule wins.
// Individual substring matches are applied after the report is exploded.
var recipientRules = []recipientRule{
	{
		name:    "default",
		applies: func(*schema.ClassifiedReport) bool { return true },
		status:  schema.OverdueRequest,
	},
	{
		name: "equal reply count",
		applies: func(c *schema.ClassifiedReport) bool {
			return len(c.ReplyTokens) == len(c.SentTo) && len(c.SentTo) > 0
		},
		status: schema.ReceivedRequest,
	},
	{
		name:    "not yet due",
		applies: func(c *schema.ClassifiedReport) bool { return !c.IsDue },
		status:  schema.PendingRequest,
	},
}

// responseRules are evaluated in order and the last matching rule wins.
// They only run for reports with at least one recipient.
var responseRules = []responseRule{
	{
		name:    "default",
		applies: func(*schema.ClassifiedReport, schema.ResponseStatus) bool { return true },
		status:  schema.PartialResponse,
	},
	{
		name: "no replies",
		applies: func(c *schema.ClassifiedReport, _ schema.ResponseStatus) bool {
			return len(c.Matched) == 0 && len(c.ReplyTokens) == 0
		},
		status: schema.OverdueResponse,
	},
	{
		name: "enough replies",
		applies: func(c *schema.ClassifiedReport, _ schema.ResponseStatus) bool {
			return len(c.SentTo) <= len(c.ReplyTokens) && len(c.SentTo) > 0
		},
		status: schema.CompletedResponse,
	},
	{
		name: "all recipients matched",
		applies: func(c *schema.ClassifiedReport, _ schema.ResponseStatus) bool {
			return len(c.Matched) >= len(c.SentTo)
		},
		status: schema.CompletedResponse,
	},
	{
		name: "overdue but not yet due",
		applies: func(c *schema.ClassifiedReport, current schema.ResponseStatus) bool {
			return !c.IsDue && current == schema.OverdueResponse
		},
		status: schema.PendingResponse,
	},
	{
		name: "partial but not yet due",
		applies: func(c *schema.ClassifiedReport, current schema.ResponseStatus) bool {
			return !c.IsDue && current == schema.PartialResponse
		},
		status: schema.PendingResponse,
	},
}

// ParseReportDate parses a date_of_report value.
func ParseReportDate(value string) (time.Time, error) {
	return time.Parse(dateParseLayout, strings.TrimSpace(value))
}

// DaysBetween returns the whole calendar days from one date to another,
// ignoring time of day.
func DaysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

// Classify derives the response status of every report and the status of
// every (report, recipient) pair, relative to referenceDate.
// Any unparseable date fails the whole computation.
func Classify(reports []schema.Report, referenceDate time.Time) (*schema.Classification, error) {
	dates := make([]time.Time, len(reports))
	for i, r := range reports {
		d, err := ParseReportDate(r.DateRaw)
		if err != nil {
			return nil, &schema.ParseError{Row: r.Row, Ref: r.Ref, Value: r.DateRaw, Err: err}
		}
		dates[i] = d
	}

	out := &schema.Classification{
		ReferenceDate: referenceDate,
		Reports:       make([]schema.ClassifiedReport, len(reports)),
		Requests:      make([]schema.RecipientRequest, 0, len(reports)),
	}
	for i, r := range reports {
		c := deriveReport(r, dates[i], referenceDate)
		out.Reports[i] = c
		if c.Reached {
			out.Requests = append(out.Requests, explodeRequests(&c)...)
		}
	}
	return out, nil
}

// deriveReport computes the derived columns and final response status of one report.
func deriveReport(r schema.Report, date, referenceDate time.Time) schema.ClassifiedReport {
	c := schema.ClassifiedReport{
		Report:            r,
		Date:              date,
		SentTo:            SplitRecipients(r.RecipientsRaw),
		ReplyTokens:       SplitReplies(r.RepliesRaw),
		NormalizedReplies: NormalizeReplies(r.RepliesRaw),
		AgeDays:           DaysBetween(date, referenceDate),
		Status:            schema.FailedResponse,
	}
	c.IsDue = c.AgeDays > schema.DueThresholdDays
	c.Matched = MatchedRecipients(c.SentTo, c.NormalizedReplies)

	c.Reached = len(c.SentTo) > 0
	if c.Reached {
		c.Status = responseStatus(&c)
	} else {
		c.Status = schema.NoRequestsResponse
	}
	return c
}

// responseStatus runs the ordered response rules over a report.
func responseStatus(c *schema.ClassifiedReport) schema.ResponseStatus {
	status := schema.FailedResponse
	for _, rule := range responseRules {
		if rule.applies(c, status) {
			status = rule.status
		}
	}
	return status
}

// reportRecipientStatus runs the ordered report-wide recipient rules.
func reportRecipientStatus(c *schema.ClassifiedReport) schema.RecipientStatus {
	var status schema.RecipientStatus
	for _, rule := range recipientRules {
		if rule.applies(c) {
			status = rule.status
		}
	}
	return status
}

// explodeRequests produces one request row per recipient. A recipient matched
// in the reply text is received regardless of the report-wide status.
func explodeRequests(c *schema.ClassifiedReport) []schema.RecipientRequest {
	base := reportRecipientStatus(c)
	requests := make([]schema.RecipientRequest, len(c.SentTo))
	for i, name := range c.SentTo {
		req := schema.RecipientRequest{
			Ref:       c.Ref,
			Recipient: name,
			Date:      c.Date,
			Year:      c.Date.Year(),
			Status:    base,
		}
		if Matches(name, c.NormalizedReplies) {
			req.Matched = true
			req.Status = schema.ReceivedRequest
		}
		requests[i] = req
	}
	return requests
}

// ExplainResponse lists the names of the response rules that fired for a report, in order.
func ExplainResponse(c *schema.ClassifiedReport) []string {
	if !c.Reached {
		return []string{"no recipients"}
	}
	var fired []string
	status := schema.FailedResponse
	for _, rule := range responseRules {
		if rule.applies(c, status) {
			status = rule.status
			fired = append(fired, fmt.Sprintf("%s -> %s", rule.name, rule.status))
		}
	}
	return fired
}
