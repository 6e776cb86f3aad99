package agg

import (
	"math"
	"sort"

	"github.com/pfdtrack/pfdstatus/schema"
)

// BuildSnapshot computes the snapshot statistics of a classification.
// Report percentages are relative to all reports, request percentages to all requests.
func BuildSnapshot(c *schema.Classification) schema.SnapshotStats {
	total := len(c.Reports)
	var parsed, without int
	for _, r := range c.Reports {
		switch {
		case len(r.SentTo) == 0:
			without++
		case r.Reached:
			parsed++
		}
	}
	responses := CountResponseStatuses(c.Reports)
	pair := func(n, of int) schema.CountPercent {
		return schema.CountPercent{float64(n), Percent(n, of)}
	}

	requests := CountRequestStatuses(c.Requests)
	perRecipient := requestsPerRecipient(c.Requests)
	n := len(c.Requests)

	return schema.SnapshotStats{
		ReferenceDate: c.ReferenceDate.Format(schema.DateLayout),
		Reports: schema.ReportSentStats{
			Parsed:            pair(parsed, total),
			WithoutRecipients: pair(without, total),
			Failed:            pair(responses[schema.FailedResponse], total),
			Pending:           pair(responses[schema.PendingResponse], total),
			Overdue:           pair(responses[schema.OverdueResponse], total),
			Partial:           pair(responses[schema.PartialResponse], total),
			Completed:         pair(responses[schema.CompletedResponse], total),
		},
		Requests: schema.RequestStats{
			RecipientsWithRequests: len(perRecipient),
			Requests:               n,
			Pending:                pair(requests[schema.PendingRequest], n),
			Received:               pair(requests[schema.ReceivedRequest], n),
			Overdue:                pair(requests[schema.OverdueRequest], n),
			Mean:                   Round1(Mean(perRecipient)),
			Median:                 Quantile(perRecipient, 0.5),
			IQR:                    [2]float64{Quantile(perRecipient, 0.25), Quantile(perRecipient, 0.75)},
		},
	}
}

// requestsPerRecipient returns the sorted number of requests each recipient received.
func requestsPerRecipient(requests []schema.RecipientRequest) []float64 {
	counts := make(map[string]int)
	for _, req := range requests {
		counts[req.Recipient]++
	}
	values := make([]float64, 0, len(counts))
	for _, v := range counts {
		values = append(values, float64(v))
	}
	sort.Float64s(values)
	return values
}

// Mean returns the arithmetic mean, or 0 for no values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Quantile returns the q-th quantile of sorted values using linear
// interpolation between the closest ranks. It returns 0 for no values.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
