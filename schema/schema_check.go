package schema

// CheckResult holds the outcome of the received-percent gate.
type CheckResult struct {
	Passed          bool               `json:"passed"`
	ReferenceDate   string             `json:"reference_date"`
	MinReceived     float64            `json:"min_received"`
	ReceivedPercent float64            `json:"received_percent"`
	Requests        int                `json:"requests"`
	Received        int                `json:"received"`
	Overdue         int                `json:"overdue"`
	MostOverdue     []RecipientSummary `json:"most_overdue"`
}
