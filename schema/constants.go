package schema

// Custom string types for type safety.
type (
	// RecipientStatus represents the status of a single request for response,
	// i.e. one (report, recipient) pair.
	RecipientStatus string

	// ResponseStatus represents the overall response status of a report.
	ResponseStatus string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string
)

// All recipient-level statuses supported.
const (
	OverdueRequest  RecipientStatus = "overdue"
	PendingRequest  RecipientStatus = "pending"
	ReceivedRequest RecipientStatus = "received"
)

// All report-level response statuses supported.
const (
	NoRequestsResponse ResponseStatus = "no requests"
	FailedResponse     ResponseStatus = "failed" // default before any rule fires
	PendingResponse    ResponseStatus = "pending"
	OverdueResponse    ResponseStatus = "overdue"
	PartialResponse    ResponseStatus = "partial"
	CompletedResponse  ResponseStatus = "completed"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	TOMLOut    OutputMode = "toml"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Classification constants.
const (
	// DueThresholdDays is the grace period after which an unanswered report is overdue.
	DueThresholdDays = 56

	// ReplyMarker distinguishes a substantive reply from administrative correspondence.
	ReplyMarker = "Response"

	// DateLayout is the layout of the date_of_report column.
	DateLayout = "02/01/2006"
)

// ReplySubstitutions are applied to the raw reply field before recipient matching.
var ReplySubstitutions = []string{"-", " ", "_", " ", "%20", " "}

// Column names of the reports table.
const (
	RefColumn          = "ref"
	DateColumn         = "date_of_report"
	RecipientsColumn   = "this_report_is_being_sent_to"
	ReplyURLsColumn    = "reply_urls"
	StatusColumn       = "response status"
	NumRecipientColumn = "no. recipients"
	NumRepliesColumn   = "no. replies"
)

// RequiredColumns must be present in the reports table before classification begins.
var RequiredColumns = []string{RefColumn, DateColumn, RecipientsColumn, ReplyURLsColumn}

// AllRecipientStatuses lists recipient-level statuses in display order.
var AllRecipientStatuses = []RecipientStatus{OverdueRequest, PendingRequest, ReceivedRequest}

// AllResponseStatuses lists response statuses in display order.
var AllResponseStatuses = []ResponseStatus{
	NoRequestsResponse,
	FailedResponse,
	PendingResponse,
	OverdueResponse,
	PartialResponse,
	CompletedResponse,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
	TOMLOut:    {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
