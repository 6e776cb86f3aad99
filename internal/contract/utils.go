package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/pfdtrack/pfdstatus/schema"
)

// Color variables for console output, following the badge palette of the published reports.
var (
	NoRequestsColor = color.New(color.FgHiBlack)
	FailedColor     = color.New(color.FgMagenta, color.Bold)
	PendingColor    = color.New(color.FgBlue)
	OverdueColor    = color.New(color.FgRed, color.Bold)
	PartialColor    = color.New(color.FgYellow)
	CompletedColor  = color.New(color.FgGreen)
)

// responseColors maps every response status to its console color.
var responseColors = map[schema.ResponseStatus]*color.Color{
	schema.NoRequestsResponse: NoRequestsColor,
	schema.FailedResponse:     FailedColor,
	schema.PendingResponse:    PendingColor,
	schema.OverdueResponse:    OverdueColor,
	schema.PartialResponse:    PartialColor,
	schema.CompletedResponse:  CompletedColor,
}

// requestColors maps every recipient-level status to its console color.
var requestColors = map[schema.RecipientStatus]*color.Color{
	schema.PendingRequest:  PendingColor,
	schema.OverdueRequest:  OverdueColor,
	schema.ReceivedRequest: CompletedColor,
}

// GetResponseLabel returns a colored label for a response status.
// Unknown statuses are returned uncolored.
func GetResponseLabel(status schema.ResponseStatus) string {
	if c, ok := responseColors[status]; ok {
		return c.Sprint(string(status))
	}
	return string(status)
}

// GetRequestLabel returns a colored label for a recipient-level status.
func GetRequestLabel(status schema.RecipientStatus) string {
	if c, ok := requestColors[status]; ok {
		return c.Sprint(string(status))
	}
	return string(status)
}

// GetReceivedColorLabel colors a received percentage by how well requests are answered.
func GetReceivedColorLabel(percent float64, text string) string {
	switch {
	case percent >= 75:
		return CompletedColor.Sprint(text)
	case percent >= 50:
		return PartialColor.Sprint(text)
	default:
		return OverdueColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".pfdstatus_history.db"
	}
	return filepath.Join(homeDir, ".pfdstatus_history.db")
}

// TruncateName truncates a recipient name to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to leave room for the ellipsis and at least one character.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
