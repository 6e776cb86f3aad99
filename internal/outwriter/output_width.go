package outwriter

import (
	"os"

	"github.com/pfdtrack/pfdstatus/internal/contract"
	"golang.org/x/term"
)

// GetMaxTableNameWidth calculates the maximum width for recipient names in table output
// based on terminal width and the fixed count columns.
func GetMaxTableNameWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + Reports + Overdue + Pending + Received + % Received, with borders and padding
	baseWidth := 70

	available := termWidth - baseWidth
	if available < 20 {
		return 20
	}
	if available > 80 {
		return 80
	}
	return available
}
