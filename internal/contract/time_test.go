package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.November, 3, 10, 0, 0, 0, time.UTC)

// TestParseRelativeTimeUnit covers various valid and invalid cases.
func TestParseRelativeTimeUnit(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{"valid plural months (mixed case)", "3 MoNtHs AgO", fixedNow.AddDate(0, -3, 0), false},
		{"valid singular week (capitalized)", "1 Week Ago", fixedNow.AddDate(0, 0, -7), false},
		{"valid 10 days (upper case)", "10 DAYS AGO", fixedNow.AddDate(0, 0, -10), false},
		{"invalid missing ago", "2 years", time.Time{}, true},
		{"invalid bad unit (decades)", "4 decades ago", time.Time{}, true},
		{"invalid non-numeric value", "one year ago", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRelativeTime(tt.input, fixedNow)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseReferenceDate(t *testing.T) {
	today := time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{"empty is today", "", today, false},
		{"today keyword", "Today", today, false},
		{"iso", "2024-02-29", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), false},
		{"report layout", "05/03/2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), false},
		{"unpadded report layout", "5/3/2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), false},
		{"rfc3339 drops time", "2024-03-05T18:30:00Z", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), false},
		{"relative", "2 weeks ago", today.AddDate(0, 0, -14), false},
		{"garbage", "next tuesday", time.Time{}, true},
		{"impossible date", "2024-02-30", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReferenceDate(tt.input, fixedNow)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// TestParseLookbackDuration covers valid and invalid lookback strings,
// including singular/plural forms and the month/year approximations.
func TestParseLookbackDuration(t *testing.T) {
	const day = 24 * time.Hour

	tests := []struct {
		name      string
		input     string
		want      time.Duration
		expectErr bool
	}{
		{"1 day", "1 day", day, false},
		{"7 days", "7 days", 7 * day, false},
		{"1 week", "1 week", 7 * day, false},
		{"1 month approx", "1 month", 30 * day, false},
		{"1 year approx", "1 year", 365 * day, false},
		{"go duration", "720h", 30 * day, false},
		{"mixed case", "3 MoNtHs", 3 * 30 * day, false},
		{"extra space", " 1  day ", day, false},
		{"invalid format (missing value)", "months", 0, true},
		{"invalid format (missing unit)", "3", 0, true},
		{"invalid unit", "3 decades", 0, true},
		{"zero quantity", "0 days", 0, true},
		{"zero go duration", "0h", 0, true},
		{"non-integer quantity", "1.5 days", 0, true},
		{"empty string", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLookbackDuration(tt.input)
			if tt.expectErr {
				assert.Error(t, err, "Expected an error for input: %q", tt.input)
			} else if assert.NoError(t, err, "Did not expect an error for input: %q", tt.input) {
				assert.Equal(t, tt.want, got, "Duration mismatch for input: %q", tt.input)
			}
		})
	}
}

func FuzzParseReferenceDate(f *testing.F) {
	for _, seed := range []string{"", "2024-01-01", "01/01/2024", "3 days ago", "garbage"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		got, err := ParseReferenceDate(s, fixedNow)
		if err != nil {
			return
		}
		if got.Hour() != 0 || got.Minute() != 0 || got.Location() != time.UTC {
			t.Fatalf("ParseReferenceDate(%q) = %v is not a UTC calendar date", s, got)
		}
	})
}
