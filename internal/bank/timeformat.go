package bank

import "time"

// TimestampLayout is the fixed textual format used for every timestamp
// exchanged with the gateway, always in UTC.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in the gateway wire format.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// FormatMinTimestamp renders the start-of-day query bound for t.
func FormatMinTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02") + "T00:00:00.00Z"
}

// FormatMaxTimestamp renders the end-of-day query bound for t.
func FormatMaxTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02") + "T23:59:59.00Z"
}

// ParseTimestamp parses a wire-format timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(TimestampLayout, s)
}
