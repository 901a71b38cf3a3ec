package timeutil

import "time"

// TimestampLayout is the payload timestamp format (YYYY-MM-DD HH:MM:SS).
const TimestampLayout = "2006-01-02 15:04:05"

// FormatTimestamp formats t in its current location using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// FormatISO formats t as RFC3339 in UTC.
func FormatISO(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Milliseconds converts a duration to fractional milliseconds for metrics.
func Milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// ResolveLocation returns the location for an IANA zone name, or nil when tz
// is empty or unknown.
func ResolveLocation(tz string) *time.Location {
	if tz == "" {
		return nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil
	}
	return loc
}

// In converts t to loc, leaving it unchanged when loc is nil.
func In(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t
	}
	return t.In(loc)
}
