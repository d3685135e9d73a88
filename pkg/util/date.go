package util

import "time"

// DateLayout is the calendar-day key used for observations and predictions.
const DateLayout = "2006-01-02"

// IST is India Standard Time. Falls back to a fixed +05:30 zone when tzdata is missing.
var IST = LoadZone("Asia/Kolkata", 5*60*60+30*60)

// LoadZone loads an IANA zone or builds a fixed zone with the given offset in seconds.
func LoadZone(name string, fallbackOffset int) *time.Location {
	if name == "" {
		return time.UTC
	}
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	return time.FixedZone(name, fallbackOffset)
}

// DateKey formats t as YYYY-MM-DD in loc (t's own zone when loc is nil).
func DateKey(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(DateLayout)
}

// AddDays moves t by n calendar days, keeping wall-clock time.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// ParseDate parses a YYYY-MM-DD key in loc.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
