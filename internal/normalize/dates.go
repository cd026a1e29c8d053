package normalize

import (
	"strings"
	"time"
)

// Ordered layouts tried for date-only strings. Order matters: the two
// slash-day forms are ambiguous for days <= 12 and the source systems mostly
// exported day-first.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
}

// Fallback layouts for anything the primary list misses.
var fallbackLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"02-01-2006",
	"2/1/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// Date parses a raw value into a calendar date. Typed values pass through;
// strings go through the known layouts and then the fallback list. Anything
// unparseable is nil, never an error.
func Date(v any) *time.Time {
	t := parseTemporal(v)
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

// DateTime parses a raw value into a full timestamp.
func DateTime(v any) *time.Time {
	return parseTemporal(v)
}

// Clock parses a raw value into a time-of-day, returned on the zero date.
func Clock(v any) *time.Time {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		c := time.Date(0, 1, 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
		return &c
	case *time.Time:
		if t == nil {
			return nil
		}
		c := time.Date(0, 1, 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
		return &c
	}

	s, ok := Stringify(v)
	if !ok || sentinels[strings.ToLower(s)] {
		return nil
	}
	for _, layout := range []string{"15:04:05", "15:04", "3:04 PM", "3:04:05 PM"} {
		if c, err := time.Parse(layout, s); err == nil {
			out := time.Date(0, 1, 1, c.Hour(), c.Minute(), c.Second(), 0, time.UTC)
			return &out
		}
	}
	if t := parseTemporal(v); t != nil {
		out := time.Date(0, 1, 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
		return &out
	}
	return nil
}

// BirthDate is Date plus the sanity rule that a date of birth strictly after
// today is source garbage and degrades to nil.
func BirthDate(v any) *time.Time {
	d := Date(v)
	if d == nil {
		return nil
	}
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if d.After(today) {
		return nil
	}
	return d
}

// DurationMinutes returns the whole minutes between start and end, or nil
// when either side is missing or the span is not positive.
func DurationMinutes(start, end *time.Time) *int {
	if start == nil || end == nil {
		return nil
	}
	minutes := int(end.Sub(*start).Minutes())
	if minutes <= 0 {
		return nil
	}
	return &minutes
}

func parseTemporal(v any) *time.Time {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		if t.IsZero() {
			return nil
		}
		return &t
	case *time.Time:
		if t == nil || t.IsZero() {
			return nil
		}
		return t
	}

	s, ok := Stringify(v)
	if !ok || sentinels[strings.ToLower(s)] {
		return nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
