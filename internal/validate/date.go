package validate

import (
	"errors"
	"strings"
	"time"
)

// Clock returns the current moment.
type Clock func() time.Time

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ErrUnparseableDate is returned by ParseDate for values no layout accepts.
var ErrUnparseableDate = errors.New("unparseable date")

// ParseDate parses an ISO-8601 date or date-time. Values without a zone are
// read as UTC.
func ParseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, ErrUnparseableDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrUnparseableDate
}

// DateOfBirth accepts a parseable date that is not later than now.
func DateOfBirth(v string, now time.Time) bool {
	t, err := ParseDate(v)
	if err != nil {
		return false
	}
	return !t.After(now)
}

// Age returns the number of whole years between birth and today, counted on
// the calendar of birth's zone. One year is subtracted when today's month/day
// comes before the birth month/day.
func Age(birth, today time.Time) int {
	today = today.In(birth.Location())

	age := today.Year() - birth.Year()
	monthDiff := int(today.Month()) - int(birth.Month())
	dayDiff := today.Day() - birth.Day()
	if monthDiff < 0 || (monthDiff == 0 && dayDiff < 0) {
		age--
	}
	return age
}

// MinimumAge reports whether the person born on v is at least min years old
// at now. Unparseable values never satisfy it.
func MinimumAge(v string, min int, now time.Time) bool {
	t, err := ParseDate(v)
	if err != nil {
		return false
	}
	return Age(t, now) >= min
}
