// Package validate holds the field predicates for profile records.
//
// Every predicate is pure and total: it returns a verdict for any input and
// never panics. Callers derive user-facing messages themselves.
package validate

import (
	"math"
	"regexp"
	"strings"

	"github.com/matsen/profiles/internal/profile"
)

// Name length bounds, exclusive.
const (
	nameMinExclusive    = 1
	nameMaxExclusive    = 31
	addressMinExclusive = 6
	addressMaxExclusive = 251
)

var (
	namePattern    = regexp.MustCompile(`^[A-Za-z.]+$`)
	mobilePattern  = regexp.MustCompile(`^[0-9]{10}$`)
	addressPattern = regexp.MustCompile(`^[A-Za-z0-9.,/\-\s\v\p{Zs}]+$`)
)

// NonEmpty reports whether v has content other than whitespace.
func NonEmpty(v string) bool {
	return strings.TrimSpace(v) != ""
}

// NameCharacters reports whether v consists only of letters and full stops.
func NameCharacters(v string) bool {
	return namePattern.MatchString(v)
}

// FirstName accepts 2 to 30 letters or full stops.
func FirstName(v string) bool {
	return NonEmpty(v) &&
		NameCharacters(v) &&
		len(v) > nameMinExclusive &&
		len(v) < nameMaxExclusive
}

// LastName is optional: an empty value is valid, anything else follows the
// first-name rule.
func LastName(v string) bool {
	if v == "" {
		return true
	}
	return FirstName(v)
}

// MobileNumber accepts exactly ten ASCII digits.
func MobileNumber(v string) bool {
	return mobilePattern.MatchString(v)
}

// AddressCharacters reports whether the trimmed value uses only letters,
// digits, whitespace and the punctuation . , / -.
func AddressCharacters(v string) bool {
	return addressPattern.MatchString(strings.TrimSpace(v))
}

// Address accepts 7 to 250 characters after trimming.
func Address(v string) bool {
	if !NonEmpty(v) {
		return false
	}
	trimmed := strings.TrimSpace(v)
	return addressPattern.MatchString(trimmed) &&
		len(trimmed) > addressMinExclusive &&
		len(trimmed) < addressMaxExclusive
}

// Gender accepts one of profile.GenderOptions.
func Gender(v string) bool {
	return NonEmpty(v) && profile.HasValue(profile.GenderOptions(), v)
}

// HighestEducation accepts one of profile.EducationOptions.
func HighestEducation(v string) bool {
	return NonEmpty(v) && profile.HasValue(profile.EducationOptions(), v)
}

// Location requires both components, latitude in [-90, 90] and longitude in
// [-180, 180].
func Location(c profile.Coordinate) bool {
	if !c.IsSet() {
		return false
	}
	lat, long := *c.Lat, *c.Long
	if math.IsNaN(lat) || math.IsNaN(long) {
		return false
	}
	return lat >= -90 && lat <= 90 && long >= -180 && long <= 180
}
