// Package draft holds the in-progress profile record and its per-field errors.
//
// A Draft is owned by the caller that drives a single intake flow. It is not
// safe for concurrent use.
package draft

import (
	"strings"
	"time"

	"github.com/matsen/profiles/internal/profile"
	"github.com/matsen/profiles/internal/validate"
)

// DefaultMinimumAge is the minimum applicant age when none is configured.
const DefaultMinimumAge = 18

// dateLayout is how Reset stamps the default date of birth.
const dateLayout = "2006-01-02T15:04:05.000Z07:00"

// Draft is a single in-progress record plus its ValidationErrorSet.
//
// Every setter consults the validator. A rejected value blanks the field
// rather than keeping the previous value, and records why in Errors.
type Draft struct {
	record profile.Record
	errs   Errors
	minAge int
	now    validate.Clock
}

// Option configures a Draft.
type Option func(*Draft)

// WithMinimumAge sets the age a date of birth must satisfy.
func WithMinimumAge(years int) Option {
	return func(d *Draft) { d.minAge = years }
}

// WithClock sets the source of "now" used for dates.
func WithClock(now validate.Clock) Option {
	return func(d *Draft) { d.now = now }
}

// New returns a draft holding default values.
func New(opts ...Option) *Draft {
	d := &Draft{
		minAge: DefaultMinimumAge,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.Reset()
	return d
}

// MinimumAge returns the configured minimum age.
func (d *Draft) MinimumAge() int {
	return d.minAge
}

// Get returns a copy of the current record.
func (d *Draft) Get() profile.Record {
	return d.record.Clone()
}

// Set replaces the record wholesale. Errors are left untouched.
func (d *Draft) Set(r profile.Record) {
	d.record = r.Clone()
}

// Reset restores default values and clears every error.
func (d *Draft) Reset() {
	d.record = profile.Record{
		DateOfBirth:      d.now().UTC().Format(dateLayout),
		HighestEducation: profile.DefaultEducation,
	}
	d.errs = emptyErrors()
}

// Errors returns a copy of the per-field messages.
func (d *Draft) Errors() Errors {
	return d.errs.clone()
}

// SetError attaches msg to field without touching the stored value.
func (d *Draft) SetError(field profile.Field, msg string) {
	d.errs[field] = msg
}

func (d *Draft) accept(field profile.Field) bool {
	d.errs[field] = ""
	return true
}

func (d *Draft) reject(field profile.Field, msg string) bool {
	d.errs[field] = msg
	return false
}

// SetFirstName stores v if it is a valid first name.
func (d *Draft) SetFirstName(v string) bool {
	if validate.FirstName(v) {
		d.record.FirstName = v
		return d.accept(profile.FieldFirstName)
	}
	d.record.FirstName = ""
	return d.reject(profile.FieldFirstName, nameMessage("First Name", v))
}

// SetLastName stores v if it is empty or a valid name.
func (d *Draft) SetLastName(v string) bool {
	if validate.LastName(v) {
		d.record.LastName = v
		return d.accept(profile.FieldLastName)
	}
	d.record.LastName = ""
	if !validate.NonEmpty(v) {
		// blank but not empty: the field is optional, so only the characters are wrong
		return d.reject(profile.FieldLastName, "Last Name can only contain letters and full stop (.)")
	}
	return d.reject(profile.FieldLastName, nameMessage("Last Name", v))
}

// SetMobileNumber stores v if it is ten digits.
func (d *Draft) SetMobileNumber(v string) bool {
	if validate.MobileNumber(v) {
		d.record.MobileNumber = v
		return d.accept(profile.FieldMobileNumber)
	}
	d.record.MobileNumber = ""
	switch {
	case !validate.NonEmpty(v):
		return d.reject(profile.FieldMobileNumber, MsgMobileInvalid)
	case len(v) == 10:
		return d.reject(profile.FieldMobileNumber, MsgMobileNotNumeric)
	default:
		return d.reject(profile.FieldMobileNumber, MsgMobileLength)
	}
}

// SetDateOfBirth stores v if it is a past date old enough for the minimum age.
// An invalid date and an insufficient age carry different messages.
func (d *Draft) SetDateOfBirth(v string) bool {
	now := d.now()
	if validate.NonEmpty(v) && validate.DateOfBirth(v, now) && validate.MinimumAge(v, d.minAge, now) {
		d.record.DateOfBirth = v
		return d.accept(profile.FieldDateOfBirth)
	}
	d.record.DateOfBirth = ""
	if validate.DateOfBirth(v, now) {
		return d.reject(profile.FieldDateOfBirth, MsgTooYoung(d.minAge))
	}
	return d.reject(profile.FieldDateOfBirth, MsgDateInvalid)
}

// SetAddress stores v untrimmed if its trimmed form is a valid address.
func (d *Draft) SetAddress(v string) bool {
	if validate.Address(v) {
		d.record.Address = v
		return d.accept(profile.FieldAddress)
	}
	d.record.Address = ""
	trimmed := strings.TrimSpace(v)
	switch {
	case trimmed == "":
		return d.reject(profile.FieldAddress, MsgAddressInvalid)
	case !validate.AddressCharacters(trimmed):
		return d.reject(profile.FieldAddress, MsgAddressCharacters)
	case len(trimmed) <= 6:
		return d.reject(profile.FieldAddress, MsgAddressTooShort)
	default:
		return d.reject(profile.FieldAddress, MsgAddressTooLong)
	}
}

// SetGender stores v if it is one of the gender options.
func (d *Draft) SetGender(v string) bool {
	if validate.Gender(v) {
		d.record.Gender = v
		return d.accept(profile.FieldGender)
	}
	d.record.Gender = ""
	return d.reject(profile.FieldGender, MsgGenderInvalid)
}

// SetHighestEducation stores v if it is one of the education options.
func (d *Draft) SetHighestEducation(v string) bool {
	if validate.HighestEducation(v) {
		d.record.HighestEducation = v
		return d.accept(profile.FieldHighestEducation)
	}
	d.record.HighestEducation = ""
	return d.reject(profile.FieldHighestEducation, MsgEducationInvalid)
}

// SetLocation stores c if both components are set and in range. A rejected
// coordinate leaves the location unset.
func (d *Draft) SetLocation(c profile.Coordinate) bool {
	if validate.Location(c) {
		d.record.Location = c.Clone()
		return d.accept(profile.FieldLocation)
	}
	d.record.Location = profile.Coordinate{}
	return d.reject(profile.FieldLocation, MsgLocationInvalid)
}

// SetProfilePicture stores a managed image path. Callers must only pass paths
// the asset manager produced.
func (d *Draft) SetProfilePicture(rel string) bool {
	if validate.NonEmpty(rel) {
		d.record.ProfilePicLocation = rel
		return d.accept(profile.FieldProfilePicLocation)
	}
	d.record.ProfilePicLocation = ""
	return d.reject(profile.FieldProfilePicLocation, MsgPictureInvalid)
}

// CheckSubmit re-validates every stored value before submission. Fields that
// already carry a message keep it; fields that fail now get a "required"
// message. It reports whether the draft is free of errors.
func (d *Draft) CheckSubmit() bool {
	r := d.record
	now := d.now()

	check := func(field profile.Field, ok bool, msg string) {
		if d.errs[field] == "" && !ok {
			d.errs[field] = msg
		}
	}

	check(profile.FieldFirstName, validate.FirstName(r.FirstName), MsgFirstNameRequired)
	check(profile.FieldLastName, validate.LastName(r.LastName), MsgLastNameInvalid)
	check(profile.FieldGender, validate.Gender(r.Gender), MsgGenderRequired)
	check(profile.FieldHighestEducation, validate.HighestEducation(r.HighestEducation), MsgEducationRequired)
	check(profile.FieldMobileNumber, validate.MobileNumber(r.MobileNumber), MsgMobileRequired)
	check(profile.FieldDateOfBirth, validate.DateOfBirth(r.DateOfBirth, now), MsgDateRequired)
	check(profile.FieldDateOfBirth, validate.MinimumAge(r.DateOfBirth, d.minAge, now), MsgTooYoung(d.minAge))
	check(profile.FieldAddress, validate.Address(r.Address), MsgAddressRequired)
	check(profile.FieldLocation, validate.Location(r.Location), MsgLocationRequired)
	if !validate.NonEmpty(r.ProfilePicLocation) {
		d.errs[profile.FieldProfilePicLocation] = MsgPictureRequired
	}

	return !d.errs.Any()
}
