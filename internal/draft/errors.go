package draft

import (
	"fmt"

	"github.com/matsen/profiles/internal/profile"
	"github.com/matsen/profiles/internal/validate"
)

// Errors maps each field to its current validation message.
// An empty message means the field is valid.
type Errors map[profile.Field]string

func emptyErrors() Errors {
	e := make(Errors, len(profile.Fields))
	for _, f := range profile.Fields {
		e[f] = ""
	}
	return e
}

// Any reports whether at least one field carries a message.
func (e Errors) Any() bool {
	for _, msg := range e {
		if msg != "" {
			return true
		}
	}
	return false
}

// Messages returns "field: message" lines for every invalid field, in form
// order.
func (e Errors) Messages() []string {
	var out []string
	for _, f := range profile.Fields {
		if msg := e[f]; msg != "" {
			out = append(out, fmt.Sprintf("%s: %s", f, msg))
		}
	}
	return out
}

func (e Errors) clone() Errors {
	out := make(Errors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Messages shown while a field is being edited.
const (
	MsgMobileNotNumeric  = "Mobile Number should only contain number"
	MsgMobileLength      = "Mobile Number should be 10 characters long"
	MsgMobileInvalid     = "Mobile Number is invalid"
	MsgDateInvalid       = "Invalid Date of Birth"
	MsgAddressInvalid    = "Address is invalid"
	MsgAddressCharacters = "Only (,) (.) (/) (-), letters, and numbers are allowed"
	MsgAddressTooShort   = "Address cannot be less than 6 characters."
	MsgAddressTooLong    = "Address cannot be more than 250 characters."
	MsgGenderInvalid     = "Invalid gender"
	MsgEducationInvalid  = "Invalid highestEducation"
	MsgLocationInvalid   = "Location is invalid"
	MsgPictureInvalid    = "Invalid profile pic"
)

// Messages filled in by CheckSubmit for fields that were never set.
const (
	MsgFirstNameRequired = "First name is required."
	MsgLastNameInvalid   = "Last name is invalid."
	MsgGenderRequired    = "Gender is required."
	MsgEducationRequired = "highestEducation is required."
	MsgMobileRequired    = "Mobile Number is required."
	MsgDateRequired      = "Date of Birth is required."
	MsgAddressRequired   = "Address is required."
	MsgLocationRequired  = "Location is required."
	MsgPictureRequired   = "Please select/capture a profile pic"
	MsgMobileTaken       = "This mobile number is already associated with another user"
)

// MsgTooYoung is the age message for a minimum age.
func MsgTooYoung(minAge int) string {
	return fmt.Sprintf("Applicant must be %d years old.", minAge)
}

// nameMessage explains why label (e.g. "First Name") rejected v.
func nameMessage(label, v string) string {
	switch {
	case !validate.NonEmpty(v):
		return label + " cannot be empty string"
	case !validate.NameCharacters(v):
		return label + " can only contain letters and full stop (.)"
	case len(v) > 1:
		return label + " should be not more than 30 characters"
	default:
		return label + " should be more than 1 character"
	}
}
