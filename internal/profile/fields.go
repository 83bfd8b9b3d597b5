package profile

// Field identifies one field of a Record.
type Field string

const (
	FieldFirstName          Field = "firstName"
	FieldLastName           Field = "lastName"
	FieldMobileNumber       Field = "mobileNumber"
	FieldGender             Field = "gender"
	FieldHighestEducation   Field = "highestEducation"
	FieldAddress            Field = "address"
	FieldDateOfBirth        Field = "dateOfBirth"
	FieldLocation           Field = "location"
	FieldProfilePicLocation Field = "profilePicLocation"
)

// Fields lists every field in form order.
var Fields = []Field{
	FieldFirstName,
	FieldLastName,
	FieldMobileNumber,
	FieldGender,
	FieldHighestEducation,
	FieldAddress,
	FieldDateOfBirth,
	FieldLocation,
	FieldProfilePicLocation,
}

// Option is a selectable value with its display label.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// DefaultEducation is the education level a fresh draft starts with.
const DefaultEducation = "10th"

// GenderOptions returns the selectable genders.
func GenderOptions() []Option {
	return []Option{
		{Label: "Male", Value: "Male"},
		{Label: "Female", Value: "Female"},
		{Label: "Others", Value: "Others"},
	}
}

// EducationOptions returns the selectable education levels.
func EducationOptions() []Option {
	return []Option{
		{Label: "10th", Value: "10th"},
		{Label: "12th", Value: "12th"},
		{Label: "Graduate", Value: "Graduate"},
		{Label: "Post Graduate", Value: "Post Graduate"},
		{Label: "Ph.D.", Value: "Ph.D."},
		{Label: "Others", Value: "Others"},
	}
}

// HasValue reports whether v is the value of one of opts.
func HasValue(opts []Option, v string) bool {
	for _, o := range opts {
		if o.Value == v {
			return true
		}
	}
	return false
}
