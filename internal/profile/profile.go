// Package profile defines the identity record collected for each person.
package profile

// Record is one person's profile.
//
// A Record held in a draft may be incomplete or partially invalid; records
// returned by the store always carry a first name, a valid mobile number and
// a set coordinate.
type Record struct {
	FirstName          string     `json:"firstName"`
	LastName           string     `json:"lastName"`
	MobileNumber       string     `json:"mobileNumber"`
	DateOfBirth        string     `json:"dateOfBirth"` // ISO-8601 date-time
	HighestEducation   string     `json:"highestEducation"`
	Gender             string     `json:"gender"`
	Address            string     `json:"address"`
	ProfilePicLocation string     `json:"profilePicLocation"` // relative to managed image storage
	Location           Coordinate `json:"location"`
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	out := r
	out.Location = r.Location.Clone()
	return out
}

// Equal reports whether two records carry the same values in every field.
func (r Record) Equal(o Record) bool {
	return r.FirstName == o.FirstName &&
		r.LastName == o.LastName &&
		r.MobileNumber == o.MobileNumber &&
		r.DateOfBirth == o.DateOfBirth &&
		r.HighestEducation == o.HighestEducation &&
		r.Gender == o.Gender &&
		r.Address == o.Address &&
		r.ProfilePicLocation == o.ProfilePicLocation &&
		r.Location.Equal(o.Location)
}

// Coordinate is a geocoordinate whose components may be unset.
// A nil component means "not yet set"; zero is a real position.
type Coordinate struct {
	Lat  *float64 `json:"lat,omitempty"`
	Long *float64 `json:"long,omitempty"`
}

// At returns a coordinate with both components set.
func At(lat, long float64) Coordinate {
	return Coordinate{Lat: &lat, Long: &long}
}

// IsSet reports whether both components are present.
func (c Coordinate) IsSet() bool {
	return c.Lat != nil && c.Long != nil
}

// Clone returns a copy that shares no pointers with c.
func (c Coordinate) Clone() Coordinate {
	var out Coordinate
	if c.Lat != nil {
		v := *c.Lat
		out.Lat = &v
	}
	if c.Long != nil {
		v := *c.Long
		out.Long = &v
	}
	return out
}

// Equal compares components by value; two unset components are equal.
func (c Coordinate) Equal(o Coordinate) bool {
	return floatPtrEqual(c.Lat, o.Lat) && floatPtrEqual(c.Long, o.Long)
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
