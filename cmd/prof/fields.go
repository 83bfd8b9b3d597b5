package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/profiles/internal/draft"
	"github.com/matsen/profiles/internal/intake"
	"github.com/matsen/profiles/internal/profile"
)

// recordFlags are the per-field flags shared by add and check.
type recordFlags struct {
	firstName string
	lastName  string
	mobile    string
	dob       string
	gender    string
	education string
	address   string
	lat       float64
	long      float64
	photo     string
}

func (f *recordFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.firstName, "first-name", "", "First name (2-30 letters or full stops)")
	fl.StringVar(&f.lastName, "last-name", "", "Last name (optional)")
	fl.StringVar(&f.mobile, "mobile", "", "Mobile number (10 digits)")
	fl.StringVar(&f.dob, "dob", "", "Date of birth (YYYY-MM-DD or RFC 3339)")
	fl.StringVar(&f.gender, "gender", "", "Gender: Male, Female, Others")
	fl.StringVar(&f.education, "education", "", "Highest education: 10th, 12th, Graduate, Post Graduate, Ph.D., Others")
	fl.StringVar(&f.address, "address", "", "Address (7-250 characters)")
	fl.Float64Var(&f.lat, "lat", 0, "Latitude (defaults to config default_location)")
	fl.Float64Var(&f.long, "long", 0, "Longitude (defaults to config default_location)")
	fl.StringVar(&f.photo, "photo", "", "Path to a jpg, jpeg, png, heic or webp image")
}

// apply runs every flag the user gave through the draft's setters. Flags
// left unset keep the draft's defaults so submit reports them as required.
func (f *recordFlags) apply(cmd *cobra.Command, d *draft.Draft) {
	changed := cmd.Flags().Changed
	if changed("first-name") {
		d.SetFirstName(f.firstName)
	}
	if changed("last-name") {
		d.SetLastName(f.lastName)
	}
	if changed("mobile") {
		d.SetMobileNumber(f.mobile)
	}
	if changed("dob") {
		d.SetDateOfBirth(f.dob)
	}
	if changed("gender") {
		d.SetGender(f.gender)
	}
	if changed("education") {
		d.SetHighestEducation(f.education)
	}
	if changed("address") {
		d.SetAddress(f.address)
	}
}

// location returns a provider for the coordinate: the --lat/--long flags
// when both are given, otherwise the configured default.
func (f *recordFlags) location(cmd *cobra.Command) intake.LocationProvider {
	if cmd.Flags().Changed("lat") && cmd.Flags().Changed("long") {
		return intake.FixedLocation(profile.At(f.lat, f.long))
	}
	return intake.FixedLocation(settings.DefaultLocation)
}

// newDraft returns a draft configured from settings.
func newDraft() *draft.Draft {
	return draft.New(draft.WithMinimumAge(settings.MinimumAge))
}
