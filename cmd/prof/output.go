package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/matsen/profiles/internal/draft"
	"github.com/matsen/profiles/internal/profile"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// exitWithFieldErrors reports per-field validation messages and exits.
func exitWithFieldErrors(errs draft.Errors) {
	if humanOutput {
		fmt.Fprintln(os.Stderr, "error: validation failed")
		for _, line := range errs.Messages() {
			fmt.Fprintf(os.Stderr, "  %s\n", line)
		}
	} else {
		outputJSON(newValidationResponse(errs))
	}
	os.Exit(ExitValidationError)
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationResponse lists the fields that failed validation.
type ValidationResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func newValidationResponse(errs draft.Errors) ValidationResponse {
	fields := make(map[string]string)
	for f, msg := range errs {
		if msg != "" {
			fields[string(f)] = msg
		}
	}
	return ValidationResponse{Error: "validation failed", Fields: fields}
}

// RecordResponse is a stored record plus its resolved photograph.
type RecordResponse struct {
	profile.Record
	Preview string `json:"preview,omitempty"`
}

// CreatedResponse is the response for add.
type CreatedResponse struct {
	Status string         `json:"status"`
	ID     int64          `json:"id"`
	Record RecordResponse `json:"record"`
}

// PreviewResponse is the response for preview.
type PreviewResponse struct {
	MobileNumber string `json:"mobileNumber"`
	Preview      string `json:"preview"`
}

// CountResponse reports how many items an operation touched.
type CountResponse struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
	Path   string `json:"path,omitempty"`
}

// ImportLine is one line of an import report.
type ImportLine struct {
	Line   int    `json:"line"`
	Mobile string `json:"mobileNumber,omitempty"`
	ID     int64  `json:"id,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ImportResponse is the response for import.
type ImportResponse struct {
	Imported int          `json:"imported"`
	Failed   int          `json:"failed"`
	Lines    []ImportLine `json:"lines"`
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// printRecordHuman prints one record in human-readable format.
func printRecordHuman(r RecordResponse) {
	name := strings.TrimSpace(r.FirstName + " " + r.LastName)
	fmt.Println(name)
	fmt.Println(strings.Repeat("═", 60))
	fmt.Printf("Mobile:     %s\n", r.MobileNumber)
	fmt.Printf("Born:       %s\n", r.DateOfBirth)
	fmt.Printf("Gender:     %s\n", r.Gender)
	fmt.Printf("Education:  %s\n", r.HighestEducation)
	fmt.Printf("Address:    %s\n", strings.TrimSpace(r.Address))
	fmt.Printf("Location:   %s\n", formatCoordinate(r.Location))
	if r.Preview != "" {
		fmt.Printf("Photo:      %s\n", r.Preview)
	} else if r.ProfilePicLocation != "" {
		fmt.Printf("Photo:      %s (missing)\n", r.ProfilePicLocation)
	}
}

// formatCoordinate formats a coordinate as "lat, long", or "unset".
func formatCoordinate(c profile.Coordinate) string {
	if !c.IsSet() {
		return "unset"
	}
	return fmt.Sprintf("%.6f, %.6f", *c.Lat, *c.Long)
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
