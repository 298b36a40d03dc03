// Package tripfile implements the portable trip document format: serializing
// a trip for download, and parsing, normalizing, and validating an uploaded
// document back into a trip. Uploaded documents are loosely typed — dates
// arrive as strings and coordinates sometimes as numeric strings — so parsing
// coerces what it can, drops what it cannot, and rejects what remains
// structurally invalid with a message the user can act on.
package tripfile

import (
	"encoding/json"
	"strings"

	"github.com/pkordes/trip-planner/internal/domain"
)

// ValidationError describes why an uploaded trip document was rejected.
// Message is safe to show directly to the user; Cause carries the raw
// decoding error for an on-demand detail view.
type ValidationError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap makes errors.Is(err, domain.ErrValidation) hold for every
// ValidationError, so handlers map uploads to HTTP 422 uniformly.
func (e *ValidationError) Unwrap() error {
	return domain.ErrValidation
}

// Serialize renders the trip as an indented JSON document. Dates become
// ISO-8601 strings via the standard time.Time encoding; the result is a
// structural clone sharing nothing with the trip value.
func Serialize(trip domain.Trip) ([]byte, error) {
	return json.MarshalIndent(trip, "", "  ")
}

// Filename returns the suggested download filename for a trip name:
// spaces become underscores, with a fixed "_trip.json" suffix.
func Filename(tripName string) string {
	return strings.ReplaceAll(tripName, " ", "_") + "_trip.json"
}
