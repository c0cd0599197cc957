package ingest

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyBatch is returned when a processing request carries no records.
	ErrEmptyBatch = errors.New("no leads provided")

	// ErrFileTooLarge is returned before parsing when input exceeds the size limit.
	ErrFileTooLarge = errors.New("file size exceeds limit")

	// ErrNoRecords is returned when parsing succeeded but yielded no usable leads.
	ErrNoRecords = errors.New("no valid leads found")

	// ErrInvalidURL is returned for unparsable import URLs.
	ErrInvalidURL = errors.New("invalid URL format")

	// ErrBadScheme is returned for import URLs that are not http or https.
	ErrBadScheme = errors.New("only HTTP and HTTPS URLs are allowed")

	// ErrMalformedJSON is returned when a source declared as JSON does not parse.
	ErrMalformedJSON = errors.New("failed to parse JSON data")
)

// StatusError reports a non-success HTTP status from an upstream fetch.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Code)
}
