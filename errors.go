package datatable

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingID is returned for a record that can't be deleted
	// because it has no id.
	ErrMissingID = errors.New("record has no id")

	// ErrMissingData is returned for a payload without a data member.
	ErrMissingData = errors.New("payload has no data")

	// ErrMalformedPayload is returned when the data member
	// of a payload is neither a list nor an object of records.
	ErrMalformedPayload = errors.New("malformed payload")
)

// FetchError is returned when the records of a table
// could not be loaded or the payload could not be decoded.
type FetchError struct {
	URL        string
	StatusCode int // zero if no HTTP response was received
	Err        error
}

func (e *FetchError) Error() string {
	var b strings.Builder
	b.WriteString("fetch")
	if e.URL != "" {
		b.WriteString(" ")
		b.WriteString(e.URL)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *FetchError) Unwrap() error { return e.Err }

// MutationError is returned when a create or delete request
// was rejected by the remote collection or could not be sent.
type MutationError struct {
	Op         string // "create" or "delete"
	URL        string
	StatusCode int    // zero if no HTTP response was received
	Body       string // response body text, the error detail of the remote
	Err        error
}

func (e *MutationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.URL != "" {
		b.WriteString(" ")
		b.WriteString(e.URL)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if e.Body != "" {
		b.WriteString(": ")
		b.WriteString(e.Body)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *MutationError) Unwrap() error { return e.Err }

// ValidationError is returned when a submitted form
// has required fields without a value.
// It never reaches the network layer.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}
