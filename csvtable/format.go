// Package csvtable writes datatable views as CSV
// with support for different encodings, separators,
// and padded column alignment.
package csvtable

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/domonda/go-types/charset"
)

// Format describes the encoding and structural format of a CSV file.
//
// Example:
//
//	format := &Format{
//	    Encoding:  "UTF-8",
//	    Separator: ",",
//	    Newline:   "\r\n",
//	}
type Format struct {
	// Encoding specifies the character encoding of the CSV data.
	// Common values: "UTF-8", "UTF-16LE", "ISO 8859-1", "Windows 1252", "Macintosh"
	Encoding string `json:"encoding"`

	// Separator is the field delimiter character (must be single character).
	// Common values: "," (comma), ";" (semicolon), "\t" (tab)
	Separator string `json:"separator"`

	// Newline specifies the line ending sequence.
	// Valid values: "\n" (LF), "\r\n" (CRLF), "\n\r" (LFCR)
	Newline string `json:"newline"`

	// Align pads all fields of a column to the same width.
	// Valid values: "" or "none", "left", "right", "center"
	Align string `json:"align,omitempty"`

	// QuoteAll quotes every field, QuoteEmpty only empty fields.
	QuoteAll   bool `json:"quoteAll,omitempty"`
	QuoteEmpty bool `json:"quoteEmpty,omitempty"`
}

// NewFormat creates a new Format with the specified separator,
// UTF-8 encoding, and Windows-style line endings (\r\n).
func NewFormat(separator string) *Format {
	return &Format{
		Encoding:  "UTF-8",
		Separator: separator,
		Newline:   "\r\n",
	}
}

// Validate checks if the Format configuration is valid.
// It can be safely called on a nil receiver.
func (f *Format) Validate() error {
	switch {
	case f == nil:
		return errors.New("<nil> csv.Format")
	case f.Encoding == "":
		return errors.New("missing csv.Format.Encoding")
	case f.Separator == "":
		return errors.New("missing csv.Format.Separator")
	case utf8.RuneCountInString(f.Separator) > 1:
		return fmt.Errorf("invalid csv.Format.Separator: %q", f.Separator)
	case f.Newline == "":
		return errors.New("missing csv.Format.Newline")
	case f.Newline != "\n" && f.Newline != "\n\r" && f.Newline != "\r\n":
		return fmt.Errorf("invalid csv.Format.Newline: %q", f.Newline)
	}
	_, err := f.Padding()
	return err
}

// Padding returns the column alignment of Align.
func (f *Format) Padding() (Padding, error) {
	switch strings.ToLower(f.Align) {
	case "", "none":
		return NoPadding, nil
	case "left":
		return AlignLeft, nil
	case "right":
		return AlignRight, nil
	case "center":
		return AlignCenter, nil
	}
	return NoPadding, fmt.Errorf("invalid csv.Format.Align: %q", f.Align)
}

// Encoder returns an Encoder for the Encoding of the format.
// UTF-8 results in a nil Encoder because no encoding is needed.
func (f *Format) Encoder() (Encoder, error) {
	if strings.EqualFold(f.Encoding, "UTF-8") || strings.EqualFold(f.Encoding, "UTF8") {
		return nil, nil
	}
	enc, err := charset.GetEncoding(f.Encoding)
	if err != nil {
		return nil, err
	}
	return EncoderFunc(enc.Encode), nil
}

// EscapeQuotes escapes double quotes in a CSV field value according to RFC 4180.
// Each double quote character (") is replaced with two double quotes ("").
//
//	escaped := EscapeQuotes(`Say "Hello"`)
//	// Returns: `Say ""Hello""`
func EscapeQuotes(val string) string {
	return strings.ReplaceAll(val, `"`, `""`)
}
