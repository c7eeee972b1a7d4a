package datatable

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Parser parses the string values of submitted form fields
// and record fields into typed values.
type Parser interface {
	// ParseInt parses a string into a 64-bit signed integer.
	ParseInt(string) (int64, error)

	// ParseFloat parses a string into a 64-bit floating point number.
	// May handle locale-specific formatting (e.g., comma vs. period decimals).
	ParseFloat(string) (float64, error)

	// ParseBool parses a string into a boolean value.
	ParseBool(string) (bool, error)

	// ParseTime parses a string into a time.Time value.
	// May try multiple time formats in sequence.
	ParseTime(string) (time.Time, error)
}

// Ensure StringParser implements Parser
var _ Parser = new(StringParser)

// StringParser is a configurable implementation of the Parser interface.
//
// Example usage:
//
//	parser := NewStringParser()
//	f, _ := parser.ParseFloat("3,14")      // 3.14 (handles comma decimal)
//	b, _ := parser.ParseBool("yes")        // true
//	t, _ := parser.ParseTime("2024-03-15") // value of a date input
type StringParser struct {
	// TrueStrings lists all strings that should be parsed as boolean true.
	TrueStrings []string `json:"trueStrings"`

	// FalseStrings lists all strings that should be parsed as boolean false.
	FalseStrings []string `json:"falseStrings"`

	// TimeFormats lists time layout strings to try when parsing time values.
	// Formats are tried in order until one succeeds.
	TimeFormats []string `json:"timeFormats"`
}

// NewStringParser creates a new StringParser with default configurations.
func NewStringParser() *StringParser {
	return &StringParser{
		TrueStrings:  []string{"true", "True", "TRUE", "yes", "Yes", "YES", "1", "on"},
		FalseStrings: []string{"false", "False", "FALSE", "no", "No", "NO", "0", "off"},
		TimeFormats:  timeFormats,
	}
}

// ParseInt parses a string into a 64-bit signed integer using base 10.
func (p *StringParser) ParseInt(str string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(str), 10, 64)
}

// ParseFloat parses a string into a 64-bit floating point number.
//
// If standard parsing fails and the string contains exactly one comma
// and no dot, the comma is treated as decimal separator:
//
//	f, _ := parser.ParseFloat("3.14")    // 3.14
//	f, _ := parser.ParseFloat("3,14")    // 3.14
//	f, _ := parser.ParseFloat("-2.5e10") // -2.5e10
func (p *StringParser) ParseFloat(str string) (float64, error) {
	str = strings.TrimSpace(str)
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		numDot := strings.Count(str, ".")
		numComma := strings.Count(str, ",")
		if numComma == 1 && numDot == 0 {
			f, e := strconv.ParseFloat(strings.ReplaceAll(str, ",", "."), 64)
			if e != nil {
				return 0, err // return original error
			}
			return f, nil
		}
		return 0, err
	}
	return f, nil
}

// ParseBool parses a string into a boolean value based on the configured
// TrueStrings and FalseStrings lists.
func (p *StringParser) ParseBool(str string) (bool, error) {
	for _, val := range p.TrueStrings {
		if str == val {
			return true, nil
		}
	}
	for _, val := range p.FalseStrings {
		if str == val {
			return false, nil
		}
	}
	return false, fmt.Errorf("cannot parse %q as bool", str)
}

// ParseTime parses a string into a time.Time value by trying
// the TimeFormats in order.
func (p *StringParser) ParseTime(str string) (time.Time, error) {
	str = strings.TrimSpace(str)
	for _, format := range p.TimeFormats {
		t, err := time.Parse(format, str)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as time", str)
}

// timeFormats is the default list of time layouts,
// starting with the formats of the date and time inputs.
var timeFormats = []string{
	time.DateOnly,          // "2006-01-02" - value of date inputs
	formatBrowserLocalTime, // "2006-01-02T15:04" - value of datetime-local inputs
	time.RFC3339Nano,
	time.RFC3339,
	time.DateTime,
	formatDateTimeMinute,
	formatDateGerman,
}

const (
	formatDateTimeMinute   = "2006-01-02 15:04"
	formatDateGerman       = "02.01.2006"
	formatBrowserLocalTime = "2006-01-02T15:04"
)
