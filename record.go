package datatable

import (
	"strconv"

	json "github.com/goccy/go-json"
)

// IDField is the name of the record field holding the identifier.
const IDField = "id"

// Field is a named value of a Record.
type Field struct {
	Name  string
	Value any
}

// FormValue is a named form value sent to the remote collection.
// Numeric values are converted to a JSON number before sending.
type FormValue struct {
	Name    string
	Value   string
	Numeric bool
}

// Record is one row of a table: the decoded fields of one
// element of the remote collection in document order
// plus an identifier that is never empty after normalization.
type Record struct {
	ID     string
	fields []Field
}

// NewRecord returns a Record with the passed id and fields.
func NewRecord(id string, fields ...Field) Record {
	return Record{ID: id, fields: fields}
}

// Fields returns the fields of the record in document order.
func (r Record) Fields() []Field { return r.fields }

// Value returns the decoded value of the field with name.
// The name "id" returns the record identifier
// if the record has no id field of its own.
func (r Record) Value(name string) (any, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	if name == IDField && r.ID != "" {
		return r.ID, true
	}
	return nil, false
}

// String returns the value of the field with name formatted as string.
// Absent fields and null values result in an empty string.
func (r Record) String(name string) string {
	if name == IDField {
		return r.ID
	}
	v, _ := r.Value(name)
	return ValueString(v)
}

// Map returns the fields of the record as map
// including the identifier under the "id" key.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.fields)+1)
	for _, f := range r.fields {
		m[f.Name] = f.Value
	}
	m[IDField] = r.ID
	return m
}

// ValueString formats a decoded JSON value as string.
// Null results in an empty string, numbers keep their
// JSON text, and objects and arrays are encoded as JSON.
func ValueString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// isMissingID reports if v can't serve as identifier:
// null or an empty string. Zero and false are valid ids.
func isMissingID(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	}
	return false
}
