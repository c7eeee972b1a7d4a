package form

import (
	"strings"

	"github.com/domonda/go-datatable"
)

// FieldState is the current value and validity of a field.
type FieldState struct {
	Field
	Value   string
	Invalid bool
}

// State holds the entered values of an open form.
type State struct {
	form   *Form
	fields []FieldState
}

// NewState returns the initial state of f
// with the default values of all fields.
func NewState(f *Form) *State {
	s := &State{form: f}
	for _, field := range f.Fields() {
		s.fields = append(s.fields, FieldState{Field: field, Value: field.DefaultValue()})
	}
	return s
}

// Validate returns the state of f for the submitted values.
//
// Every value is trimmed. A required field with an empty value is invalid.
// A select value that is not one of its options counts as empty.
// Values of unknown names are ignored.
func Validate(f *Form, values map[string]string) *State {
	s := &State{form: f}
	for _, field := range f.Fields() {
		value := strings.TrimSpace(values[field.Name])
		if field.IsSelect() && value != "" && !field.HasOption(value) {
			value = ""
		}
		s.fields = append(s.fields, FieldState{
			Field:   field,
			Value:   value,
			Invalid: field.Required && value == "",
		})
	}
	return s
}

// Form returns the form of the state.
func (s *State) Form() *Form { return s.form }

// Fields returns the states of all fields in form order.
func (s *State) Fields() []FieldState { return s.fields }

// Group returns the field states of the group with index
// in form order.
func (s *State) Group(index int) []FieldState {
	start := 0
	for i := 0; i < index; i++ {
		start += len(s.form.Groups[i].Fields)
	}
	return s.fields[start : start+len(s.form.Groups[index].Fields)]
}

// Value returns the value of the field with name.
func (s *State) Value(name string) string {
	for _, f := range s.fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

// Valid returns true if no field is invalid.
func (s *State) Valid() bool {
	return len(s.InvalidFields()) == 0
}

// InvalidFields returns the names of the invalid fields.
func (s *State) InvalidFields() []string {
	var names []string
	for _, f := range s.fields {
		if f.Invalid {
			names = append(names, f.Name)
		}
	}
	return names
}

// Err returns a *datatable.ValidationError if the state is not valid.
func (s *State) Err() error {
	if names := s.InvalidFields(); len(names) > 0 {
		return &datatable.ValidationError{Fields: names}
	}
	return nil
}

// Record returns the values of all fields in form order.
func (s *State) Record() []datatable.FormValue {
	values := make([]datatable.FormValue, len(s.fields))
	for i, f := range s.fields {
		values[i] = datatable.FormValue{
			Name:    f.Name,
			Value:   f.Value,
			Numeric: f.IsNumeric(),
		}
	}
	return values
}
