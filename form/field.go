// Package form generates the fields of the add-record form
// from table columns and validates submitted values.
package form

import (
	"errors"
	"fmt"
	"slices"

	"github.com/domonda/go-datatable"
)

// ErrNoFieldName is returned for an input of a derived column
// without explicit name, because derived columns
// have no natural record field.
var ErrNoFieldName = errors.New("input has no field name")

// Field is one generated form field.
type Field struct {
	// Column is the index of the owning column.
	Column   int
	Name     string
	Label    string
	Type     string
	Required bool
	// Options of a select field in given order.
	Options []string
	// Attrs are the allowed pass-through attributes.
	Attrs []datatable.Attr
}

// IsSelect returns true for a closed-choice field.
func (f *Field) IsSelect() bool {
	return f.Type == datatable.InputSelect && len(f.Options) > 0
}

// IsNumeric returns true if the value is sent as number.
func (f *Field) IsNumeric() bool {
	return f.Type == datatable.InputNumber || f.Type == datatable.InputRange
}

// DefaultValue returns the initial value of the field,
// the first option of a select or an empty string.
func (f *Field) DefaultValue() string {
	if f.IsSelect() {
		return f.Options[0]
	}
	return ""
}

// HasOption returns if value is one of the select options.
func (f *Field) HasOption(value string) bool {
	return slices.Contains(f.Options, value)
}

// GenerateFields returns one field per input definition
// of col in the defined order.
// colIndex is stored as Field.Column.
func GenerateFields(col *datatable.Column, colIndex int) ([]Field, error) {
	defs := col.Input.Defs()
	fields := make([]Field, 0, len(defs))
	for _, def := range defs {
		name := def.Name
		if name == "" {
			fieldName, ok := col.FieldName()
			if !ok {
				return nil, fmt.Errorf("column %q: %w", col.Title, ErrNoFieldName)
			}
			name = fieldName
		}
		label := def.Label
		if label == "" {
			label = col.Title
		}
		field := Field{
			Column:   colIndex,
			Name:     name,
			Label:    label,
			Type:     def.InputType(),
			Required: def.IsRequired(),
			Attrs:    def.PassthroughAttrList(),
		}
		if def.IsSelect() {
			field.Options = slices.Clone(def.Options)
		} else if field.Type == datatable.InputSelect {
			// A select without options is rendered as text input
			field.Type = datatable.InputText
		}
		fields = append(fields, field)
	}
	return fields, nil
}
