package form

import (
	"fmt"

	"github.com/domonda/go-datatable"
)

// Group holds the fields generated for one column.
type Group struct {
	Title  string
	Fields []Field
}

// Form describes the add-record form of a table.
type Form struct {
	Groups []Group
}

// NewForm generates the fields of all columns of cfg in column order.
// Columns without input definitions are skipped.
// Field names must be unique within the form.
func NewForm(cfg *datatable.TableConfig) (*Form, error) {
	f := new(Form)
	names := make(map[string]bool)
	for i := range cfg.Columns {
		col := &cfg.Columns[i]
		if col.Input.IsZero() {
			continue
		}
		fields, err := GenerateFields(col, i)
		if err != nil {
			return nil, err
		}
		for _, field := range fields {
			if names[field.Name] {
				return nil, fmt.Errorf("column %q: duplicate field name %q", col.Title, field.Name)
			}
			names[field.Name] = true
		}
		f.Groups = append(f.Groups, Group{Title: col.Title, Fields: fields})
	}
	return f, nil
}

// Fields returns the fields of all groups in order.
func (f *Form) Fields() []Field {
	var fields []Field
	for _, g := range f.Groups {
		fields = append(fields, g.Fields...)
	}
	return fields
}

// Field returns the field with name.
func (f *Form) Field(name string) (*Field, bool) {
	for g := range f.Groups {
		for i := range f.Groups[g].Fields {
			if f.Groups[g].Fields[i].Name == name {
				return &f.Groups[g].Fields[i], true
			}
		}
	}
	return nil, false
}
