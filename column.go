package datatable

import (
	"bytes"
	"errors"
	"html/template"
	"strings"
)

// Column is a declarative unit mapping record data to a display cell
// and optionally to one or more fields of the add form.
type Column struct {
	// Title is the header label of the column.
	Title string
	// Value selects or derives the cell content from a Record.
	Value ColumnValue
	// Input describes the add form fields of the column.
	// The zero value means the column has no form fields.
	Input InputSpec
}

// ColumnValue is either a FieldValue projecting a record field
// as plain text, or a derived value returning trusted markup
// (DerivedValue, TemplateValue).
type ColumnValue interface {
	columnValue()
}

// FieldValue projects the record field with the name of the string.
type FieldValue string

// DerivedValue computes the cell content from the whole record.
// The result is treated as markup and inserted without escaping.
type DerivedValue func(Record) string

// TemplateValue derives the cell content by executing an html/template
// with the record fields as data. Markup in the template text is trusted,
// record values inserted by actions are escaped.
type TemplateValue struct {
	src  string
	tmpl *template.Template
}

func (FieldValue) columnValue()     {}
func (DerivedValue) columnValue()   {}
func (*TemplateValue) columnValue() {}

// Derived returns a ColumnValue computing markup from a record.
func Derived(fn func(Record) string) ColumnValue { return DerivedValue(fn) }

// Template parses src as html/template with the functions
// of TemplateFuncs and returns it as ColumnValue.
func Template(src string) (*TemplateValue, error) {
	tmpl, err := template.New("value").Funcs(TemplateFuncs()).Parse(src)
	if err != nil {
		return nil, err
	}
	return &TemplateValue{src: src, tmpl: tmpl}, nil
}

// MustTemplate is like Template but panics on errors.
func MustTemplate(src string) *TemplateValue {
	v, err := Template(src)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the template source.
func (v *TemplateValue) String() string { return v.src }

// Execute renders the template for rec.
func (v *TemplateValue) Execute(rec Record) (string, error) {
	var buf bytes.Buffer
	err := v.tmpl.Execute(&buf, rec.Map())
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FieldName returns the name of the projected record field
// if the column value is a FieldValue.
// Derived columns have no natural field name.
func (c *Column) FieldName() (string, bool) {
	if name, ok := c.Value.(FieldValue); ok && name != "" {
		return string(name), true
	}
	return "", false
}

// IsDerived returns true if the column content is markup.
func (c *Column) IsDerived() bool {
	switch c.Value.(type) {
	case DerivedValue, *TemplateValue:
		return true
	}
	return false
}

// Validate checks the column and its input definitions.
func (c *Column) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, errors.New("column has no title"))
	}
	switch v := c.Value.(type) {
	case nil:
		errs = append(errs, errors.New("column has no value"))
	case FieldValue:
		if v == "" {
			errs = append(errs, errors.New("column value has no field name"))
		}
	case DerivedValue:
		if v == nil {
			errs = append(errs, errors.New("column has nil derived value"))
		}
	case *TemplateValue:
		if v == nil || v.tmpl == nil {
			errs = append(errs, errors.New("column has nil template value"))
		}
	}
	for _, def := range c.Input.Defs() {
		if def.Name == "" {
			if _, ok := c.FieldName(); !ok {
				errs = append(errs, errors.New("input of derived column needs a name"))
			}
		}
		if err := def.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
