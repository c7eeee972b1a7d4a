package datatable

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Input types of form fields.
// All types except InputSelect are rendered as input element.
const (
	InputText     = "text"
	InputNumber   = "number"
	InputDate     = "date"
	InputURL      = "url"
	InputColor    = "color"
	InputEmail    = "email"
	InputTel      = "tel"
	InputTime     = "time"
	InputDateTime = "datetime-local"
	InputMonth    = "month"
	InputRange    = "range"
	InputSearch   = "search"
	InputSelect   = "select"
)

var inputTypes = []string{
	InputText, InputNumber, InputDate, InputURL, InputColor, InputEmail, InputTel,
	InputTime, InputDateTime, InputMonth, InputRange, InputSearch, InputSelect,
}

// PassthroughAttrs is the allow list of extra attributes
// that are rendered verbatim on generated form fields.
// Event handler and URL attributes are never passed through.
var PassthroughAttrs = map[string]bool{
	"placeholder":  true,
	"min":          true,
	"max":          true,
	"step":         true,
	"pattern":      true,
	"minlength":    true,
	"maxlength":    true,
	"size":         true,
	"autocomplete": true,
	"title":        true,
	"class":        true,
	"list":         true,
	"readonly":     true,
	"multiple":     true,
	"accept":       true,
	"spellcheck":   true,
	"inputmode":    true,
}

// InputDef describes one field of the add form.
type InputDef struct {
	// Type is the semantic input type, InputText if empty.
	Type string
	// Name of the record field, defaults to the field name of the column.
	Name string
	// Label of the field, defaults to the column title.
	Label string
	// Required defaults to true if nil.
	Required *bool
	// Options are the choices of a select.
	Options []string
	// Attrs are extra attributes, see PassthroughAttrs.
	Attrs map[string]string
}

// Attr is a name value pair of an HTML attribute.
type Attr struct {
	Name  string
	Value string
}

// IsRequired returns if a value must be entered, true by default.
func (d InputDef) IsRequired() bool {
	return d.Required == nil || *d.Required
}

// WithRequired returns a copy of d with Required set.
func (d InputDef) WithRequired(required bool) InputDef {
	d.Required = &required
	return d
}

// InputType returns Type or InputText if empty.
func (d InputDef) InputType() string {
	if d.Type == "" {
		return InputText
	}
	return strings.ToLower(d.Type)
}

// IsSelect returns true for a select with options.
func (d InputDef) IsSelect() bool {
	return d.InputType() == InputSelect && len(d.Options) > 0
}

// PassthroughAttrList returns the allowed extra attributes sorted by name.
// Attributes not in PassthroughAttrs are dropped.
func (d InputDef) PassthroughAttrList() []Attr {
	var attrs []Attr
	for name, value := range d.Attrs {
		name = strings.ToLower(name)
		if PassthroughAttrs[name] {
			attrs = append(attrs, Attr{Name: name, Value: value})
		}
	}
	slices.SortFunc(attrs, func(a, b Attr) int { return strings.Compare(a.Name, b.Name) })
	return attrs
}

// Validate returns an error for an unknown type, a select
// without options, or extra attributes that are not allowed.
func (d InputDef) Validate() error {
	var errs []error
	typ := d.InputType()
	if !slices.Contains(inputTypes, typ) {
		errs = append(errs, fmt.Errorf("input %q has unknown type %q", d.Name, d.Type))
	}
	if typ == InputSelect && len(d.Options) == 0 {
		errs = append(errs, fmt.Errorf("select input %q has no options", d.Name))
	}
	for name := range d.Attrs {
		if !PassthroughAttrs[strings.ToLower(name)] {
			errs = append(errs, fmt.Errorf("input %q attribute %q is not allowed", d.Name, name))
		}
	}
	return errors.Join(errs...)
}

// InputSpec is either a single InputDef or an ordered list of them,
// which maps one column to multiple form fields (e.g. price and currency).
type InputSpec struct {
	defs  []InputDef
	multi bool
}

// SingleInput returns an InputSpec with one field.
func SingleInput(def InputDef) InputSpec {
	return InputSpec{defs: []InputDef{def}}
}

// MultiInput returns an InputSpec with the passed fields in order.
func MultiInput(defs ...InputDef) InputSpec {
	return InputSpec{defs: defs, multi: true}
}

// Defs returns the field definitions in order.
func (s InputSpec) Defs() []InputDef { return s.defs }

// IsMulti returns true if s was created with MultiInput.
func (s InputSpec) IsMulti() bool { return s.multi }

// IsZero returns true if s defines no fields.
func (s InputSpec) IsZero() bool { return len(s.defs) == 0 }
