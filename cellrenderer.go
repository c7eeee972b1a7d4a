package datatable

import (
	"context"
	"fmt"
)

// Cell is the rendered content of one data cell.
// Text is plain text that must be escaped for output
// unless Raw is true, in which case Text is markup.
type Cell struct {
	Text string
	Raw  bool
}

// String returns the Text of the cell.
func (c Cell) String() string { return c.Text }

// RenderCell renders the value of col for rec.
//
// A FieldValue column results in the record field as plain text,
// a missing field or null value in an empty cell.
// Derived columns result in markup that is passed through
// sanitizer before it is inserted as is.
// A nil sanitizer trusts the markup.
func RenderCell(ctx context.Context, col *Column, rec Record, sanitizer Sanitizer) (Cell, error) {
	if err := ctx.Err(); err != nil {
		return Cell{}, err
	}
	if sanitizer == nil {
		sanitizer = TrustMarkup
	}
	switch v := col.Value.(type) {
	case FieldValue:
		return Cell{Text: rec.String(string(v))}, nil
	case DerivedValue:
		return Cell{Text: sanitizer.Sanitize(v(rec)), Raw: true}, nil
	case *TemplateValue:
		markup, err := v.Execute(rec)
		if err != nil {
			return Cell{}, fmt.Errorf("column %q: %w", col.Title, err)
		}
		return Cell{Text: sanitizer.Sanitize(markup), Raw: true}, nil
	case nil:
		return Cell{}, fmt.Errorf("column %q has no value", col.Title)
	default:
		return Cell{}, fmt.Errorf("column %q has unsupported value type %T", col.Title, v)
	}
}
