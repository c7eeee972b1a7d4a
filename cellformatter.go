package datatable

import (
	"context"
	"errors"
	"fmt"
	"reflect"
)

// CellFormatter is an interface for formatting view cells as strings.
type CellFormatter interface {
	// FormatCell formats the view cell at row and col as string
	// or returns a wrapped errors.ErrUnsupported if
	// it doesn't support formatting the value of the cell.
	// The raw result indicates if the returned string
	// is in the raw format of the table format and can be
	// used as is or if it has to be sanitized in some way.
	FormatCell(ctx context.Context, view View, row, col int) (str string, raw bool, err error)
}

// CellFormatterFunc implements CellFormatter for a function.
type CellFormatterFunc func(ctx context.Context, view View, row, col int) (str string, raw bool, err error)

func (f CellFormatterFunc) FormatCell(ctx context.Context, view View, row, col int) (str string, raw bool, err error) {
	return f(ctx, view, row, col)
}

// SprintCellFormatter implements CellFormatter by calling
// fmt.Sprint on the cell value. The bool value of the type
// is returned as raw result.
type SprintCellFormatter bool

func (rawResult SprintCellFormatter) FormatCell(ctx context.Context, view View, row, col int) (str string, raw bool, err error) {
	v := view.Cell(row, col)
	if v == nil {
		return "", bool(rawResult), nil
	}
	return fmt.Sprint(v), bool(rawResult), nil
}

// TryFormattersOrSprint returns a CellFormatter that tries the passed
// formatters in order and falls back to SprintCellFormatter(false)
// if all of them return errors.ErrUnsupported.
// Nil formatters are skipped.
func TryFormattersOrSprint(formatters ...CellFormatter) CellFormatter {
	return CellFormatterFunc(func(ctx context.Context, view View, row, col int) (str string, raw bool, err error) {
		for _, f := range formatters {
			if f == nil {
				continue
			}
			str, raw, err = f.FormatCell(ctx, view, row, col)
			if !errors.Is(err, errors.ErrUnsupported) {
				return str, raw, err
			}
		}
		return SprintCellFormatter(false).FormatCell(ctx, view, row, col)
	})
}

// Ensure that TypeCellFormatter implements CellFormatter
var _ CellFormatter = new(TypeCellFormatter)

// TypeCellFormatter selects a CellFormatter by the
// exact reflect.Type of the cell value.
// If no formatter is registered for the type then
// Default is used, or errors.ErrUnsupported returned
// if Default is nil.
//
// All With* methods return a modified copy,
// so a TypeCellFormatter can be shared between writers.
// A nil *TypeCellFormatter is valid and supports no types.
type TypeCellFormatter struct {
	Types   map[reflect.Type]CellFormatter
	Default CellFormatter
}

// NewTypeCellFormatter returns an empty TypeCellFormatter.
func NewTypeCellFormatter() *TypeCellFormatter {
	return new(TypeCellFormatter)
}

func (f *TypeCellFormatter) FormatCell(ctx context.Context, view View, row, col int) (str string, raw bool, err error) {
	if f == nil {
		return "", false, errors.ErrUnsupported
	}
	if err = ctx.Err(); err != nil {
		return "", false, err
	}
	if typeFmt, ok := f.Types[reflect.TypeOf(view.Cell(row, col))]; ok {
		str, raw, err := typeFmt.FormatCell(ctx, view, row, col)
		if !errors.Is(err, errors.ErrUnsupported) {
			return str, raw, err
		}
		// Continue after errors.ErrUnsupported
	}
	if f.Default != nil {
		return f.Default.FormatCell(ctx, view, row, col)
	}
	return "", false, errors.ErrUnsupported
}

// WithTypeFormatter returns a copy with fmt registered for typ.
func (f *TypeCellFormatter) WithTypeFormatter(typ reflect.Type, fmt CellFormatter) *TypeCellFormatter {
	mod := f.cloneOrNew()
	if mod.Types == nil {
		mod.Types = make(map[reflect.Type]CellFormatter)
	}
	mod.Types[typ] = fmt
	return mod
}

// WithDefaultFormatter returns a copy with fmt as Default.
func (f *TypeCellFormatter) WithDefaultFormatter(fmt CellFormatter) *TypeCellFormatter {
	mod := f.cloneOrNew()
	mod.Default = fmt
	return mod
}

func (f *TypeCellFormatter) cloneOrNew() *TypeCellFormatter {
	if f == nil {
		return new(TypeCellFormatter)
	}
	c := &TypeCellFormatter{Default: f.Default}
	if len(f.Types) > 0 {
		c.Types = make(map[reflect.Type]CellFormatter, len(f.Types))
		for key, val := range f.Types {
			c.Types[key] = val
		}
	}
	return c
}
