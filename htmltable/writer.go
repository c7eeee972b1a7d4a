// Package htmltable writes datatable views as HTML tables.
//
// All cell values are HTML-escaped unless a formatter
// returns them as raw markup. Header titles go through
// the same formatter cascade as data cells.
//
// Example usage:
//
//	model, _ := datatable.BuildTableModel(ctx, cfg, records)
//	writer := htmltable.NewWriter().
//	    WithTableClass("data-table").
//	    WithTypeFormatters(htmltable.TableModelFormatters(deleteURL))
//
//	err := writer.WriteView(ctx, w, model)
package htmltable

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"

	"github.com/domonda/go-datatable"
)

// Writer writes views as HTML table elements.
//
// Writer is immutable after creation - all With* methods return
// a new Writer instance with the modified configuration.
type Writer struct {
	tableID           string
	tableClass        string
	caption           bool
	typeFormatters    *datatable.TypeCellFormatter
	headerTemplate    *template.Template
	rowTemplate       *template.Template
	bodyStartTemplate *template.Template
	bodyEndTemplate   *template.Template
	footerTemplate    *template.Template
}

// NewWriter creates a new HTML table writer
// with a caption and the default templates.
func NewWriter() *Writer {
	return &Writer{
		typeFormatters:    nil, // OK to use nil *datatable.TypeCellFormatter
		caption:           true,
		headerTemplate:    HeaderTemplate,
		rowTemplate:       RowTemplate,
		bodyStartTemplate: BodyStartTemplate,
		bodyEndTemplate:   BodyEndTemplate,
		footerTemplate:    FooterTemplate,
	}
}

func (w *Writer) clone() *Writer {
	c := new(Writer)
	*c = *w
	return c
}

// bodyChecker is implemented by views that
// can have no body, like datatable.TableModel.
type bodyChecker interface {
	HasBody() bool
}

// WriteView writes a table view as HTML to the destination writer.
//
// The column titles are written as header row through the
// type formatters like the cells of the body.
// Cell types without formatter fall back to fmt.Sprint.
//
// All non-raw formatted values are HTML-escaped.
// If the view implements HasBody() bool and returns false,
// then the table is written without tbody element.
func (w *Writer) WriteView(ctx context.Context, dest io.Writer, view datatable.View) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var (
		columns   = view.Columns()
		numCols   = len(columns)
		templData = &RowTemplateContext{
			TemplateContext: TemplateContext{
				TableID:    w.tableID,
				TableClass: w.tableClass,
			},
			RawCells: make([]template.HTML, numCols),
		}
	)

	if w.caption {
		templData.Caption = view.Title()
	}

	err := w.headerTemplate.Execute(dest, templData.TemplateContext)
	if err != nil {
		return err
	}

	header := datatable.NewHeaderViewFrom(view)
	templData.IsHeaderRow = true
	for col := range columns {
		templData.RawCells[col], err = w.cellHTML(ctx, header, 0, col)
		if err != nil {
			return err
		}
	}
	err = w.rowTemplate.Execute(dest, templData)
	if err != nil {
		return err
	}
	templData.IsHeaderRow = false

	if b, ok := view.(bodyChecker); ok && !b.HasBody() {
		return w.footerTemplate.Execute(dest, templData.TemplateContext)
	}

	err = w.bodyStartTemplate.Execute(dest, templData.TemplateContext)
	if err != nil {
		return err
	}
	for row, numRows := 0, view.NumRows(); row < numRows; row++ {
		for col := 0; col < numCols; col++ {
			templData.RawCells[col], err = w.cellHTML(ctx, view, row, col)
			if err != nil {
				return err
			}
		}

		err = w.rowTemplate.Execute(dest, templData)
		if err != nil {
			return err
		}

		templData.RowIndex++
	}
	err = w.bodyEndTemplate.Execute(dest, templData.TemplateContext)
	if err != nil {
		return err
	}

	return w.footerTemplate.Execute(dest, templData.TemplateContext)
}

// WriteViewHTML returns the result of WriteView as template.HTML.
func (w *Writer) WriteViewHTML(ctx context.Context, view datatable.View) (template.HTML, error) {
	var buf bytes.Buffer
	err := w.WriteView(ctx, &buf, view)
	if err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil //#nosec G203
}

func (w *Writer) cellHTML(ctx context.Context, view datatable.View, row, col int) (template.HTML, error) {
	str, isRaw, err := w.typeFormatters.FormatCell(ctx, view, row, col)
	if err != nil {
		if !errors.Is(err, errors.ErrUnsupported) {
			return "", err
		}
		// In case of errors.ErrUnsupported
		// use fallback method of formatting
		v := view.Cell(row, col)
		if v == nil {
			return "", nil
		}
		str, isRaw = fmt.Sprint(v), false
	}
	return escapeUnlessRaw(str, isRaw), nil
}

func escapeUnlessRaw(str string, isRaw bool) template.HTML {
	if !isRaw {
		str = template.HTMLEscapeString(str)
	}
	return template.HTML(str) //#nosec G203
}

func executeTemplate(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, data)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WithCaption returns a new writer that writes
// the title of the view as caption if caption is true.
func (w *Writer) WithCaption(caption bool) *Writer {
	mod := w.clone()
	mod.caption = caption
	return mod
}

// WithTableID returns a new writer that sets the id attribute of the table.
func (w *Writer) WithTableID(tableID string) *Writer {
	mod := w.clone()
	mod.tableID = tableID
	return mod
}

// WithTableClass returns a new writer that sets the class attribute of the table.
func (w *Writer) WithTableClass(tableClass string) *Writer {
	mod := w.clone()
	mod.tableClass = tableClass
	return mod
}

// WithTypeFormatters returns a new writer formatting cells by their type.
func (w *Writer) WithTypeFormatters(formatter *datatable.TypeCellFormatter) *Writer {
	mod := w.clone()
	mod.typeFormatters = formatter
	return mod
}
