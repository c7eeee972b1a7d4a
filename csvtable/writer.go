package csvtable

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/domonda/go-datatable"
)

// Encoder is an interface to encode byte strings.
type Encoder interface {
	Bytes([]byte) ([]byte, error)
}

// EncoderFunc implements the Encoder interface for a function.
type EncoderFunc func([]byte) ([]byte, error)

func (f EncoderFunc) Bytes(data []byte) ([]byte, error) {
	return f(data)
}

// PassthroughEncoder returns an Encoder that returns the passed data unchanged.
func PassthroughEncoder() Encoder {
	return EncoderFunc(func(data []byte) ([]byte, error) {
		return data, nil
	})
}

type Padding int

const (
	NoPadding Padding = iota
	AlignLeft
	AlignRight
	AlignCenter
)

// Writer writes views as CSV.
//
// Cells that a formatter returns as raw markup
// are converted to plain text with datatable.StripMarkup
// before they are escaped for CSV.
//
// Writer is immutable, all With* methods return a modified copy.
type Writer struct {
	columnFormatters map[int]datatable.CellFormatter
	formatters       *datatable.TypeCellFormatter
	padding          Padding
	headerRow        bool
	quoteAllFields   bool
	quoteEmptyFields bool
	delimiter        rune
	newLine          string
	encoder          Encoder
}

func NewWriter() *Writer {
	return &Writer{
		columnFormatters: make(map[int]datatable.CellFormatter),
		formatters:       nil, // OK to use nil *datatable.TypeCellFormatter
		padding:          NoPadding,
		headerRow:        false,
		quoteAllFields:   false,
		quoteEmptyFields: false,
		delimiter:        ';',
		newLine:          "\r\n",
		encoder:          nil,
	}
}

// NewWriterForFormat returns a Writer with the separator,
// newline, encoding, alignment and quoting of format.
func NewWriterForFormat(format *Format) (*Writer, error) {
	err := format.Validate()
	if err != nil {
		return nil, err
	}
	encoder, err := format.Encoder()
	if err != nil {
		return nil, err
	}
	padding, _ := format.Padding()
	delimiter, _ := utf8.DecodeRuneInString(format.Separator)
	return NewWriter().
		WithDelimiter(delimiter).
		WithNewLine(format.Newline).
		WithEncoder(encoder).
		WithPadding(padding).
		WithQuoteAllFields(format.QuoteAll).
		WithQuoteEmptyFields(format.QuoteEmpty), nil
}

func (w *Writer) clone() *Writer {
	c := new(Writer)
	*c = *w
	return c
}

// WriteView writes the view to dest as formatted as CSV.
func (w *Writer) WriteView(ctx context.Context, dest io.Writer, view datatable.View) error {
	if w.padding != NoPadding {
		return w.writeViewPadded(ctx, dest, view)
	}

	if w.headerRow {
		err := w.writeView(ctx, dest, datatable.NewHeaderViewFrom(view))
		if err != nil {
			return err
		}
	}
	return w.writeView(ctx, dest, view)
}

func (w *Writer) writeView(ctx context.Context, dest io.Writer, view datatable.View) error {
	rowBuf := bytes.NewBuffer(make([]byte, 0, 1024))
	for row, numRows := 0, view.NumRows(); row < numRows; row++ {
		err := w.writeRow(ctx, rowBuf, view, row)
		if err != nil {
			return err
		}
		_, err = dest.Write(rowBuf.Bytes())
		if err != nil {
			return err
		}
		rowBuf.Reset()
	}
	return nil
}

func (w *Writer) writeRow(ctx context.Context, rowBuf *bytes.Buffer, view datatable.View, row int) error {
	for col := range view.Columns() {
		if col > 0 {
			_, err := rowBuf.WriteRune(w.delimiter)
			if err != nil {
				return err
			}
		}
		str, err := w.cellString(ctx, view, row, col)
		if err != nil {
			return err
		}
		_, err = rowBuf.WriteString(str)
		if err != nil {
			return err
		}
	}
	_, err := rowBuf.WriteString(w.newLine)
	if err != nil {
		return err
	}
	return w.encodeRow(rowBuf)
}

// encodeRow reads, encodes, and writes back the buffered row
func (w *Writer) encodeRow(rowBuf *bytes.Buffer) error {
	if w.encoder == nil {
		return nil
	}
	encoded, err := w.encoder.Bytes(rowBuf.Bytes())
	if err != nil {
		return err
	}
	rowBuf.Reset()
	_, err = rowBuf.Write(encoded)
	return err
}

func (w *Writer) writeViewPadded(ctx context.Context, dest io.Writer, view datatable.View) error {
	rows, err := w.ViewStrings(ctx, view)
	if err != nil {
		return err
	}

	// Collect column widths
	colRuneCount := datatable.StringColumnWidths(rows, len(view.Columns()))

	rowBuf := bytes.NewBuffer(make([]byte, 0, 1024))
	for row := range rows {
		for col, str := range rows[row] {
			if col > 0 {
				_, err := rowBuf.WriteRune(w.delimiter)
				if err != nil {
					return err
				}
			}
			var (
				padTotal = colRuneCount[col] - utf8.RuneCountInString(str)
				padLeft  = 0
				padRight = 0
			)
			switch w.padding {
			case AlignLeft:
				padRight = padTotal
			case AlignRight:
				padLeft = padTotal
			case AlignCenter:
				padLeft = padTotal / 2
				padRight = (padTotal + 1) / 2
			}
			rowBuf.WriteString(strings.Repeat(" ", padLeft))
			rowBuf.WriteString(str)
			rowBuf.WriteString(strings.Repeat(" ", padRight))
		}
		rowBuf.WriteString(w.newLine)

		err = w.encodeRow(rowBuf)
		if err != nil {
			return err
		}
		_, err = dest.Write(rowBuf.Bytes())
		if err != nil {
			return err
		}
		rowBuf.Reset()
	}

	return nil
}

// ViewStrings returns the view formatted as a slice of string slices.
func (w *Writer) ViewStrings(ctx context.Context, view datatable.View) ([][]string, error) {
	var (
		numRows = view.NumRows()
		rows    = make([][]string, 0, numRows+1)
	)
	if w.headerRow {
		// view.Columns() already returns a string slice,
		// but use HeaderView for any potential formatting
		rowStrs, err := w.rowStrings(ctx, datatable.NewHeaderViewFrom(view), 0)
		if err != nil {
			return nil, err
		}
		rows = append(rows, rowStrs)
	}
	for row := 0; row < numRows; row++ {
		rowStrs, err := w.rowStrings(ctx, view, row)
		if err != nil {
			return nil, err
		}
		rows = append(rows, rowStrs)
	}
	return rows, nil
}

func (w *Writer) rowStrings(ctx context.Context, view datatable.View, row int) ([]string, error) {
	columns := view.Columns()
	rowStrs := make([]string, len(columns))
	for col := range columns {
		var err error
		rowStrs[col], err = w.cellString(ctx, view, row, col)
		if err != nil {
			return nil, err
		}
	}
	return rowStrs, nil
}

func (w *Writer) cellString(ctx context.Context, view datatable.View, row, col int) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	if colFormatter, ok := w.columnFormatters[col]; ok {
		str, isRaw, err := colFormatter.FormatCell(ctx, view, row, col)
		if err == nil {
			return w.escapeString(str, isRaw), nil
		}
		if !errors.Is(err, errors.ErrUnsupported) {
			return "", err
		}
		// Continue after errors.ErrUnsupported
	}

	str, isRaw, err := w.formatters.FormatCell(ctx, view, row, col)
	if err == nil {
		return w.escapeString(str, isRaw), nil
	}
	if !errors.Is(err, errors.ErrUnsupported) {
		return "", err
	}
	// Continue after errors.ErrUnsupported

	// Use fallback method for formatting
	v := view.Cell(row, col)
	if v == nil {
		return w.escapeString("", false), nil
	}
	return w.escapeString(fmt.Sprint(v), false), nil
}

func (w *Writer) escapeString(str string, isRaw bool) string {
	if isRaw {
		str = datatable.StripMarkup(str)
	}
	// Just in case remove all \r,
	// \n alone is valid within quotes
	str = strings.ReplaceAll(str, "\r", "")
	switch {
	case w.quoteAllFields || strings.ContainsRune(str, w.delimiter) || strings.ContainsRune(str, '\n') || strings.ContainsRune(str, '"'):
		return `"` + EscapeQuotes(str) + `"`
	case w.quoteEmptyFields && str == "":
		return `""`
	}
	return str
}

func (w *Writer) WithHeaderRow(headerRow bool) *Writer {
	mod := w.clone()
	mod.headerRow = headerRow
	return mod
}

// WithColumnFormatter returns a new writer with the passed formatter registered for columnIndex.
// If nil is passed as formatter, then a previous registered column formatter is removed.
func (w *Writer) WithColumnFormatter(columnIndex int, formatter datatable.CellFormatter) *Writer {
	mod := w.clone()
	mod.columnFormatters = make(map[int]datatable.CellFormatter)
	for key, val := range w.columnFormatters {
		mod.columnFormatters[key] = val
	}
	if formatter != nil {
		mod.columnFormatters[columnIndex] = formatter
	} else {
		delete(mod.columnFormatters, columnIndex)
	}
	return mod
}

func (w *Writer) WithTypeFormatters(formatter *datatable.TypeCellFormatter) *Writer {
	mod := w.clone()
	mod.formatters = formatter
	return mod
}

func (w *Writer) WithPadding(padding Padding) *Writer {
	mod := w.clone()
	mod.padding = padding
	return mod
}

func (w *Writer) WithQuoteAllFields(quoteAllFields bool) *Writer {
	mod := w.clone()
	mod.quoteAllFields = quoteAllFields
	return mod
}

func (w *Writer) WithQuoteEmptyFields(quoteEmptyFields bool) *Writer {
	mod := w.clone()
	mod.quoteEmptyFields = quoteEmptyFields
	return mod
}

func (w *Writer) WithDelimiter(delimiter rune) *Writer {
	mod := w.clone()
	mod.delimiter = delimiter
	return mod
}

func (w *Writer) WithNewLine(newLine string) *Writer {
	mod := w.clone()
	mod.newLine = newLine
	return mod
}

func (w *Writer) WithEncoder(encoder Encoder) *Writer {
	mod := w.clone()
	mod.encoder = encoder
	return mod
}

func (w *Writer) Delimiter() rune {
	return w.delimiter
}

func (w *Writer) NewLine() string {
	return w.newLine
}
