package datatable

import (
	"strings"
)

// StringsView is a View implementation that uses strings as cell values.
//
// The Cols field defines the column names and determines the number of columns.
// A row within Rows can have fewer elements than Cols,
// in which case empty strings are returned for the missing cells.
//
// Example usage:
//
//	view := datatable.NewStringsView(
//	    "Users",
//	    [][]string{
//	        {"№", "Name"},
//	        {"1", "Ann"},
//	    },
//	)
//	fmt.Println(view.Cell(0, 1)) // Output: Ann
type StringsView struct {
	// Tit is the title of this view, returned by the Title() method.
	Tit string

	// Cols contains the column names defining both the column headers
	// and the number of columns in this view.
	Cols []string

	// Rows contains the data rows, where each row is a slice of strings.
	Rows [][]string
}

var _ View = new(StringsView)

// NewStringsView creates a new StringsView.
//
// If no cols are passed and rows is not empty, the first row
// is used as column names and removed from the data rows.
// All column names have leading and trailing whitespace trimmed.
func NewStringsView(title string, rows [][]string, cols ...string) *StringsView {
	if len(cols) == 0 && len(rows) > 0 {
		cols = rows[0]
		rows = rows[1:]
	}
	for i, col := range cols {
		cols[i] = strings.TrimSpace(col)
	}
	return &StringsView{Tit: title, Cols: cols, Rows: rows}
}

// Title returns the title of this view.
func (view *StringsView) Title() string { return view.Tit }

// Columns returns the column names of this view.
func (view *StringsView) Columns() []string { return view.Cols }

// NumRows returns the number of data rows in this view.
func (view *StringsView) NumRows() int { return len(view.Rows) }

// Cell returns the string at [row][col], an empty string
// for a missing cell of a short row, or nil if out of bounds.
func (view *StringsView) Cell(row, col int) any {
	if row < 0 || col < 0 || row >= len(view.Rows) || col >= len(view.Cols) {
		return nil
	}
	if col >= len(view.Rows[row]) {
		return ""
	}
	return view.Rows[row][col]
}

// NewHeaderViewFrom creates a HeaderView from the columns of source.
func NewHeaderViewFrom(source View) *HeaderView {
	return &HeaderView{Tit: source.Title(), Cols: source.Columns()}
}

// HeaderView is a View with exactly one row
// that contains the column names as values.
// Writers use it to pass header titles through
// the same formatting cascade as data cells.
type HeaderView struct {
	Tit  string
	Cols []string
}

// Title returns the title of this view.
func (view *HeaderView) Title() string { return view.Tit }

// Columns returns the column names of this view.
func (view *HeaderView) Columns() []string { return view.Cols }

// NumRows always returns 1.
func (view *HeaderView) NumRows() int { return 1 }

// Cell returns the column name at col for row 0, or nil.
func (view *HeaderView) Cell(row, col int) any {
	if row != 0 || col < 0 || col >= len(view.Cols) {
		return nil
	}
	return view.Cols[col]
}

var _ View = new(FilteredView)

// FilteredView maps the columns of a Source view.
type FilteredView struct {
	Source View
	// If not nil then the view has as many
	// columns as ColumnMapping has elements and
	// every element is a column index into the Source view.
	// If nil then the view has as many columns as the Source view.
	ColumnMapping []int
}

func (view *FilteredView) Title() string {
	return view.Source.Title()
}

func (view *FilteredView) Columns() []string {
	sourceCols := view.Source.Columns()
	if view.ColumnMapping == nil {
		return sourceCols
	}
	mappedCols := make([]string, len(view.ColumnMapping))
	for i, iSource := range view.ColumnMapping {
		mappedCols[i] = sourceCols[iSource]
	}
	return mappedCols
}

func (view *FilteredView) NumRows() int {
	return view.Source.NumRows()
}

func (view *FilteredView) Cell(row, col int) any {
	numCols := len(view.Source.Columns())
	if view.ColumnMapping != nil {
		numCols = len(view.ColumnMapping)
	}
	if row < 0 || col < 0 || row >= view.NumRows() || col >= numCols {
		return nil
	}
	if view.ColumnMapping != nil {
		col = view.ColumnMapping[col]
	}
	return view.Source.Cell(row, col)
}
