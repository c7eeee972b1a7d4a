package datatable

// View is the read-only tabular interface that all
// table representations of this package implement.
//
// A View has a title, a list of column titles
// and a number of rows whose cells can be accessed
// by zero based row and column indices.
// Writers like htmltable.Writer and csvtable.Writer
// only depend on this interface.
type View interface {
	// Title of the View, used as table caption.
	Title() string

	// Columns returns the column titles of the View.
	Columns() []string

	// NumRows returns the number of data rows,
	// not counting any header row.
	NumRows() int

	// Cell returns the value at the given row and column
	// or nil if row or col are out of bounds.
	Cell(row, col int) any
}
