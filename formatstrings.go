package datatable

import (
	"context"
	"unicode/utf8"
)

// FormatViewAsStrings converts a View into a 2D string slice.
//
// Every cell is formatted using the passed CellFormatter,
// falling back to fmt.Sprint for cells it does not support.
//
// When OptionAddHeaderRow is set, the column titles from view.Columns()
// are added as the first row, also passed through the formatter.
// When OptionStripMarkup is set, cells that the formatter reports
// as raw markup are converted to plain text with StripMarkup.
//
// Example:
//
//	rows, err := FormatViewAsStrings(ctx, model, CellValueFormatter(), OptionAddHeaderRow)
//	if err != nil {
//	    return err
//	}
//	for _, row := range rows {
//	    fmt.Println(strings.Join(row, " | "))
//	}
func FormatViewAsStrings(ctx context.Context, view View, formatter CellFormatter, options ...Option) (rows [][]string, err error) {
	formatter = TryFormattersOrSprint(formatter)
	numRows := view.NumRows()
	numCols := len(view.Columns())
	stripMarkup := HasOption(options, OptionStripMarkup)

	formatRow := func(view View, row int) ([]string, error) {
		rowStrings := make([]string, numCols)
		for col := 0; col < numCols; col++ {
			str, raw, err := formatter.FormatCell(ctx, view, row, col)
			if err != nil {
				return nil, err
			}
			if raw && stripMarkup {
				str = StripMarkup(str)
			}
			rowStrings[col] = str
		}
		return rowStrings, nil
	}

	if HasOption(options, OptionAddHeaderRow) {
		// view.Columns() would already returns a string slice,
		// but use formatter for any additional formatting of strings
		rowStrings, err := formatRow(NewHeaderViewFrom(view), 0)
		if err != nil {
			return nil, err
		}
		rows = append(rows, rowStrings)
	}

	for row := 0; row < numRows; row++ {
		rowStrings, err := formatRow(view, row)
		if err != nil {
			return nil, err
		}
		rows = append(rows, rowStrings)
	}

	return rows, nil
}

// StringColumnWidths returns the maximum rune count of every column.
// If numCols is negative, the number of columns
// is the length of the longest row.
func StringColumnWidths(rows [][]string, numCols int) []int {
	if numCols < 0 {
		for _, row := range rows {
			if rowCols := len(row); rowCols > numCols {
				numCols = rowCols
			}
		}
		if numCols <= 0 {
			return nil
		}
	}
	colWidths := make([]int, numCols)
	for row := range rows {
		for col := 0; col < numCols && col < len(rows[row]); col++ {
			numRunes := utf8.RuneCountInString(rows[row][col])
			if numRunes > colWidths[col] {
				colWidths[col] = numRunes
			}
		}
	}
	return colWidths
}
