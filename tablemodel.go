package datatable

import (
	"context"
	"errors"
	"fmt"
)

// DeleteAction is the content of the actions cell of a row.
type DeleteAction struct {
	RecordID string
}

// Row is one rendered record of a TableModel.
type Row struct {
	// Index is the 1-based display position of the row.
	Index    int
	RecordID string
	Cells    []Cell
}

var _ View = new(TableModel)

// TableModel describes a rendered table independent of the output format.
//
// As View it has the columns "№", one column per configured Column
// and "Actions". Cells of the index column are int values,
// cells of the configured columns are Cell values and
// cells of the actions column are DeleteAction values.
type TableModel struct {
	Tit    string
	Header []string
	// Rows is nil if the records could not be loaded,
	// which results in a table without body.
	Rows []Row
}

// BuildTableModel renders records with the columns of cfg.
// Calling it again with the same arguments returns an equal model.
func BuildTableModel(ctx context.Context, cfg *TableConfig, records []Record) (*TableModel, error) {
	model := &TableModel{
		Tit:    cfg.ID(),
		Header: HeaderTitles(cfg.Columns),
	}
	if records == nil {
		return model, nil
	}
	sanitizer := cfg.MarkupSanitizer()
	model.Rows = make([]Row, len(records))
	for i, rec := range records {
		row := Row{
			Index:    i + 1,
			RecordID: rec.ID,
			Cells:    make([]Cell, len(cfg.Columns)),
		}
		for c := range cfg.Columns {
			cell, err := RenderCell(ctx, &cfg.Columns[c], rec, sanitizer)
			if err != nil {
				return nil, fmt.Errorf("record %q: %w", rec.ID, err)
			}
			row.Cells[c] = cell
		}
		model.Rows[i] = row
	}
	return model, nil
}

// HeaderTitles returns the header row for columns:
// IndexColumnTitle, the column titles, ActionsColumnTitle.
func HeaderTitles(columns []Column) []string {
	titles := make([]string, 0, len(columns)+2)
	titles = append(titles, IndexColumnTitle)
	for i := range columns {
		titles = append(titles, columns[i].Title)
	}
	return append(titles, ActionsColumnTitle)
}

func (m *TableModel) Title() string     { return m.Tit }
func (m *TableModel) Columns() []string { return m.Header }
func (m *TableModel) NumRows() int      { return len(m.Rows) }

// HasBody returns false if the model was built without records
// because loading them failed.
func (m *TableModel) HasBody() bool { return m.Rows != nil }

func (m *TableModel) Cell(row, col int) any {
	if row < 0 || col < 0 || row >= len(m.Rows) || col >= len(m.Header) {
		return nil
	}
	r := &m.Rows[row]
	switch {
	case col == 0:
		return r.Index
	case col == len(m.Header)-1:
		return DeleteAction{RecordID: r.RecordID}
	case col-1 < len(r.Cells):
		return r.Cells[col-1]
	}
	return nil
}

// DataColumns returns the indices of the View columns
// without the index and actions columns.
func (m *TableModel) DataColumns() []int {
	cols := make([]int, 0, len(m.Header))
	for i := 1; i < len(m.Header)-1; i++ {
		cols = append(cols, i)
	}
	return cols
}

// CellValueFormatter returns a CellFormatter for the cell values
// of a TableModel. Cell values are formatted as their Text with
// their Raw flag, DeleteAction values as DeleteButtonLabel.
// Other values result in errors.ErrUnsupported.
func CellValueFormatter() CellFormatter {
	return CellFormatterFunc(func(ctx context.Context, view View, row, col int) (str string, raw bool, err error) {
		switch v := view.Cell(row, col).(type) {
		case Cell:
			return v.Text, v.Raw, nil
		case DeleteAction:
			return DeleteButtonLabel, false, nil
		}
		return "", false, errors.ErrUnsupported
	})
}
