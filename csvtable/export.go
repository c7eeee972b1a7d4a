package csvtable

import (
	"context"
	"io"

	"github.com/domonda/go-datatable"
)

// ExportView returns a view of model without the actions column.
func ExportView(model *datatable.TableModel) datatable.View {
	numCols := len(model.Columns())
	if numCols == 0 {
		return model
	}
	mapping := make([]int, numCols-1)
	for i := range mapping {
		mapping[i] = i
	}
	return &datatable.FilteredView{Source: model, ColumnMapping: mapping}
}

// WriteTable writes the records of model with a header row
// and without the actions column as CSV in format.
// Derived markup is exported as plain text.
func WriteTable(ctx context.Context, dest io.Writer, model *datatable.TableModel, format *Format) error {
	w, err := NewWriterForFormat(format)
	if err != nil {
		return err
	}
	return w.
		WithHeaderRow(true).
		WithColumnFormatter(0, datatable.SprintCellFormatter(false)).
		WithTypeFormatters(datatable.NewTypeCellFormatter().WithDefaultFormatter(datatable.CellValueFormatter())).
		WriteView(ctx, dest, ExportView(model))
}
