package htmltable

import (
	"context"
	"errors"
	"html/template"
	"reflect"

	"github.com/domonda/go-datatable"
)

var (
	_ datatable.CellFormatter = DeleteButtonFormatter(nil)

	// CellFormatter formats datatable.Cell values as their text,
	// which is escaped by the Writer unless the cell is raw markup.
	CellFormatter datatable.CellFormatterFunc = func(ctx context.Context, view datatable.View, row, col int) (str string, raw bool, err error) {
		cell, ok := view.Cell(row, col).(datatable.Cell)
		if !ok {
			return "", false, errors.ErrUnsupported
		}
		return cell.Text, cell.Raw, nil
	}
)

// DeleteButtonFormatter formats datatable.DeleteAction values
// as a form with a delete button posting to the URL
// returned by the function for the record ID.
type DeleteButtonFormatter func(recordID string) string

var deleteButtonTemplate = template.Must(template.New("deleteButton").Parse(
	`<form method="post" action="{{.Action}}" class="delete-form">` +
		`<button type="submit" class="delete-button" data-id="{{.RecordID}}">{{.Label}}</button>` +
		`</form>`,
))

func (actionURL DeleteButtonFormatter) FormatCell(ctx context.Context, view datatable.View, row, col int) (str string, raw bool, err error) {
	action, ok := view.Cell(row, col).(datatable.DeleteAction)
	if !ok {
		return "", false, errors.ErrUnsupported
	}
	data := struct {
		Action   string
		RecordID string
		Label    string
	}{
		Action:   actionURL(action.RecordID),
		RecordID: action.RecordID,
		Label:    datatable.DeleteButtonLabel,
	}
	str, err = executeTemplate(deleteButtonTemplate, data)
	if err != nil {
		return "", false, err
	}
	return str, true, nil
}

// TableModelFormatters returns the type formatters for the
// cell values of a datatable.TableModel. Delete buttons post to
// the URLs returned by deleteURL. If deleteURL is nil, the actions
// cells show the label of the delete button as text.
func TableModelFormatters(deleteURL func(recordID string) string) *datatable.TypeCellFormatter {
	f := datatable.NewTypeCellFormatter().
		WithTypeFormatter(reflect.TypeOf(datatable.Cell{}), CellFormatter)
	if deleteURL != nil {
		f = f.WithTypeFormatter(reflect.TypeOf(datatable.DeleteAction{}), DeleteButtonFormatter(deleteURL))
	} else {
		f = f.WithTypeFormatter(reflect.TypeOf(datatable.DeleteAction{}), datatable.CellValueFormatter())
	}
	return f
}
