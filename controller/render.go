package controller

import (
	"context"
	"html/template"
	"io"

	"github.com/domonda/go-datatable"
)

var controlsTemplate = template.Must(template.New("controls").Parse(
	`<div class="table-controls">` +
		`<form method="post" action="{{.OpenModal}}" class="add-button-form">` +
		`<button type="submit" class="add-button">{{.AddLabel}}</button>` +
		`</form>` +
		`<form method="post" action="{{.Reload}}" class="reload-form">` +
		`<button type="submit" class="reload-button">Reload</button>` +
		`</form>` +
		`<a href="{{.ExportCSV}}" class="export-link">CSV</a>` +
		"</div>\n",
))

// Render writes the controls with the Add button, the table,
// and the add-record modal if it is open.
// Before the first load the table has no body.
func (t *DataTable) Render(ctx context.Context, w io.Writer) error {
	model := t.Model()
	if model == nil {
		var err error
		model, err = datatable.BuildTableModel(ctx, &t.cfg, nil)
		if err != nil {
			return err
		}
	}

	err := controlsTemplate.Execute(w, struct {
		OpenModal string
		AddLabel  string
		Reload    string
		ExportCSV string
	}{
		OpenModal: t.routes.OpenModal(),
		AddLabel:  datatable.AddButtonLabel,
		Reload:    t.routes.Reload(),
		ExportCSV: t.routes.ExportCSV(),
	})
	if err != nil {
		return err
	}
	err = t.writer.WriteView(ctx, w, model)
	if err != nil {
		return err
	}
	return t.modal.WriteHTML(ctx, w, t.routes.CreateRecord(), t.routes.DismissModal(), t.Name()+"-")
}
