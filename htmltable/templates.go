package htmltable

import "html/template"

var (
	HeaderTemplate = template.Must(template.New("header").Parse(
		"<table{{if .TableID}} id='{{.TableID}}'{{end}}{{if .TableClass}} class='{{.TableClass}}'{{end}}>\n" +
			"{{if .Caption}}  <caption>{{.Caption}}</caption>\n{{end}}",
	))

	RowTemplate = template.Must(template.New("row").Parse("" +
		"{{if .IsHeaderRow}}" +
		"  <thead>\n" +
		"    <tr>{{range $cell := .RawCells}}<th>{{$cell}}</th>{{end}}</tr>\n" +
		"  </thead>\n" +
		"{{else}}" +
		"    <tr>{{range $cell := .RawCells}}<td>{{$cell}}</td>{{end}}</tr>\n" +
		"{{end}}",
	))

	BodyStartTemplate = template.Must(template.New("bodyStart").Parse(
		"  <tbody>\n",
	))

	BodyEndTemplate = template.Must(template.New("bodyEnd").Parse(
		"  </tbody>\n",
	))

	FooterTemplate = template.Must(template.New("footer").Parse(
		"</table>\n",
	))
)

type TemplateContext struct {
	TableID    string
	TableClass string
	Caption    string
}

type RowTemplateContext struct {
	TemplateContext

	IsHeaderRow bool
	RowIndex    int
	RawCells    []template.HTML
}
