package form

import (
	"context"
	"html/template"
	"io"
	"strings"

	"github.com/domonda/go-datatable"
)

// Template renders a State as form element.
// Template data is a *HTMLData value.
var Template = template.Must(template.New("form").Parse(`<form method="post" action="{{.Action}}" class="add-form">
{{- range .Fields}}
  <div class="input-group">
    <label for="{{.ID}}">{{.Label}}</label>
    {{- if .Options}}
    <select id="{{.ID}}" name="{{.Name}}"{{if .Class}} class="{{.Class}}"{{end}}{{if .Required}} required{{end}}{{.Attrs}}>
      {{- range .Options}}
      <option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Value}}</option>
      {{- end}}
    </select>
    {{- else}}
    <input id="{{.ID}}" type="{{.Type}}" name="{{.Name}}" value="{{.Value}}"{{if .Class}} class="{{.Class}}"{{end}}{{if .Required}} required{{end}}{{.Attrs}}>
    {{- end}}
  </div>
{{- end}}
  <button type="submit" class="submit-button">{{.SubmitLabel}}</button>
</form>
`))

// HTMLData is the data of Template.
type HTMLData struct {
	Action      string
	SubmitLabel string
	Fields      []HTMLField
}

type HTMLField struct {
	ID       string
	Name     string
	Label    string
	Type     string
	Value    string
	Required bool
	Class    string
	Attrs    template.HTMLAttr
	Options  []HTMLOption
}

type HTMLOption struct {
	Value    string
	Selected bool
}

// NewHTMLData returns the Template data for s.
// The ids of the fields are prefixed with idPrefix.
// Invalid fields get the "error" class.
func NewHTMLData(s *State, action, idPrefix string) *HTMLData {
	data := &HTMLData{
		Action:      action,
		SubmitLabel: datatable.AddButtonLabel,
		Fields:      make([]HTMLField, len(s.fields)),
	}
	for i, f := range s.fields {
		var (
			classes []string
			attrs   strings.Builder
		)
		for _, a := range f.Attrs {
			if a.Name == "class" {
				classes = append(classes, a.Value)
				continue
			}
			attrs.WriteString(" ")
			attrs.WriteString(a.Name)
			attrs.WriteString(`="`)
			attrs.WriteString(template.HTMLEscapeString(a.Value))
			attrs.WriteString(`"`)
		}
		if f.Invalid {
			classes = append(classes, "error")
		}
		hf := HTMLField{
			ID:       idPrefix + f.Name,
			Name:     f.Name,
			Label:    f.Label,
			Type:     f.Type,
			Value:    f.Value,
			Required: f.Required,
			Class:    strings.Join(classes, " "),
			Attrs:    template.HTMLAttr(attrs.String()), //#nosec G203 -- names from datatable.PassthroughAttrs
		}
		if f.IsSelect() {
			selected := f.Value
			if !f.HasOption(selected) {
				selected = f.DefaultValue()
			}
			for _, opt := range f.Options {
				hf.Options = append(hf.Options, HTMLOption{Value: opt, Selected: opt == selected})
			}
		}
		data.Fields[i] = hf
	}
	return data
}

// WriteHTML writes s as form element posting to action.
func WriteHTML(ctx context.Context, w io.Writer, s *State, action, idPrefix string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return Template.Execute(w, NewHTMLData(s, action, idPrefix))
}
