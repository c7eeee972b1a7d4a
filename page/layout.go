package page

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"strings"
)

// Table is a data table that can be mounted into a container.
type Table interface {
	Name() string
	Render(ctx context.Context, w io.Writer) error
}

// Message is a one-shot notification shown above the tables.
type Message struct {
	Level string
	Text  string
}

// Layout is a Page with tables mounted into its containers.
// Every container holds at most one table and
// a table is mounted into exactly one container.
type Layout struct {
	page   *Page
	tables []Table // same index as page.Containers
}

// NewLayout returns a Layout of p without tables.
func NewLayout(p *Page) *Layout {
	return &Layout{page: p, tables: make([]Table, len(p.Containers))}
}

// Mount takes ownership of the container matched by selector for table.
func (l *Layout) Mount(selector string, table Table) error {
	i, err := l.page.Resolve(selector)
	if err != nil {
		return fmt.Errorf("table %q: %w", table.Name(), err)
	}
	if l.tables[i] != nil {
		return fmt.Errorf("table %q: %w: %q has table %q", table.Name(), ErrContainerOwned, selector, l.tables[i].Name())
	}
	l.tables[i] = table
	return nil
}

// Tables returns the mounted tables in container order.
func (l *Layout) Tables() []Table {
	var tables []Table
	for _, t := range l.tables {
		if t != nil {
			tables = append(tables, t)
		}
	}
	return tables
}

type containerData struct {
	ID      string
	Class   string
	Heading string
	Content template.HTML
}

// WriteHTML writes the document with messages
// and all containers with their rendered tables.
func (l *Layout) WriteHTML(ctx context.Context, w io.Writer, messages []Message) error {
	data := struct {
		Title      string
		Messages   []Message
		Containers []containerData
	}{
		Title:    l.page.Title,
		Messages: messages,
	}
	for i, c := range l.page.Containers {
		cd := containerData{
			ID:      c.ID,
			Class:   strings.Join(c.Classes, " "),
			Heading: c.Heading,
		}
		if t := l.tables[i]; t != nil {
			var buf strings.Builder
			err := t.Render(ctx, &buf)
			if err != nil {
				return fmt.Errorf("table %q: %w", t.Name(), err)
			}
			cd.Content = template.HTML(buf.String()) //#nosec G203 -- rendered by html/template
		}
		data.Containers = append(data.Containers, cd)
	}
	return documentTemplate.Execute(w, data)
}

var documentTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <style>
    .data-table { border-collapse: collapse; margin: 8px 0 24px 0; }
    .data-table th, .data-table td { border: 1px solid #ccc; padding: 4px 8px; }
    .data-table img { max-height: 48px; }
    .modal { position: fixed; inset: 0; background: rgba(0,0,0,0.4); display: flex; align-items: center; justify-content: center; }
    .modal-content { background: #fff; padding: 16px; min-width: 320px; }
    .input-group { display: flex; flex-direction: column; margin-bottom: 8px; }
    .error { border: 2px solid #d00; }
    .message { padding: 8px; margin: 4px 0; }
    .message-info { background: #e6f4ea; }
    .message-error { background: #fce8e6; }
  </style>
</head>
<body>
{{- range .Messages}}
  <div class="message message-{{.Level}}" role="alert">{{.Text}}</div>
{{- end}}
{{- range .Containers}}
  <div{{if .ID}} id="{{.ID}}"{{end}}{{if .Class}} class="{{.Class}}"{{end}}>
  {{- if .Heading}}
    <h2>{{.Heading}}</h2>
  {{- end}}
    {{.Content}}
  </div>
{{- end}}
  <script>
    function dismissModal(modal, reason) {
      const form = document.createElement("form");
      form.method = "post";
      form.action = modal.dataset.dismissUrl;
      const input = document.createElement("input");
      input.type = "hidden";
      input.name = "reason";
      input.value = reason;
      form.appendChild(input);
      document.body.appendChild(form);
      form.submit();
    }
    document.querySelectorAll(".modal").forEach((modal) => {
      modal.addEventListener("click", (event) => {
        if (event.target === modal) dismissModal(modal, "backdrop");
      });
      const first = modal.querySelector("input, select");
      if (first) first.focus();
    });
    document.addEventListener("keydown", (event) => {
      if (event.key !== "Escape") return;
      const modal = document.querySelector(".modal");
      if (modal) dismissModal(modal, "escape");
    });
  </script>
</body>
</html>
`))
