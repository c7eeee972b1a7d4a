package modal

import (
	"context"
	"html/template"
	"io"
	"strings"

	"github.com/domonda/go-datatable"
	"github.com/domonda/go-datatable/form"
)

// Template renders an open modal.
// Clicks on the element with the class "modal" outside
// of "modal-content" and the Escape key are posted to
// DismissURL by the script of the host page.
var Template = template.Must(template.New("modal").Parse(`<div class="modal" data-dismiss-url="{{.DismissURL}}">
  <div class="modal-content">
    <form method="post" action="{{.DismissURL}}" class="close-form">
      <input type="hidden" name="reason" value="close">
      <button type="submit" class="close-button">{{.CloseLabel}}</button>
    </form>
    {{.Form}}
  </div>
</div>
`))

// WriteHTML writes the modal with the form state of c
// if it is open, or nothing if it is closed.
func (c *Controller) WriteHTML(ctx context.Context, w io.Writer, submitURL, dismissURL, idPrefix string) error {
	state := c.FormState()
	if state == nil {
		return nil
	}
	var formHTML strings.Builder
	err := form.WriteHTML(ctx, &formHTML, state, submitURL, idPrefix)
	if err != nil {
		return err
	}
	return Template.Execute(w, struct {
		DismissURL string
		CloseLabel string
		Form       template.HTML
	}{
		DismissURL: dismissURL,
		CloseLabel: datatable.CloseButtonLabel,
		Form:       template.HTML(formHTML.String()), //#nosec G203 -- executed by html/template
	})
}
