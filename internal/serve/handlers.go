package serve

import (
	"bytes"
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/domonda/go-datatable/controller"
	"github.com/domonda/go-datatable/csvtable"
	"github.com/domonda/go-datatable/modal"
)

// table returns the table of the {name} path value
// or writes a 404 and returns nil.
func (s *Server) table(w http.ResponseWriter, r *http.Request) *controller.DataTable {
	table := s.tables[r.PathValue("name")]
	if table == nil {
		http.NotFound(w, r)
	}
	return table
}

// redirectToPage answers a form post with 303 See Other,
// so reloading the page in the browser does not post again.
func redirectToPage(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// formValues returns the first value of every posted form field.
func formValues(r *http.Request) (map[string]string, error) {
	err := r.ParseForm()
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(r.PostForm))
	for name, vals := range r.PostForm {
		if len(vals) > 0 {
			values[name] = vals[0]
		}
	}
	return values, nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := s.layout.WriteHTML(r.Context(), &buf, s.flash.Take())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Rendering page failed", "err", err)
		http.Error(w, "rendering page failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	table := s.table(w, r)
	if table == nil {
		return
	}
	var buf bytes.Buffer
	err := table.Render(r.Context(), &buf)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Rendering table failed", "table", table.Name(), "err", err)
		http.Error(w, "rendering table failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

type tableHealth struct {
	State string `json:"state"`
	Error string `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := struct {
		Status string                 `json:"status"`
		Tables map[string]tableHealth `json:"tables"`
	}{
		Status: "ok",
		Tables: make(map[string]tableHealth, len(s.tables)),
	}
	for name, table := range s.tables {
		th := tableHealth{State: table.State().String()}
		if err := table.Err(); err != nil {
			th.Error = err.Error()
		}
		health.Tables[name] = th
	}
	data, err := json.Marshal(health)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	table := s.table(w, r)
	if table == nil {
		return
	}
	model := table.Model()
	if model == nil {
		http.Error(w, "table not loaded", http.StatusConflict)
		return
	}
	var buf bytes.Buffer
	err := csvtable.WriteTable(r.Context(), &buf, model, s.config.ExportFormat)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Exporting table failed", "table", table.Name(), "err", err)
		http.Error(w, "exporting table failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset="+s.config.ExportFormat.Encoding)
	w.Header().Set("Content-Disposition", `attachment; filename="`+table.Name()+`.csv"`)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	table := s.table(w, r)
	if table == nil {
		return
	}
	// Failures are reported to the user by the table
	_ = table.Reload(r.Context())
	redirectToPage(w, r)
}

func (s *Server) handleOpenModal(w http.ResponseWriter, r *http.Request) {
	table := s.table(w, r)
	if table == nil {
		return
	}
	err := table.OpenModal()
	if err != nil && !errors.Is(err, modal.ErrAlreadyOpen) {
		s.logger.WarnContext(r.Context(), "Opening modal failed", "table", table.Name(), "err", err)
	}
	redirectToPage(w, r)
}

func (s *Server) handleDismissModal(w http.ResponseWriter, r *http.Request) {
	table := s.table(w, r)
	if table == nil {
		return
	}
	reason, err := modal.ParseDismissReason(r.FormValue("reason"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	err = table.DismissModal(reason)
	if err != nil && !errors.Is(err, modal.ErrNotOpen) {
		s.logger.WarnContext(r.Context(), "Dismissing modal failed", "table", table.Name(), "err", err)
	}
	redirectToPage(w, r)
}

func (s *Server) handleKeyPress(w http.ResponseWriter, r *http.Request) {
	table := s.table(w, r)
	if table == nil {
		return
	}
	values, err := formValues(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	key := values["key"]
	delete(values, "key")
	// Failures are reported to the user by the table
	_ = table.KeyPress(r.Context(), key, values)
	redirectToPage(w, r)
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	table := s.table(w, r)
	if table == nil {
		return
	}
	values, err := formValues(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// Failures are reported to the user by the table
	_ = table.SubmitModal(r.Context(), values)
	redirectToPage(w, r)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	table := s.table(w, r)
	if table == nil {
		return
	}
	// Failures are reported to the user by the table
	_ = table.Delete(r.Context(), r.PathValue("id"))
	redirectToPage(w, r)
}
