// Package controller implements the lifecycle of a data table:
// loading the records of the remote collection, rendering them,
// and handling the add and delete events of the user.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/domonda/go-datatable"
	"github.com/domonda/go-datatable/form"
	"github.com/domonda/go-datatable/htmltable"
	"github.com/domonda/go-datatable/modal"
)

// State of the table data.
type State int

const (
	Empty State = iota
	Loading
	Rendered
	Error
)

func (s State) String() string {
	switch s {
	case Empty:
		return "Empty"
	case Loading:
		return "Loading"
	case Rendered:
		return "Rendered"
	case Error:
		return "Error"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Messages shown to the end user.
const (
	MsgRecordAdded     = "Changes added"
	MsgRequiredFields  = "Fill in the required fields: "
	MsgAddFailed       = "Could not add record: "
	MsgDeleteFailed    = "Could not delete record: "
	MsgLoadFailed      = "Could not load table: "
	MsgRecordWithoutID = "Record has no ID"
)

// Client is the remote collection used by a DataTable,
// implemented by *restclient.Client.
type Client interface {
	Fetch(ctx context.Context, apiURL string) ([]datatable.Record, error)
	Create(ctx context.Context, apiURL string, record []datatable.FormValue) ([]byte, error)
	Delete(ctx context.Context, apiURL, id string) error
}

// Option configures a DataTable.
type Option func(*DataTable)

// WithLogger sets the logger for operator messages.
func WithLogger(l *slog.Logger) Option {
	return func(t *DataTable) { t.logger = l }
}

// WithNotifier sets the Notifier for end user messages.
func WithNotifier(n Notifier) Option {
	return func(t *DataTable) { t.notifier = n }
}

// WithRoutes sets the routes used by rendered controls.
func WithRoutes(r Routes) Option {
	return func(t *DataTable) { t.routes = r }
}

// DataTable is the controller of one table instance.
//
// All methods are safe for concurrent use. The mutex of the
// DataTable is never held during requests to the remote collection,
// so concurrent reloads are possible and the last one
// to complete determines the rendered records.
type DataTable struct {
	cfg      datatable.TableConfig
	client   Client
	form     *form.Form
	modal    *modal.Controller
	logger   *slog.Logger
	notifier Notifier
	routes   Routes
	writer   *htmltable.Writer

	mtx     sync.Mutex
	state   State
	model   *datatable.TableModel
	records []datatable.Record
	err     error
}

// New validates cfg and returns a DataTable in the Empty state.
func New(cfg datatable.TableConfig, client Client, opts ...Option) (*DataTable, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	f, err := form.NewForm(&cfg)
	if err != nil {
		return nil, fmt.Errorf("table %q: %w", cfg.ID(), err)
	}
	t := &DataTable{
		cfg:    cfg,
		client: client,
		form:   f,
		logger: slog.Default(),
		routes: DefaultRoutes(cfg.ID()),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.With("table", cfg.ID())
	if t.notifier == nil {
		t.notifier = LogNotifier(t.logger)
	}
	t.modal = modal.New(f, modal.CreatorFunc(t.create))
	t.writer = htmltable.NewWriter().
		WithCaption(false).
		WithTableID(cfg.ID() + "-table").
		WithTableClass("data-table").
		WithTypeFormatters(htmltable.TableModelFormatters(t.routes.DeleteRecord))
	return t, nil
}

// Name returns the identifier of the table.
func (t *DataTable) Name() string { return t.cfg.ID() }

// Config returns the configuration of the table.
func (t *DataTable) Config() *datatable.TableConfig { return &t.cfg }

// Routes returns the routes used by the rendered controls.
func (t *DataTable) Routes() Routes { return t.routes }

// Modal returns the add-record modal of the table.
func (t *DataTable) Modal() *modal.Controller { return t.modal }

// State returns the current state.
func (t *DataTable) State() State {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.state
}

// Err returns the error of the last failed load or nil.
func (t *DataTable) Err() error {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.err
}

// Model returns the last rendered model or nil.
// The returned model must not be modified.
func (t *DataTable) Model() *datatable.TableModel {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.model
}

// Records returns the records of the last successful load.
func (t *DataTable) Records() []datatable.Record {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.records
}

// Load discards the current records and loads them again.
//
// On failure the table is in the Error state and is
// rendered without body.
func (t *DataTable) Load(ctx context.Context) error {
	t.mtx.Lock()
	t.model = nil
	t.records = nil
	t.err = nil
	t.state = Loading
	t.mtx.Unlock()

	return t.fetch(ctx, false)
}

// Reload loads the records again.
//
// On failure the table is in the Error state
// and keeps rendering the records of the last successful load.
func (t *DataTable) Reload(ctx context.Context) error {
	t.mtx.Lock()
	t.state = Loading
	t.mtx.Unlock()

	return t.fetch(ctx, true)
}

func (t *DataTable) fetch(ctx context.Context, keepLastGood bool) error {
	records, err := t.client.Fetch(ctx, t.cfg.APIURL)
	if err == nil {
		var model *datatable.TableModel
		model, err = datatable.BuildTableModel(ctx, &t.cfg, records)
		if err == nil {
			t.mtx.Lock()
			t.state = Rendered
			t.model = model
			t.records = records
			t.err = nil
			t.mtx.Unlock()

			t.logger.DebugContext(ctx, "Loaded table", "records", len(records))
			return nil
		}
	}

	t.logger.ErrorContext(ctx, "Loading table failed", "err", err)

	t.mtx.Lock()
	t.state = Error
	t.err = err
	if !keepLastGood || t.model == nil {
		// Header only, no body
		t.model, _ = datatable.BuildTableModel(ctx, &t.cfg, nil)
		t.records = nil
	}
	t.mtx.Unlock()

	t.notifier.Notify(ctx, Notification{Table: t.Name(), Level: LevelError, Message: MsgLoadFailed + err.Error()})
	return err
}

// Delete deletes the record with id from the remote
// collection and reloads the table on success.
// On failure the rendered records are not changed.
func (t *DataTable) Delete(ctx context.Context, id string) error {
	err := t.client.Delete(ctx, t.cfg.APIURL, id)
	if err != nil {
		t.logger.ErrorContext(ctx, "Deleting record failed", "id", id, "err", err)
		msg := MsgDeleteFailed + err.Error()
		if errors.Is(err, datatable.ErrMissingID) {
			msg = MsgRecordWithoutID
		}
		t.notifier.Notify(ctx, Notification{Table: t.Name(), Level: LevelError, Message: msg})
		return err
	}
	t.logger.InfoContext(ctx, "Deleted record", "id", id)
	return t.Reload(ctx)
}

// OpenModal opens the add-record modal.
func (t *DataTable) OpenModal() error {
	return t.modal.Open()
}

// DismissModal closes the add-record modal
// and discards the entered values.
func (t *DataTable) DismissModal(reason modal.DismissReason) error {
	err := t.modal.Dismiss(reason)
	if err == nil {
		t.logger.Debug("Dismissed modal", "reason", reason)
	}
	return err
}

// SubmitModal validates the values of the add-record form
// and creates a record with them.
// On success the modal is closed and the table reloaded.
// Invalid values return a *datatable.ValidationError
// without sending a request.
func (t *DataTable) SubmitModal(ctx context.Context, values map[string]string) error {
	err := t.modal.Submit(ctx, values)
	if err != nil {
		var validationErr *datatable.ValidationError
		switch {
		case errors.As(err, &validationErr):
			t.notifier.Notify(ctx, Notification{
				Table:   t.Name(),
				Level:   LevelError,
				Message: MsgRequiredFields + strings.Join(validationErr.Fields, ", "),
			})
		case errors.Is(err, modal.ErrNotOpen), errors.Is(err, modal.ErrSubmitting):
			// Stale form post, nothing to report
		default:
			t.logger.ErrorContext(ctx, "Creating record failed", "err", err)
			t.notifier.Notify(ctx, Notification{Table: t.Name(), Level: LevelError, Message: MsgAddFailed + err.Error()})
		}
		return err
	}
	t.notifier.Notify(ctx, Notification{Table: t.Name(), Level: LevelInfo, Message: MsgRecordAdded})
	return t.Reload(ctx)
}

// KeyPress handles a key pressed inside a field of the open modal.
// Enter submits values like SubmitModal, Escape dismisses the modal.
func (t *DataTable) KeyPress(ctx context.Context, key string, values map[string]string) error {
	switch key {
	case modal.KeyEnter:
		return t.SubmitModal(ctx, values)
	case modal.KeyEscape:
		return t.DismissModal(modal.Escape)
	}
	return nil
}

func (t *DataTable) create(ctx context.Context, record []datatable.FormValue) error {
	_, err := t.client.Create(ctx, t.cfg.APIURL, record)
	if err == nil {
		t.logger.InfoContext(ctx, "Created record")
	}
	return err
}
