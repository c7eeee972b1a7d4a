// Package modal implements the add-record dialog of a table
// as a state machine independent of any user interface.
package modal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/domonda/go-datatable"
	"github.com/domonda/go-datatable/form"
)

var (
	ErrAlreadyOpen = errors.New("modal is already open")
	ErrNotOpen     = errors.New("modal is not open")
	ErrSubmitting  = errors.New("modal is already submitting")
)

// State of a modal.
type State int

const (
	Closed State = iota
	Open
	// Submitting means a valid record was handed
	// to the Creator and the result is pending.
	Submitting
)

func (s State) String() string {
	switch s {
	case Closed:
		return "Closed"
	case Open:
		return "Open"
	case Submitting:
		return "Submitting"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// DismissReason tells how a modal was closed without submitting.
type DismissReason int

const (
	Backdrop DismissReason = iota
	Escape
	CloseButton
)

func (r DismissReason) String() string {
	switch r {
	case Backdrop:
		return "backdrop"
	case Escape:
		return "escape"
	case CloseButton:
		return "close"
	}
	return fmt.Sprintf("DismissReason(%d)", int(r))
}

// ParseDismissReason parses the result of DismissReason.String.
func ParseDismissReason(s string) (DismissReason, error) {
	switch strings.ToLower(s) {
	case "backdrop":
		return Backdrop, nil
	case "escape":
		return Escape, nil
	case "close", "":
		return CloseButton, nil
	}
	return 0, fmt.Errorf("invalid dismiss reason %q", s)
}

// Keys handled by KeyPress.
const (
	KeyEnter  = "Enter"
	KeyEscape = "Escape"
)

// Creator sends a valid record to the remote collection.
type Creator interface {
	Create(ctx context.Context, record []datatable.FormValue) error
}

// CreatorFunc implements Creator for a function.
type CreatorFunc func(ctx context.Context, record []datatable.FormValue) error

func (f CreatorFunc) Create(ctx context.Context, record []datatable.FormValue) error {
	return f(ctx, record)
}

// Controller is the add-record modal of one table.
// At most one modal is open per Controller.
// The mutex of the Controller is not held while
// the Creator is called.
type Controller struct {
	form    *form.Form
	creator Creator

	mtx       sync.Mutex
	state     State
	formState *form.State
	// generation is incremented on every Open
	// so that the result of a submit can't close
	// a modal that was opened again in between.
	generation uint64
}

// New returns a closed modal for the form f
// that hands valid records to creator.
func New(f *form.Form, creator Creator) *Controller {
	return &Controller{form: f, creator: creator}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.state
}

// IsOpen returns true if the modal is Open or Submitting.
func (c *Controller) IsOpen() bool {
	return c.State() != Closed
}

// FormState returns the entered values or nil if closed.
func (c *Controller) FormState() *form.State {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.formState
}

// Open opens the modal with the default values of the form.
func (c *Controller) Open() error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.state != Closed {
		return ErrAlreadyOpen
	}
	c.state = Open
	c.formState = form.NewState(c.form)
	c.generation++
	return nil
}

// Dismiss closes the modal and discards the entered values.
func (c *Controller) Dismiss(reason DismissReason) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.state == Closed {
		return ErrNotOpen
	}
	c.close()
	return nil
}

func (c *Controller) close() {
	c.state = Closed
	c.formState = nil
}

// KeyPress handles a key pressed inside a field of the form.
// Escape dismisses the modal, Enter submits values
// exactly like Submit. Other keys are ignored.
func (c *Controller) KeyPress(ctx context.Context, key string, values map[string]string) error {
	switch key {
	case KeyEscape:
		return c.Dismiss(Escape)
	case KeyEnter:
		return c.Submit(ctx, values)
	}
	return nil
}

// Submit validates values and hands the record to the Creator.
//
// If a required field is empty, a *datatable.ValidationError
// is returned without calling the Creator and the modal
// stays open with the flagged values.
// If the Creator returns an error, the modal stays open
// with the entered values and the error is returned.
// On success the modal is closed.
func (c *Controller) Submit(ctx context.Context, values map[string]string) error {
	c.mtx.Lock()
	switch c.state {
	case Closed:
		c.mtx.Unlock()
		return ErrNotOpen
	case Submitting:
		c.mtx.Unlock()
		return ErrSubmitting
	}
	state := form.Validate(c.form, values)
	c.formState = state
	if err := state.Err(); err != nil {
		c.mtx.Unlock()
		return err
	}
	c.state = Submitting
	generation := c.generation
	c.mtx.Unlock()

	err := c.creator.Create(ctx, state.Record())

	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.generation != generation || c.state != Submitting {
		// Dismissed or reopened while submitting
		return err
	}
	if err != nil {
		c.state = Open
		return err
	}
	c.close()
	return nil
}
