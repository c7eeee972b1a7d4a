package datatable

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Labels of the generated table, used in header and controls.
const (
	IndexColumnTitle   = "№"
	ActionsColumnTitle = "Actions"
	DeleteButtonLabel  = "Delete"
	AddButtonLabel     = "Add"
	CloseButtonLabel   = "Close"
)

// TableConfig is the immutable configuration of one table instance.
type TableConfig struct {
	// Name identifies the table, defaults to Parent without
	// a leading selector character.
	Name string
	// Parent is the selector of the container element,
	// for example "#usersTable".
	Parent string
	// APIURL is the base URL of the REST collection.
	APIURL string
	// Columns in display and form order.
	Columns []Column
	// Sanitizer for markup of derived columns, TrustMarkup if nil.
	Sanitizer Sanitizer
}

// ID returns Name or the Parent selector
// without leading '#' or '.' character.
func (c *TableConfig) ID() string {
	if c.Name != "" {
		return c.Name
	}
	return strings.TrimLeft(c.Parent, "#.")
}

// MarkupSanitizer returns Sanitizer or TrustMarkup if nil.
func (c *TableConfig) MarkupSanitizer() Sanitizer {
	if c.Sanitizer == nil {
		return TrustMarkup
	}
	return c.Sanitizer
}

// Validate returns an error if the configuration is incomplete.
func (c *TableConfig) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Parent) == "" {
		errs = append(errs, errors.New("missing parent selector"))
	}
	if c.APIURL == "" {
		errs = append(errs, errors.New("missing API URL"))
	} else if u, err := url.Parse(c.APIURL); err != nil {
		errs = append(errs, fmt.Errorf("invalid API URL: %w", err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, fmt.Errorf("API URL %q must use http or https", c.APIURL))
	}
	if len(c.Columns) == 0 {
		errs = append(errs, errors.New("no columns"))
	}
	for i := range c.Columns {
		if err := c.Columns[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("column %d: %w", i+1, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("table %q: %w", c.ID(), errors.Join(errs...))
	}
	return nil
}
