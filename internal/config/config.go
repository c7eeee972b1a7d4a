// Package config loads the YAML configuration of the
// datatable server and command line tool.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/domonda/go-types/charset"
	fs "github.com/ungerik/go-fs"
	"gopkg.in/yaml.v3"

	"github.com/domonda/go-datatable"
	"github.com/domonda/go-datatable/csvtable"
	"github.com/domonda/go-datatable/page"
)

type Config struct {
	Server ServerConfig  `yaml:"server"`
	Log    LogConfig     `yaml:"log"`
	Export ExportConfig  `yaml:"export"`
	Page   PageConfig    `yaml:"page"`
	Tables []TableConfig `yaml:"tables"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	Port int    `yaml:"port"`
}

type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
	// File enables a rotated log file in addition to stderr.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	Compress   bool   `yaml:"compress"`
}

// ExportConfig is the format of CSV exports.
// Newline can also be given as "lf" or "crlf".
// Align pads the columns to equal width (left, right, center).
type ExportConfig struct {
	Separator  string `yaml:"separator"`
	Encoding   string `yaml:"encoding"`
	Newline    string `yaml:"newline"`
	Align      string `yaml:"align"`
	QuoteAll   bool   `yaml:"quoteAll"`
	QuoteEmpty bool   `yaml:"quoteEmpty"`
}

// Format returns the validated csvtable.Format of the export.
func (c *ExportConfig) Format() (*csvtable.Format, error) {
	format := &csvtable.Format{
		Encoding:   c.Encoding,
		Separator:  c.Separator,
		Newline:    c.Newline,
		Align:      c.Align,
		QuoteAll:   c.QuoteAll,
		QuoteEmpty: c.QuoteEmpty,
	}
	switch strings.ToLower(c.Newline) {
	case "lf":
		format.Newline = "\n"
	case "crlf":
		format.Newline = "\r\n"
	}
	if format.Separator == `\t` || strings.EqualFold(format.Separator, "tab") {
		format.Separator = "\t"
	}
	if err := format.Validate(); err != nil {
		return nil, err
	}
	if _, err := format.Encoder(); err != nil {
		return nil, err
	}
	return format, nil
}

type PageConfig struct {
	Title      string           `yaml:"title"`
	Containers []page.Container `yaml:"containers"`
}

type TableConfig struct {
	Name     string         `yaml:"name"`
	Parent   string         `yaml:"parent"`
	APIURL   string         `yaml:"apiUrl"`
	Sanitize string         `yaml:"sanitize"`
	Columns  []ColumnConfig `yaml:"columns"`
}

// ColumnConfig has either a Value field name or a Template,
// and optionally either a single Input or a list of Inputs.
type ColumnConfig struct {
	Title    string        `yaml:"title"`
	Value    string        `yaml:"value"`
	Template string        `yaml:"template"`
	Input    *InputConfig  `yaml:"input"`
	Inputs   []InputConfig `yaml:"inputs"`
}

type InputConfig struct {
	Type     string            `yaml:"type"`
	Name     string            `yaml:"name"`
	Label    string            `yaml:"label"`
	Required *bool             `yaml:"required"`
	Options  []string          `yaml:"options"`
	Attrs    map[string]string `yaml:"attrs"`
}

// Default returns the configuration used for values missing in files.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: "localhost", Port: 8080},
		Log:    LogConfig{Level: "info", Format: "text", MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 28},
		Export: ExportConfig{Separator: ";", Encoding: "UTF-8", Newline: "\r\n"},
		Page:   PageConfig{Title: "Data Tables"},
	}
}

// Load reads the YAML file at path over the Default configuration.
func Load(path string) (*Config, error) {
	data, err := fs.File(path).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse parses YAML data over the Default configuration.
func Parse(data []byte) (*Config, error) {
	data = charset.TrimBOM(data, charset.BOMUTF8)
	cfg := Default()
	err := yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, err
	}
	if len(cfg.Tables) == 0 {
		return nil, errors.New("no tables configured")
	}
	return cfg, nil
}

// HostPage returns the host page with its containers.
// Containers missing for the parent ID selectors
// of the tables are appended in table order.
func (c *Config) HostPage() *page.Page {
	p := &page.Page{Title: c.Page.Title, Containers: c.Page.Containers}
	for _, t := range c.Tables {
		id, ok := strings.CutPrefix(strings.TrimSpace(t.Parent), "#")
		if !ok || id == "" {
			continue
		}
		if _, err := p.Resolve("#" + id); errors.Is(err, page.ErrNoContainer) {
			p.Containers = append(p.Containers, page.Container{ID: id, Heading: t.Name})
		}
	}
	return p
}

// TableConfigs converts the configured tables.
func (c *Config) TableConfigs() ([]datatable.TableConfig, error) {
	tables := make([]datatable.TableConfig, 0, len(c.Tables))
	for i := range c.Tables {
		t, err := c.Tables[i].TableConfig()
		if err != nil {
			return nil, fmt.Errorf("table %d: %w", i+1, err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// TableConfig converts t into a validated datatable.TableConfig.
func (t *TableConfig) TableConfig() (datatable.TableConfig, error) {
	sanitizer, ok := datatable.SanitizerByName(t.Sanitize)
	if !ok {
		return datatable.TableConfig{}, fmt.Errorf("unknown sanitizer %q", t.Sanitize)
	}
	cfg := datatable.TableConfig{
		Name:      t.Name,
		Parent:    t.Parent,
		APIURL:    t.APIURL,
		Sanitizer: sanitizer,
	}
	for i, colCfg := range t.Columns {
		col, err := colCfg.Column()
		if err != nil {
			return datatable.TableConfig{}, fmt.Errorf("column %d: %w", i+1, err)
		}
		cfg.Columns = append(cfg.Columns, col)
	}
	return cfg, cfg.Validate()
}

// Column converts c into a datatable.Column.
func (c *ColumnConfig) Column() (datatable.Column, error) {
	col := datatable.Column{Title: c.Title}
	switch {
	case c.Value != "" && c.Template != "":
		return col, fmt.Errorf("column %q has value and template", c.Title)
	case c.Template != "":
		tmpl, err := datatable.Template(c.Template)
		if err != nil {
			return col, fmt.Errorf("column %q: %w", c.Title, err)
		}
		col.Value = tmpl
	case c.Value != "":
		col.Value = datatable.FieldValue(c.Value)
	}
	switch {
	case c.Input != nil && len(c.Inputs) > 0:
		return col, fmt.Errorf("column %q has input and inputs", c.Title)
	case c.Input != nil:
		col.Input = datatable.SingleInput(c.Input.InputDef())
	case len(c.Inputs) > 0:
		defs := make([]datatable.InputDef, len(c.Inputs))
		for i := range c.Inputs {
			defs[i] = c.Inputs[i].InputDef()
		}
		col.Input = datatable.MultiInput(defs...)
	}
	return col, nil
}

func (c *InputConfig) InputDef() datatable.InputDef {
	return datatable.InputDef{
		Type:     c.Type,
		Name:     c.Name,
		Label:    c.Label,
		Required: c.Required,
		Options:  c.Options,
		Attrs:    c.Attrs,
	}
}
