package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/domonda/go-datatable/controller"
	"github.com/domonda/go-datatable/internal/config"
	"github.com/domonda/go-datatable/internal/logging"
	"github.com/domonda/go-datatable/page"
	"github.com/domonda/go-datatable/restclient"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "datatable",
	Short: "Configuration driven data tables over REST collections",
	Long: `datatable renders the records of remote REST collections as HTML tables
with an add-record form and delete buttons, configured by a YAML file.`,
	SilenceUsage: true,
}

func execute() {
	rootCmd.Version = Version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "datatable.yaml", "Path of the YAML configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")
}

// app is the loaded configuration with logger and tables.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	closer io.Closer
	layout *page.Layout
	tables []*controller.DataTable
}

func (a *app) Close() error { return a.closer.Close() }

// loadApp reads the configuration and creates all tables
// mounted into the containers of the page.
func loadApp(notifier controller.Notifier, clientOpts ...restclient.Option) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	logger, closer, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	a := &app{cfg: cfg, logger: logger, closer: closer}

	tableConfigs, err := cfg.TableConfigs()
	if err != nil {
		a.Close()
		return nil, err
	}
	client := restclient.New(append([]restclient.Option{restclient.WithLogger(logger)}, clientOpts...)...)
	a.layout = page.NewLayout(cfg.HostPage())
	for _, tc := range tableConfigs {
		opts := []controller.Option{controller.WithLogger(logger)}
		if notifier != nil {
			opts = append(opts, controller.WithNotifier(notifier))
		}
		table, err := controller.New(tc, client, opts...)
		if err != nil {
			a.Close()
			return nil, err
		}
		err = a.layout.Mount(tc.Parent, table)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.tables = append(a.tables, table)
	}
	return a, nil
}

// table returns the table with name.
func (a *app) table(name string) (*controller.DataTable, error) {
	for _, t := range a.tables {
		if t.Name() == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("no table named %q", name)
}

// loadAll loads all tables one after another
// and returns the first error.
func (a *app) loadAll(ctx context.Context) error {
	var firstErr error
	for _, t := range a.tables {
		if err := t.Load(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
