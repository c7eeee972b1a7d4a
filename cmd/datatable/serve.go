package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/domonda/go-datatable/controller"
	"github.com/domonda/go-datatable/internal/metrics"
	"github.com/domonda/go-datatable/internal/serve"
	"github.com/domonda/go-datatable/restclient"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the page with all configured tables",
	Long: `Start an HTTP server rendering the configured page with its tables.

All tables are loaded at startup. Tables that fail to load are shown
without body and can be reloaded from the page.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (overrides the configuration)")
	serveCmd.Flags().StringP("addr", "a", "", "Address to bind to (overrides the configuration)")
}

func runServe(cmd *cobra.Command, args []string) error {
	collector := metrics.NewCollector()
	flash := serve.NewFlash()
	notifier := controller.NotifierFunc(func(ctx context.Context, n controller.Notification) {
		flash.Notify(ctx, n)
		collector.RecordNotification(n.Table, n.Level.String())
	})

	a, err := loadApp(notifier, restclient.WithObserver(collector))
	if err != nil {
		return err
	}
	defer a.Close()

	config := serve.ServeConfig{
		Addr:            a.cfg.Server.Addr,
		Port:            a.cfg.Server.Port,
		LoadConcurrency: 4,
	}
	if cmd.Flags().Changed("port") {
		config.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("addr") {
		config.Addr, _ = cmd.Flags().GetString("addr")
	}
	config.ExportFormat, err = a.cfg.Export.Format()
	if err != nil {
		return err
	}

	srv, err := serve.NewServer(a.layout, flash, collector, a.logger, config)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.LoadTables(ctx); err != nil {
		a.logger.Warn("Not all tables could be loaded", "err", err)
	}
	return srv.ListenAndServe(ctx)
}
