package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/domonda/go-datatable"
	"github.com/domonda/go-datatable/internal/mockapi"
)

var mockapiCmd = &cobra.Command{
	Use:   "mockapi",
	Short: "Serve in-memory demo collections",
	Long: `Serve the in-memory REST collections /users (list shaped)
and /cars (map shaped) used by datatable.example.yaml.`,
	RunE: runMockAPI,
}

func init() {
	rootCmd.AddCommand(mockapiCmd)

	mockapiCmd.Flags().StringP("listen", "l", "localhost:8081", "Address to listen on")
}

func demoCollections() map[string]*mockapi.Collection {
	return map[string]*mockapi.Collection{
		"users": mockapi.NewCollection(mockapi.ListShape,
			datatable.NewRecord("1",
				datatable.Field{Name: "name", Value: "Ann Smith"},
				datatable.Field{Name: "birthday", Value: "1990-04-12"},
				datatable.Field{Name: "color", Value: "#1e90ff"},
				datatable.Field{Name: "avatar", Value: "https://example.com/avatars/ann.png"},
			),
			datatable.NewRecord("2",
				datatable.Field{Name: "name", Value: "Bob Jones"},
				datatable.Field{Name: "birthday", Value: "1985-11-30"},
				datatable.Field{Name: "color", Value: "#ff6347"},
			),
		),
		"cars": mockapi.NewCollection(mockapi.MapShape,
			datatable.NewRecord("1",
				datatable.Field{Name: "model", Value: "Roadster"},
				datatable.Field{Name: "price", Value: 24999.5},
				datatable.Field{Name: "currency", Value: "€"},
			),
		),
	}
}

func runMockAPI(cmd *cobra.Command, args []string) error {
	listen, _ := cmd.Flags().GetString("listen")

	mux := http.NewServeMux()
	for name, coll := range demoCollections() {
		prefix := "/" + name
		mux.Handle(prefix, http.StripPrefix(prefix, coll))
		mux.Handle(prefix+"/", http.StripPrefix(prefix, coll))
	}
	server := &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	slog.Info("Serving demo collections", "url", fmt.Sprintf("http://%s/users", listen))
	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
