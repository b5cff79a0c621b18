// cmd/serve.go: the serve subcommand starting the HTTP API
package cmd

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/mvirtanen/timesheet-go/internal/api"
	"github.com/mvirtanen/timesheet-go/internal/conf"
	"github.com/mvirtanen/timesheet-go/internal/datastore"
	"github.com/mvirtanen/timesheet-go/internal/logging"
	"github.com/mvirtanen/timesheet-go/internal/observability"
)

// ServeCommand creates the serve subcommand
func ServeCommand(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the timesheet HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(settings)
		},
	}

	cmd.Flags().StringVarP(&settings.WebServer.Port, "port", "p", settings.WebServer.Port, "Port to listen on")
	cmd.Flags().StringVar(&settings.WebServer.Host, "host", settings.WebServer.Host, "Host to bind")

	return cmd
}

func runServer(settings *conf.Settings) error {
	log := logging.ForService("server")

	ds := datastore.New(settings)
	if ds == nil {
		return fmt.Errorf("no database output enabled in configuration")
	}
	if err := ds.Open(); err != nil {
		return fmt.Errorf("failed to open datastore: %w", err)
	}
	defer func() {
		if err := ds.Close(); err != nil {
			log.Error("failed to close datastore", "error", err)
		}
	}()

	metrics, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("failed to create metrics: %w", err)
	}
	if store, ok := ds.(*datastore.SQLiteStore); ok {
		store.SetMetrics(metrics.Datastore)
	}

	e := echo.New()
	e.HideBanner = true

	controller, err := api.New(e, ds, settings, metrics)
	if err != nil {
		return fmt.Errorf("failed to create API controller: %w", err)
	}
	defer func() {
		if err := controller.Shutdown(); err != nil {
			log.Error("failed to shut down API controller", "error", err)
		}
	}()

	addr := net.JoinHostPort(settings.WebServer.Host, settings.WebServer.Port)

	errChan := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
