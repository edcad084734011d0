// Package serve implements the serve subcommand: it wires the ingestion
// pipeline together and runs the HTTP server until interrupted.
package serve

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/faunawatch/faunawatch-go/internal/api"
	"github.com/faunawatch/faunawatch-go/internal/classifier"
	"github.com/faunawatch/faunawatch-go/internal/conf"
	"github.com/faunawatch/faunawatch-go/internal/datastore"
	"github.com/faunawatch/faunawatch-go/internal/imagestore"
	"github.com/faunawatch/faunawatch-go/internal/ingest"
	"github.com/faunawatch/faunawatch-go/internal/logging"
	"github.com/faunawatch/faunawatch-go/internal/observability"
	"github.com/faunawatch/faunawatch-go/internal/realtime"
	"github.com/faunawatch/faunawatch-go/internal/stats"
	"github.com/faunawatch/faunawatch-go/internal/streamregistry"
)

// shutdownTimeout bounds how long in-flight requests may run after a
// termination signal.
const shutdownTimeout = 10 * time.Second

// Command returns the serve subcommand.
func Command() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the ingestion and notification server",
		RunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			return run(port, debug)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")

	return cmd
}

func run(portOverride string, debug bool) error {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logging.Init(level)
	logger := logging.ForService("serve")

	settings, err := conf.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if portOverride != "" {
		settings.WebServer.Port = portOverride
	}
	if settings.Logging.File != "" {
		fileLogger, closeLog, err := logging.NewFileLogger(settings.Logging.File, "serve", level)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer closeLog() //nolint:errcheck // process is exiting
		logger = fileLogger
	}
	if settings.Security.APISecret == "" {
		logger.Warn("no API secret configured, mutating endpoints are unauthenticated")
	}

	images, err := imagestore.New(settings.Media.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize image store: %w", err)
	}

	detections := datastore.NewMemoryDetectionStore(settings.Retention.MaxDetections)
	alerts := datastore.NewMemoryAlertStore(settings.Retention.MaxAlerts)
	aggregator := stats.NewAggregator()
	cls := classifier.New(settings.Classifier.PrioritySpecies)
	streams := streamregistry.New(settings.Stream.TTL)
	publisher := realtime.NewPublisher()
	defer publisher.Stop()
	metrics := observability.NewMetrics()

	pipeline := ingest.New(detections, alerts, aggregator, cls, images, streams, publisher, metrics)

	e := echo.New()
	e.HideBanner = true
	api.New(e, settings, pipeline, detections, alerts, aggregator, streams, publisher, images, metrics)

	// Run the server; a signal triggers graceful shutdown.
	errCh := make(chan error, 1)
	go func() {
		addr := ":" + settings.WebServer.Port
		logger.Info("server starting",
			"addr", addr,
			"max_detections", settings.Retention.MaxDetections,
			"max_alerts", settings.Retention.MaxAlerts)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
