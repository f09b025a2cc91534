package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/library-inventory/internal/inventory"
	"github.com/vyrodovalexey/library-inventory/internal/server"
	"github.com/vyrodovalexey/library-inventory/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Starts the REST API with the WebSocket event stream on the configured
port, backed by the JSON data file. The server shuts down gracefully
on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger.Info("configuration loaded",
		zap.Int("server_port", appCfg.ServerPort),
		zap.String("log_level", appCfg.LogLevel),
		zap.Duration("shutdown_timeout", appCfg.ShutdownTimeout),
		zap.Bool("metrics_enabled", appCfg.MetricsEnabled),
		zap.String("data_file", appCfg.DataFile),
	)

	srv := server.New(appCfg, logger, openStore(cmd.Context()))

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Start()
	}()

	// Wait for shutdown signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return err
	case sig := <-shutdown:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))

		// Create shutdown context with timeout
		ctx, cancel := context.WithTimeout(context.Background(), appCfg.ShutdownTimeout)
		defer cancel()

		// Graceful shutdown
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}

// openStore loads the collection from the configured data file.
func openStore(ctx context.Context) *inventory.Store {
	return inventory.New(ctx, storage.NewFileStore(appCfg.DataFile, logger), logger)
}
