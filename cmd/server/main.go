// Command server runs the privileged process of the Halogen browser shell:
// the document store, the session controller, and the bridge endpoint the UI
// process connects to.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/halogen-browser/halogen/backend/internal/infrastructure/config"
	"github.com/halogen-browser/halogen/backend/internal/logging"
	"github.com/halogen-browser/halogen/backend/internal/server"
)

func main() {
	cfg := config.LoadOrDefault()

	port := flag.String("port", cfg.Server.Port, "Listen port")
	stateDir := flag.String("state-dir", cfg.Storage.StateDir, "Session state directory")
	flag.Parse()
	cfg.Server.Port = *port
	cfg.Storage.StateDir = *stateDir

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stdout"},
	})
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	// OS hosts (window, data clearing, filter engine) are injected by the
	// embedding layer; standalone runs operate without them.
	srv, err := server.NewServer(cfg, server.Hosts{}, logger)
	if err != nil {
		logger.Fatal("failed to create server", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run()
	}()

	select {
	case sig := <-sigChan:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	case err := <-errChan:
		if err != nil {
			logger.Fatal("server failed", zap.Error(err))
		}
	}
}
