package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"listmaker/internal/server"
	"listmaker/pkg/auth"
	"listmaker/pkg/logger"
	"listmaker/pkg/pipeline"
	"listmaker/pkg/progress"
	"listmaker/pkg/sheets"
	"listmaker/pkg/zillow"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host the websocket progress channel and static client",
	Long: `Start the HTTP server that serves the web client and hosts the
websocket progress channel. A client logs in over the channel with the
stored credentials and triggers list-making runs; progress messages
stream back over the same connection.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	log := logger.GetLogger()

	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	client := zillow.NewClient(&cfg.Zillow, log)

	// Each run gets its own store so a failed sheet authentication is
	// reported on the channel instead of killing the server at startup.
	factory := func(notifier progress.Notifier) (server.Runner, error) {
		store, err := sheets.NewGoogleStore(context.Background(), &cfg.Sheets, log)
		if err != nil {
			return nil, err
		}
		return pipeline.New(cfg, client, store, notifier, log), nil
	}

	srv := server.New(cfg, manager, factory, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.WithField("signal", sig.String()).Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
