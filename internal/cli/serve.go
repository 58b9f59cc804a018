// serve.go implements the "screenline serve" command, the HTTP host.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/screenline-dev/screenline/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve interviews over HTTP",
	Long: `Start the JSON HTTP API. Each POST /api/sessions opens an interview;
messages are posted to /api/sessions/{id}/messages. Idle sessions are
dropped after the configured TTL.`,
	RunE: runServe,
}

var addrFlag string

const shutdownTimeout = 10 * time.Second

func init() {
	serveCmd.Flags().StringVar(&addrFlag, "addr", "", "Listen address (default: server.addr from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	app, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer app.Close()

	addr := app.cfg.Server.Addr
	if addrFlag != "" {
		addr = addrFlag
	}
	ttl := time.Duration(app.cfg.Server.SessionTTLMinutes) * time.Minute

	srv := server.New(app.machine, ttl, server.WithLogger(app.logger))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go srv.RunSweeper(ctx, ttl/2)

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("listening", "addr", addr)
		errCh <- srv.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	app.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
