package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/NuZard84/go-speedtype/internal/handlers"
	"github.com/NuZard84/go-speedtype/internal/manager"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the typing test web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := appCtx.cfg
			if cmd.Flags().Changed("addr") {
				cfg.HTTPAddr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := appCtx.logger

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sessions := manager.NewSessionManager(appCtx.provider, cfg.MaxSessions, cfg.SessionTTL, cfg.TickInterval, logger)
			go sessions.Run(ctx, time.Minute)
			defer sessions.Shutdown()

			h := handlers.New(sessions, appCtx.provider, cfg.AllowedOrigin, logger)
			srv := &http.Server{
				Addr:              cfg.HTTPAddr,
				Handler:           h.Routes(),
				ReadHeaderTimeout: 5 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Infow("Server starting", "addr", cfg.HTTPAddr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.Infow("Shutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warnw("Graceful shutdown error", "error", err)
				_ = srv.Close()
			}
			logger.Infow("Server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address (overrides HTTP_ADDR)")
	return cmd
}
