package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-sheet/internal/config"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/handlers/rest"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/session"
)

const shutdownTimeout = 30 * time.Second

func (c *cli) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the session over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd, func(ctx context.Context, s *session.Orchestrator) error {
				return serve(ctx, c.cfg.HTTPAddr, s)
			})
		},
	}
	cmd.Flags().String("addr", "", "listen address")
	if err := c.v.BindPFlag(config.KeyHTTPAddr, cmd.Flags().Lookup("addr")); err != nil {
		panic(err)
	}
	return cmd
}

func serve(ctx context.Context, addr string, s session.Service) error {
	gin.SetMode(gin.ReleaseMode)

	handler, err := rest.NewHandler(&rest.HandlerConfig{Session: s})
	if err != nil {
		return errors.Wrap(err, "failed to create handler")
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "http server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- errors.Wrap(err, "failed to serve")
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("graceful shutdown timeout exceeded, forcing stop", "error", err.Error())
			return srv.Close()
		}
		slog.Info("http server stopped gracefully")
		return nil
	case err := <-errChan:
		return err
	}
}
