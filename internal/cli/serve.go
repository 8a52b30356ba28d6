package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/logger"
)

func serveCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.load(cmd)
			if err != nil {
				return err
			}
			log := logger.L()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			b, closeBackend, err := openBackend(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer closeBackend()

			if err := prepare(ctx, cfg, b, log, time.Now()); err != nil {
				return err
			}
			a := newApp(cfg, b, log, time.Now)

			srv := &http.Server{
				Addr:         ":" + cfg.Server.Port,
				Handler:      a.handler,
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
				IdleTimeout:  cfg.Server.IdleTimeout,
			}

			// ListenAndServe blocks; shutdown is driven from the signal context below.
			serveErr := make(chan error, 1)
			go func() {
				log.Info("server.listening", "addr", srv.Addr, "storage", cfg.Storage.Driver)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
				close(serveErr)
			}()

			select {
			case err := <-serveErr:
				if err != nil {
					return err
				}
			case <-ctx.Done():
			}

			log.Info("server.shutting_down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if err := a.dispatcher.Close(shutdownCtx); err != nil {
				log.Warn("events.close_failed", "err", err)
			}
			log.Info("server.stopped", "events_dropped", a.dispatcher.Dropped())
			return nil
		},
	}
}
