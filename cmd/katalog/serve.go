package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/erazemk/katalog/internal/api"
	"github.com/erazemk/katalog/internal/catalog"
	"github.com/erazemk/katalog/internal/config"
	"github.com/erazemk/katalog/internal/imaging"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			closeLog, err := setupLogger(cfg.Logging)
			if err != nil {
				return err
			}
			defer closeLog()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			st, err := openStore(runCtx, cfg)
			if err != nil {
				slog.Error("failed to open store", "backend", cfg.Storage.Backend, "error", err)
				return err
			}
			defer func() {
				if err := st.Close(context.Background()); err != nil {
					slog.Error("closing store", "error", err)
				}
			}()
			slog.Info("store ready", "backend", cfg.Storage.Backend)

			return serve(runCtx, cfg, st)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides server.addr)")
	return cmd
}

// newHandler wires the API router and middleware for cfg.
func newHandler(cfg *config.Config, st catalog.Store) http.Handler {
	router := api.NewRouter(st, api.Options{
		BasePath: cfg.Server.BasePath,
		Location: cfg.Location(),
		Images: imaging.Options{
			MaxDimension: cfg.Images.MaxDimension,
			JPEGQuality:  cfg.Images.JPEGQuality,
		},
		MaxUploadBytes: cfg.Images.MaxUploadBytes,
	})

	var handler http.Handler = router
	if cfg.Server.BasePath != "" {
		mux := http.NewServeMux()
		mux.Handle(cfg.Server.BasePath+"/", http.StripPrefix(cfg.Server.BasePath, router))
		handler = mux
	}
	if len(cfg.Server.CORSOrigins) > 0 {
		handler = api.CORSMiddleware(cfg.Server.CORSOrigins)(handler)
	}
	return api.LoggingMiddleware(api.RecoverMiddleware(handler))
}

// serve runs the server until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, cfg *config.Config, st catalog.Store) error {
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newHandler(cfg, st),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       config.Duration(cfg.Server.ReadTimeout),
		WriteTimeout:      config.Duration(cfg.Server.WriteTimeout),
		IdleTimeout:       config.Duration(cfg.Server.IdleTimeout),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server started", "addr", cfg.Server.Addr, "base_path", cfg.Server.BasePath)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Duration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		return err
	}
	slog.Info("server stopped")
	return nil
}
