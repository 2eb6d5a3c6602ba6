package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/tref/internal/api"
	"github.com/dgallion1/tref/internal/config"
	"github.com/dgallion1/tref/internal/docstore"
	"github.com/dgallion1/tref/internal/pathstore"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	level, _ := cfg.SlogLevel()
	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := docstore.NewStore(cfg.DocumentTTL, log)
	store.Start(ctx, cfg.CleanupInterval)

	// Export is optional.
	var ps *pathstore.Client
	var exporter *pathstore.Exporter
	if cfg.PathstoreURL != "" {
		ps = pathstore.NewClient(cfg.PathstoreURL, cfg.PathstoreAPIKey)
		exporter = pathstore.NewExporter(ps, cfg.PathstorePrefix, log)
	}

	srv := api.NewServer(store, exporter, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ln, err := net.Listen("tcp", httpServer.Addr)
	if err != nil {
		log.Error("listen", "addr", httpServer.Addr, "error", err)
		os.Exit(1)
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting tref server", "port", cfg.Port, "export", exporter != nil)
	err = serve(sigCtx, httpServer, ln, log, func() {
		store.Stop()
		if ps != nil {
			ps.Close()
		}
	})
	if err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

// serve runs httpServer on ln until ctx is done, then shuts it down and
// runs cleanup. It returns only after cleanup has finished.
func serve(ctx context.Context, httpServer *http.Server, ln net.Listener, log *slog.Logger, cleanup func()) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("shutdown", "error", err)
		}
		cleanup()
	}()

	if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
