package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/zhouzirui/staffbook/backend/internal/config"
	"github.com/zhouzirui/staffbook/backend/internal/handler"
	"github.com/zhouzirui/staffbook/backend/internal/lifecycle"
	"github.com/zhouzirui/staffbook/backend/internal/logging"
	"github.com/zhouzirui/staffbook/backend/internal/metrics"
	"github.com/zhouzirui/staffbook/backend/internal/service/employee"
	"github.com/zhouzirui/staffbook/backend/internal/service/feed"
	"github.com/zhouzirui/staffbook/backend/internal/storage"
	"github.com/zhouzirui/staffbook/backend/internal/storage/file"
)

var logger = logging.For("main")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}
	logging.Init(cfg.Log.Level, cfg.Log.Format)
	if envErr != nil {
		logger.Warn("failed to load .env file, continuing with system environment variables only", "err", envErr)
	}

	if err := run(ctx, cfg); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}

// run seeds the store from storage, serves until ctx is done and saves the
// store once on the way out, whether or not the server failed.
func run(ctx context.Context, cfg *config.Config) error {
	// Initialize storage
	adapter := openStorage(cfg.Storage)

	var m *metrics.Collection
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	// Initialize change feed
	hubOpts := []feed.Option{}
	if m != nil {
		hubOpts = append(hubOpts, feed.WithDropHook(m.FeedDropped.Inc))
	}
	hub := feed.NewHub(hubOpts...)

	// Initialize employee store
	var store employee.Store = employee.NewMemoryStore(adapter.Load(), employee.WithNotifier(hub))
	logger.Info("employee store ready", "employees", store.Len(), "driver", cfg.Storage.Driver)
	if m != nil {
		store = employee.NewInstrumentedStore(store, m)
		m.WithSubscribersGauge(func() float64 { return float64(hub.Subscribers()) })
	}

	persist := lifecycle.NewHook(func() {
		logger.Info("saving employees before exit")
		adapter.Save(store.Snapshot())
		if err := adapter.Close(); err != nil {
			logger.Error("failed to close storage", "err", err)
		}
	})
	defer persist.Run()

	router := handler.NewRouter(handler.Options{
		Store:             store,
		Hub:               hub,
		Metrics:           m,
		SkipCodeThreshold: cfg.Log.SkipCodeThreshold,
	})

	return startServer(ctx, cfg.Server, router, hub)
}

// openStorage falls back to the JSON file adapter when the configured
// driver cannot be opened.
func openStorage(cfg config.StorageConfig) storage.Adapter {
	adapter, err := storage.Open(cfg)
	if err != nil {
		fallback := file.New(file.DefaultPath)
		logger.Error("failed to open storage, falling back to json file",
			"driver", cfg.Driver, "path", fallback.Path(), "err", err)
		return fallback
	}
	return adapter
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, hub *feed.Hub) error {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	// Feed connections are hijacked or long-lived; ending their subscriptions
	// lets Shutdown drain them.
	srv.RegisterOnShutdown(hub.Close)

	logger.Info("employee service listening", "addr", serverCfg.Addr)
	return runServer(ctx, srv)
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown incomplete", "err", err)
		}
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
