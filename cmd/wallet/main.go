package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/screwyprof/mixdelegator/pkg/logger"
	"github.com/screwyprof/mixdelegator/pkg/nymapi"
	"github.com/screwyprof/mixdelegator/wallet/config"
	"github.com/screwyprof/mixdelegator/wallet/handler"
	"github.com/screwyprof/mixdelegator/wallet/metrics"
	"github.com/screwyprof/mixdelegator/wallet/state"
)

var (
	version = "dev"
	date    = "unknown"
)

func main() {
	// Load configuration
	cfg := config.New()

	// Initialize logger and set as default
	log := logger.NewFromConfig(logger.Config{
		LogLevel:         cfg.LogLevel,
		LogHumanFriendly: cfg.LogHumanFriendly,
	})
	slog.SetDefault(log)

	// Prepare context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.InfoContext(ctx, "Wallet delegation service starting",
		slog.String("version", version),
		slog.String("date", date),
		slog.String("network", cfg.Network),
	)

	// Wallet backend client
	httpClient := &http.Client{Timeout: cfg.HTTPClientTimeout}
	backend := nymapi.NewClientWithHTTP(httpClient, cfg.BackendURL)

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewRecorder(reg)

	// Delegation store
	store := state.NewStore(backend, cfg.Network, state.WithRefreshInterval(cfg.RefreshInterval))
	events, done := store.Start(ctx)

	subCloser := state.NewSubscriber(events, state.Chain(
		eventLogging(ctx, logger.WithComponent(log, "store")),
		recorder.SubscriberOptions(),
	)...)
	defer subCloser()

	// Create HTTP server
	mux := http.NewServeMux()

	handler.NewDelegations(store, cfg.ExplorerURL).AddRoutes(mux)
	handler.NewBond(backend, store, handler.WithBondLogger(logger.WithComponent(log, "bond"))).AddRoutes(mux)
	handler.NewFees(backend).AddRoutes(mux)
	handler.NewMixnodeSettings(backend).AddRoutes(mux)
	metrics.AddRoutes(mux, reg)

	// Wrap with logging middleware
	loggedMux := logger.NewMiddleware(log)(mux)

	addr := net.JoinHostPort(cfg.HTTPHost, cfg.HTTPPort)

	server := &http.Server{
		Addr:              addr,
		Handler:           loggedMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.InfoContext(ctx, "Server started", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.ErrorContext(ctx, "Server failed to start", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()

	log.InfoContext(ctx, "Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.ErrorContext(ctx, "Server forced to shutdown", slog.Any("error", err))
		os.Exit(1)
	}

	<-done
	log.InfoContext(ctx, "Server exited gracefully")
}

// eventLogging logs store lifecycle events using slog directly
func eventLogging(ctx context.Context, log *slog.Logger) []func(*state.Subscriber) {
	return []func(*state.Subscriber){
		state.OnRefreshStarted(func(event state.RefreshStarted) {
			log.InfoContext(ctx, "Delegation refresh started",
				slog.String("network", event.Network),
				slog.Uint64("generation", event.Generation),
				slog.String("startedAt", event.StartedAt.Format(logger.BritishTimeFormat)),
			)
		}),
		state.OnRefreshCompleted(func(event state.RefreshCompleted) {
			log.InfoContext(ctx, "Delegation refresh completed",
				slog.String("network", event.Network),
				slog.Uint64("generation", event.Generation),
				slog.Int("delegations", event.Delegations),
				slog.Duration("duration", event.Duration),
			)
		}),
		state.OnRefreshFailed(func(event state.RefreshFailed) {
			log.ErrorContext(ctx, "Delegation refresh failed",
				slog.String("network", event.Network),
				slog.Uint64("generation", event.Generation),
				slog.Any("error", event.Err),
			)
		}),
		state.OnStaleResultDiscarded(func(event state.StaleResultDiscarded) {
			log.DebugContext(ctx, "Stale delegation result discarded",
				slog.String("network", event.Network),
				slog.Uint64("generation", event.Generation),
				slog.Uint64("current", event.Current),
			)
		}),
		state.OnStoreShutdown(func(event state.StoreShutdown) {
			log.InfoContext(ctx, "Delegation store stopped",
				slog.String("reason", event.Reason.Error()),
			)
		}),
	}
}
