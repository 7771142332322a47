package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/middleware"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/server"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/store"
	"sales-dashboard/internal/ui/templates"
)

const (
	renderTimeout = 10 * time.Second
	pingTimeout   = 5 * time.Second
)

// dashboardPage renders the page shell. Panels are loaded afterwards over
// SSE, so only the dropdown lookups hit the database here.
func dashboardPage(dashboard *services.Dashboard, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		data := templates.PageData{
			Filter:    models.CurrentMonth(time.Now()),
			RequestID: observability.GetRequestID(ctx),
		}

		opts, err := dashboard.FilterOptions(ctx)
		if err != nil {
			observability.LoggerFrom(ctx, logger).Warn("filter options unavailable", "error", err)
			data.OptionsUnavailable = true
		} else {
			data.Options = opts
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		if err := templates.Dashboard(data).Render(ctx, w); err != nil {
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

// withMiddleware wraps the router. Metrics stays innermost: it reads the
// matched route off the request the mux was handed.
func withMiddleware(h http.Handler, security config.SecurityConfig, logger *slog.Logger) http.Handler {
	chain := middleware.Chain(
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.Tracing(),
		middleware.Logger(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(security),
		middleware.TrustedProxy(security),
		middleware.RateLimit(middleware.NewRateLimiter(security), logger),
		middleware.Metrics(),
	)
	return chain(h)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"addr", cfg.Address(),
		"store", cfg.Store.Redacted(),
		"metrics", cfg.Metrics.Enabled,
	)

	provider, err := store.Open(cfg.Store)
	if err != nil {
		logger.Error("failed to open sales database", "error", err)
		os.Exit(1)
	}

	// An unreachable database is not fatal: every panel reports it on its own.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	if err := provider.Ping(ctx); err != nil {
		logger.Warn("sales database not reachable at startup", "error", err)
	}
	cancel()

	dashboard := services.NewDashboard(store.New(provider, logger), logger)

	templateHandlers := &server.TemplateHandlers{
		Dashboard: dashboardPage(dashboard, logger),
	}

	srv := server.NewServer(dashboard, provider, logger, cfg.Metrics, templateHandlers)

	handler := withMiddleware(srv, cfg.Security, logger)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook("store", func(ctx context.Context) error {
		logger.Info("closing sales database handle")
		return provider.Close()
	})

	logger.Info("starting graceful server")
	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
