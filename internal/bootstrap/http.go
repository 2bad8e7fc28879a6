package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/talentexcel/talentexcel-api/config"
	httpx "github.com/talentexcel/talentexcel-api/internal/http"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	services := httpx.RouterServices{
		Auth:           cfg.Services.Auth,
		Jobs:           cfg.Services.Jobs,
		Applications:   cfg.Services.Applications,
		Webhooks:       cfg.Services.Webhooks,
		Onboarding:     cfg.Services.Onboarding,
		Profiles:       cfg.Services.Profiles,
		Dashboard:      cfg.Services.Dashboard,
		Contact:        cfg.Services.Contact,
		CollegeDomains: cfg.Services.CollegeDomains,
	}

	// Route auth state through the watcher only when it actually runs in
	// this process; otherwise protected routes would be held behind a
	// readiness gate that never opens.
	if appCfg.IsSessionWatcherEnabled() && cfg.Services.Watcher != nil {
		services.Watcher = cfg.Services.Watcher
	}

	handler := httpx.NewRouter(httpx.RouterConfig{
		Services:          services,
		CookieDomain:      appCfg.HTTP.CookieDomain,
		EnableCSRF:        appCfg.HTTP.CSRFEnabled,
		EnableCompression: appCfg.HTTP.CompressionEnabled,
		Logger:            logger,
		Metrics:           cfg.Services.Observability.Sink(),
	})

	// Start server (logs "starting HTTP server" internally)
	server := startServer(logger, handler, appCfg.HTTP.Addr)

	return server
}

func startServer(logger *slog.Logger, handler http.Handler, addr string) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	// Shutdown HTTP server with timeout
	shutdownCtx, cancel := context.WithTimeout(cfg.Context, 10*time.Second)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}
