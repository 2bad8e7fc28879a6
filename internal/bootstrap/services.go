package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/talentexcel/talentexcel-api/config"
	"github.com/talentexcel/talentexcel-api/internal/data"
	"github.com/talentexcel/talentexcel-api/internal/observability/statsd"
	"github.com/talentexcel/talentexcel-api/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth           *service.AuthService
	Watcher        *service.SessionWatcher
	Jobs           *service.JobService
	Applications   *service.ApplicationService
	Webhooks       *service.WebhookService
	Dispatcher     *service.WebhookDispatcher
	Onboarding     *service.OnboardingService
	Profiles       *service.ProfileService
	Dashboard      *service.DashboardService
	Contact        *service.ContactService
	CollegeDomains *service.CollegeDomainService
	Observability  ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink   *statsd.Client
	MetricsConfig config.ObservabilityMetricsConfig
}

// Sink returns the metrics sink, or nil when metrics are disabled.
//
//nolint:ireturn // consumers take the Sink port.
func (o ObservabilityContainer) Sink() statsd.Sink {
	if o.MetricsSink == nil {
		return nil
	}
	return o.MetricsSink
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	DB                *sql.DB
	ProfileRepo       *data.ProfileRepo
	CredentialRepo    *data.CredentialRepo
	JobListingRepo    *data.JobListingRepo
	ApplicationRepo   *data.ApplicationRepo
	SavedJobRepo      *data.SavedJobRepo
	OnboardingRepo    *data.OnboardingRepo
	ContactRepo       *data.ContactRepo
	CollegeDomainRepo *data.CollegeDomainRepo
	WebhookRepo       *data.WebhookRepo
	StatsRepo         *data.StatsRepo
}

// buildObservability configures the metrics sink.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	obsLogger := logger
	if obsLogger == nil {
		obsLogger = slog.Default()
	}

	var metricsSink *statsd.Client
	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled: true,
			Address: cfg.Metrics.StatsdAddress,
			Prefix:  cfg.Metrics.Prefix,
			Logger:  obsLogger,
		})
		if err != nil {
			obsLogger.Error("failed to initialise statsd client", "error", err)
		} else {
			metricsSink = client
		}
	}

	return ObservabilityContainer{
		MetricsSink:   metricsSink,
		MetricsConfig: cfg.Metrics,
	}
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB) *serviceRepositories {
	return &serviceRepositories{
		DB:                db,
		ProfileRepo:       data.NewProfileRepo(db),
		CredentialRepo:    data.NewCredentialRepo(db),
		JobListingRepo:    data.NewJobListingRepo(db),
		ApplicationRepo:   data.NewApplicationRepo(db),
		SavedJobRepo:      data.NewSavedJobRepo(db),
		OnboardingRepo:    data.NewOnboardingRepo(db),
		ContactRepo:       data.NewContactRepo(db),
		CollegeDomainRepo: data.NewCollegeDomainRepo(db),
		WebhookRepo:       data.NewWebhookRepo(db),
		StatsRepo:         data.NewStatsRepo(db),
	}
}

// NewServices wires repositories, observability, and business services.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil {
		return ServiceContainer{}, errors.New("service deps are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := deps.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	observability := buildObservability(logger, appCfg.Observability)
	repos := buildRepositories(deps.DB)

	collegeDomains, err := service.NewCollegeDomainService(service.CollegeDomainServiceOptions{
		Repo:   repos.CollegeDomainRepo,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create college domain service: %w", err)
	}

	authStack, err := BuildAuthStack(AuthStackDeps{
		Auth:        appCfg.Auth,
		RedisClient: deps.RedisClient,
		Profiles:    repos.ProfileRepo,
		Credentials: repos.CredentialRepo,
		Colleges:    collegeDomains,
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build auth stack: %w", err)
	}

	jobs, err := service.NewJobService(service.JobServiceOptions{
		Repo:   repos.JobListingRepo,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create job service: %w", err)
	}

	dispatcher, err := service.NewWebhookDispatcher(service.WebhookDispatcherOptions{
		Repo:    repos.WebhookRepo,
		Client:  &http.Client{Timeout: appCfg.Services.Webhooks.DeliveryTimeout},
		Logger:  logger,
		Metrics: observability.Sink(),
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create webhook dispatcher: %w", err)
	}

	applications, err := service.NewApplicationService(service.ApplicationServiceOptions{
		Apps:       repos.ApplicationRepo,
		Jobs:       repos.JobListingRepo,
		Saved:      repos.SavedJobRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create application service: %w", err)
	}

	webhooks, err := service.NewWebhookService(service.WebhookServiceOptions{
		Repo:   repos.WebhookRepo,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create webhook service: %w", err)
	}

	onboarding, err := service.NewOnboardingService(service.OnboardingServiceOptions{
		Repo:     repos.OnboardingRepo,
		Profiles: repos.ProfileRepo,
		Logger:   logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create onboarding service: %w", err)
	}

	profiles, err := service.NewProfileService(service.ProfileServiceOptions{
		Repo:   repos.ProfileRepo,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create profile service: %w", err)
	}

	dashboard, err := service.NewDashboardService(service.DashboardServiceOptions{
		Stats:  repos.StatsRepo,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create dashboard service: %w", err)
	}

	contact, err := service.NewContactService(service.ContactServiceOptions{
		Repo:   repos.ContactRepo,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create contact service: %w", err)
	}

	return ServiceContainer{
		Auth:           authStack.Service,
		Watcher:        authStack.Watcher,
		Jobs:           jobs,
		Applications:   applications,
		Webhooks:       webhooks,
		Dispatcher:     dispatcher,
		Onboarding:     onboarding,
		Profiles:       profiles,
		Dashboard:      dashboard,
		Contact:        contact,
		CollegeDomains: collegeDomains,
		Observability:  observability,
	}, nil
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

const (
	// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
	shutdownWaitTimeout = 15 * time.Second
)

// serviceStartupDeps groups dependencies for service startup.
type serviceStartupDeps struct {
	ctx             context.Context
	cfg             *ServiceOrchestrationConfig
	logger          *slog.Logger
	enabledServices map[config.ServiceMode]bool
	errCh           chan error
}

// backgroundService describes a startable background component.
type backgroundService struct {
	mode  config.ServiceMode
	name  string
	start func(context.Context) error
}

// backgroundServiceHandle tracks a running background service.
type backgroundServiceHandle struct {
	mode config.ServiceMode
	name string
	done <-chan struct{}
}

// startHTTPServerIfEnabled starts the HTTP server if enabled.
func startHTTPServerIfEnabled(deps *serviceStartupDeps) *http.Server {
	if deps == nil || deps.cfg == nil || !deps.enabledServices[config.ServiceModeHTTP] {
		return nil
	}
	return StartHTTPServer(&HTTPServerConfig{
		Config:   deps.cfg.Config,
		Services: deps.cfg.Services,
		Logger:   deps.logger,
	})
}

func launchBackground(ctx context.Context, deps *serviceStartupDeps, descriptor backgroundService) <-chan struct{} {
	if deps == nil || !deps.enabledServices[descriptor.mode] {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := descriptor.start(ctx); err != nil {
			errMsg := fmt.Errorf("%s failed: %w", descriptor.name, err)
			select {
			case deps.errCh <- errMsg:
			case <-ctx.Done():
			default:
				deps.logger.WarnContext(ctx, "dropping background service error",
					"service", descriptor.name,
					"error", errMsg,
				)
			}
		}
	}()

	deps.logger.InfoContext(ctx, "background service started", "service", descriptor.name, "mode", descriptor.mode)

	return done
}

func startBackgroundServices(deps *serviceStartupDeps, services []backgroundService) []backgroundServiceHandle {
	if deps == nil {
		return nil
	}
	handles := make([]backgroundServiceHandle, 0, len(services))

	for _, svc := range services {
		done := launchBackground(deps.ctx, deps, svc)
		if done == nil {
			continue
		}

		handles = append(handles, backgroundServiceHandle{
			mode: svc.mode,
			name: svc.name,
			done: done,
		})
	}

	return handles
}

func newSessionWatcherBackgroundService(deps *serviceStartupDeps) backgroundService {
	return backgroundService{
		mode: config.ServiceModeSessionWatcher,
		name: "session watcher",
		start: func(ctx context.Context) error {
			if deps == nil || deps.cfg.Services.Watcher == nil {
				return nil
			}
			return deps.cfg.Services.Watcher.Run(ctx)
		},
	}
}

func buildBackgroundServices(deps *serviceStartupDeps) []backgroundService {
	if deps == nil {
		return nil
	}
	return []backgroundService{
		newSessionWatcherBackgroundService(deps),
	}
}

// ServiceStartupResult holds the results of starting all services.
type ServiceStartupResult struct {
	HTTPServer *http.Server
	Background []backgroundServiceHandle
}

// startServices starts all enabled services and returns their completion channels.
func startServices(deps *serviceStartupDeps) ServiceStartupResult {
	return ServiceStartupResult{
		HTTPServer: startHTTPServerIfEnabled(deps),
		Background: startBackgroundServices(deps, buildBackgroundServices(deps)),
	}
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// This function blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	ctx := context.Background()
	serviceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}

	// Determine which services are enabled
	enabledServices, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}
	errCh := make(chan error, errorChannelBufferSize(enabledServices))

	// Start all enabled services
	result := startServices(&serviceStartupDeps{
		ctx:             serviceCtx,
		cfg:             cfg,
		logger:          logger,
		enabledServices: enabledServices,
		errCh:           errCh,
	})

	// Wait for shutdown signal or error
	return waitForShutdown(shutdownConfig{
		cancel:      cancel,
		errCh:       errCh,
		httpServer:  result.HTTPServer,
		logger:      logger,
		backgrounds: result.Background,
	})
}

func errorChannelCapacity(enabled map[config.ServiceMode]bool) int {
	count := 0
	for _, mode := range config.ValidServiceModes() {
		if enabled[mode] {
			count++
		}
	}
	return count
}

func errorChannelBufferSize(enabled map[config.ServiceMode]bool) int {
	size := errorChannelCapacity(enabled) + 1
	if size < 1 {
		return 1
	}
	return size
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	cancel      context.CancelFunc
	errCh       <-chan error
	httpServer  *http.Server
	logger      *slog.Logger
	backgrounds []backgroundServiceHandle
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(cfg shutdownConfig) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		cfg.logger.Info("shutting down services...")
		cfg.cancel() // Cancel service context before waiting
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		cfg.cancel() // Cancel service context before waiting
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop attempts to gracefully stop all services.
func gracefulStop(cfg shutdownConfig) error {
	// Gracefully stop HTTP server if running
	if cfg.httpServer != nil {
		// The service context is already canceled here; the shutdown
		// deadline needs its own context.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWaitTimeout)
		defer cancel()

		if err := ShutdownHTTPServer(ShutdownConfig{
			Context: shutdownCtx,
			Server:  cfg.httpServer,
			Logger:  cfg.logger,
		}); err != nil {
			return err
		}
	}

	// Wait for background services to finish
	for _, svc := range cfg.backgrounds {
		waitForService(svc.done, svc.name, cfg.logger)
	}

	return nil
}

// waitForService waits for a service to finish with timeout.
func waitForService(done <-chan struct{}, name string, logger *slog.Logger) {
	if done == nil {
		return
	}
	select {
	case <-done:
		logger.Info(name + " stopped")
	case <-time.After(shutdownWaitTimeout):
		logger.Warn("timeout waiting for " + name + " to stop")
	}
}
