package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/talentexcel/talentexcel-api/config"
	"github.com/talentexcel/talentexcel-api/internal/adapters/devauth"
	"github.com/talentexcel/talentexcel-api/internal/adapters/localauth"
	"github.com/talentexcel/talentexcel-api/internal/adapters/oidc"
	redisadapter "github.com/talentexcel/talentexcel-api/internal/adapters/redis"
	"github.com/talentexcel/talentexcel-api/internal/core"
	"github.com/talentexcel/talentexcel-api/internal/ports"
	"github.com/talentexcel/talentexcel-api/internal/service"
)

// AuthStackDeps groups dependencies for the auth stack.
type AuthStackDeps struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	Profiles    core.ProfileRepository
	Credentials core.CredentialRepository
	Colleges    service.DomainVerifier
	Logger      *slog.Logger
}

// AuthStack bundles the auth service with the session watcher that
// consumes the same identity provider's event stream.
type AuthStack struct {
	Service *service.AuthService
	Watcher *service.SessionWatcher
}

// BuildAuthStack wires the identity provider, session stores, and the
// optional SSO provider selected by the configured auth mode.
func BuildAuthStack(deps AuthStackDeps) (*AuthStack, error) {
	if deps.RedisClient == nil {
		return nil, errors.New("redis client is required for session storage")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sessionStore := redisadapter.NewSessionStoreWithPrefix(deps.RedisClient, "session:")
	otpStore := redisadapter.NewOTPStore(deps.RedisClient)
	pendingStore := redisadapter.NewPendingStore(deps.RedisClient)

	provider, err := localauth.NewProvider(localauth.Config{
		Profiles:    deps.Profiles,
		Credentials: deps.Credentials,
		Sessions:    sessionStore,
		Codes:       otpStore,
		Pending:     pendingStore,
		Sender:      localauth.NewLogSender(logger),
		OTPTTL:      deps.Auth.OTPTTL,
		SessionTTL:  deps.Auth.SessionTTL,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create identity provider: %w", err)
	}

	sso, err := buildSSOProvider(deps.Auth, logger)
	if err != nil {
		return nil, err
	}

	authSvc, err := service.NewAuthService(service.AuthServiceOptions{
		Provider:  provider,
		SSO:       sso,
		Sessions:  sessionStore,
		Colleges:  deps.Colleges,
		OpTimeout: deps.Auth.OpTimeout,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create auth service: %w", err)
	}

	watcher, err := service.NewSessionWatcher(service.SessionWatcherOptions{
		Provider: provider,
		Profiles: service.NewProfileRoles(deps.Profiles),
		Sessions: sessionStore,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create session watcher: %w", err)
	}

	return &AuthStack{Service: authSvc, Watcher: watcher}, nil
}

// buildSSOProvider returns the SSO provider for the configured mode.
// Local mode runs without one; sign-in is password only.
//
//nolint:ireturn // the caller only needs the port, not a concrete provider.
func buildSSOProvider(cfg config.AuthConfig, logger *slog.Logger) (ports.SSOProvider, error) {
	switch cfg.Mode {
	case config.AuthModeLocal:
		return nil, nil

	case config.AuthModeMock:
		prov, err := devauth.NewProvider(devauth.Config{
			UserID:   cfg.DevAuth.UserID,
			Email:    cfg.DevAuth.Email,
			FullName: cfg.DevAuth.FullName,
		})
		if err != nil {
			return nil, fmt.Errorf("create dev SSO provider: %w", err)
		}
		logger.Warn("mock SSO provider enabled", "user_id", cfg.DevAuth.UserID)
		return prov, nil

	case config.AuthModeOIDC:
		sso := cfg.SSO
		if sso.DiscoveryURL == "" || sso.ClientID == "" || sso.ClientSecret == "" {
			return nil, errors.New(
				"AUTH_MODE=oidc requires SSO_DISCOVERY_URL, SSO_CLIENT_ID, and SSO_CLIENT_SECRET",
			)
		}
		prov, err := oidc.NewProvider(oidc.ProviderConfig{
			ClientID:     sso.ClientID,
			ClientSecret: sso.ClientSecret,
			RedirectURL:  sso.RedirectURL,
			Scope:        sso.Scope,
			DiscoveryURL: sso.DiscoveryURL,
		})
		if err != nil {
			return nil, fmt.Errorf("create OIDC provider: %w", err)
		}
		return prov, nil

	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Mode)
	}
}
