package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeLocal uses email/password accounts with OTP-verified signup.
	AuthModeLocal AuthMode = "local"
	// AuthModeOIDC adds OIDC single sign-on for existing accounts.
	AuthModeOIDC AuthMode = "oidc"
	// AuthModeMock uses a fixed dev identity (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "local", "oidc", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: local, oidc, mock)", v)
	}
}

// SSOConfig contains OIDC single sign-on configuration.
// Used when AUTH_MODE=oidc.
type SSOConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"talentexcel"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/sso/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
}

// DevAuthConfig controls the mock sign-in identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID   string `env:"USER_ID"   envDefault:"dev-user"`
	Email    string `env:"EMAIL"     envDefault:"dev@example.edu"`
	FullName string `env:"FULL_NAME" envDefault:"Dev User"`
	Role     string `env:"ROLE"      envDefault:"admin"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which sign-in surfaces are available.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"local"`

	// SSO configuration (used when Mode=oidc).
	SSO SSOConfig `envPrefix:"SSO_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// SessionTTL is how long an issued session stays valid.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// OTPTTL is how long an emailed signup code stays valid.
	OTPTTL time.Duration `env:"OTP_TTL" envDefault:"10m"`

	// OpTimeout bounds each auth service operation.
	OpTimeout time.Duration `env:"AUTH_OP_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to authentication configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL < time.Minute {
		a.SessionTTL = 24 * time.Hour
	}
	if a.OTPTTL < time.Minute {
		a.OTPTTL = 10 * time.Minute
	}
	if a.OpTimeout <= 0 {
		a.OpTimeout = 10 * time.Second
	}
}
