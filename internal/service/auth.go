package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainauth "github.com/talentexcel/talentexcel-api/internal/domain/auth"
	apperrors "github.com/talentexcel/talentexcel-api/internal/errors"
	"github.com/talentexcel/talentexcel-api/internal/ports"
)

// Post-operation destinations returned to the client.
const (
	nextVerifyOTP  = "/auth/verify-otp"
	nextOnboarding = "/onboarding"
	nextHome       = "/"
)

const defaultOpTimeout = 10 * time.Second

var errSessionExpired = apperrors.Unauthorized("session expired")

// DomainVerifier checks a registration address against the recognized
// college domains.
type DomainVerifier interface {
	VerifyEmailDomain(ctx context.Context, email string) (bool, error)
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.IdentityProvider
	SSO      ports.SSOProvider // Optional: federated sign-in
	Sessions ports.SessionStore
	Colleges DomainVerifier // Optional: student/tpo email domain check

	// OpTimeout bounds each outbound call; default 10s.
	OpTimeout time.Duration
	Logger    *slog.Logger
}

// AuthService orchestrates registration, sign-in, and session lookup on
// top of the identity provider. Every operation runs under a deadline
// and reports timeouts as retryable errors.
type AuthService struct {
	provider  ports.IdentityProvider
	sso       ports.SSOProvider
	sessions  ports.SessionStore
	colleges  DomainVerifier
	opTimeout time.Duration
	logger    *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) (*AuthService, error) {
	if opts.Provider == nil {
		return nil, errors.New("identity provider is required")
	}
	if opts.Sessions == nil {
		return nil, errors.New("session store is required")
	}
	timeout := opts.OpTimeout
	if timeout <= 0 {
		timeout = defaultOpTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		provider:  opts.Provider,
		sso:       opts.SSO,
		sessions:  opts.Sessions,
		colleges:  opts.Colleges,
		opTimeout: timeout,
		logger:    logger.With("component", "auth_service"),
	}, nil
}

// SignUpResult directs the client to the code-entry step.
type SignUpResult struct {
	Email string `json:"email"`
	Next  string `json:"next"`
}

// SignUp starts a registration. Student and TPO addresses must belong to
// a recognized college domain when a verifier is configured.
func (s *AuthService) SignUp(ctx context.Context, in ports.SignUpInput) (*SignUpResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	if s.colleges != nil && (in.Role == domainauth.RoleStudent || in.Role == domainauth.RoleTPO) {
		ok, err := s.colleges.VerifyEmailDomain(ctx, in.Email)
		if err != nil {
			return nil, s.mapTimeout(err, "verify email domain")
		}
		if !ok {
			return nil, apperrors.ValidationField("email", "email domain is not a recognized college")
		}
	}

	if err := s.provider.SignUp(ctx, in); err != nil {
		return nil, s.mapTimeout(err, "sign up")
	}
	return &SignUpResult{Email: in.Email, Next: nextVerifyOTP}, nil
}

// SessionResult carries an established session and where to go next.
type SessionResult struct {
	Session domainauth.Session
	Next    string
}

// VerifyOTP completes a registration. The destination is always the
// onboarding flow for a brand-new account.
func (s *AuthService) VerifyOTP(ctx context.Context, in ports.VerifyOTPInput) (*SessionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	sess, err := s.provider.VerifyOTP(ctx, in)
	if err != nil {
		return nil, s.mapTimeout(err, "verify otp")
	}
	return &SessionResult{Session: sess, Next: nextOnboarding}, nil
}

// ResendOTP re-requests code delivery for a pending registration.
func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	if err := s.provider.ResendOTP(ctx, email); err != nil {
		return s.mapTimeout(err, "resend otp")
	}
	return nil
}

// SignIn authenticates with email and password. The destination is the
// role dashboard, or the base dashboard when the role is unresolved.
func (s *AuthService) SignIn(ctx context.Context, in ports.PasswordSignInInput) (*SessionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	sess, err := s.provider.PasswordSignIn(ctx, in)
	if err != nil {
		return nil, s.mapTimeout(err, "sign in")
	}
	return &SessionResult{Session: sess, Next: domainauth.DashboardPath(sess.Role)}, nil
}

// SignOutResult directs the client home after sign-out.
type SignOutResult struct {
	Next string `json:"next"`
}

// SignOut ends the session.
func (s *AuthService) SignOut(ctx context.Context, sessionID string) (*SignOutResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	if sessionID == "" {
		return &SignOutResult{Next: nextHome}, nil
	}
	if err := s.provider.SignOut(ctx, sessionID); err != nil {
		return nil, s.mapTimeout(err, "sign out")
	}
	return &SignOutResult{Next: nextHome}, nil
}

// GetSession retrieves a live session by id, evicting it when expired.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	if sessionID == "" {
		return nil, apperrors.Unauthorized("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, s.mapTimeout(err, "get session")
	}
	if time.Now().After(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, fmt.Errorf("delete expired session: %w", deleteErr)
		}
		return nil, errSessionExpired
	}
	return &session, nil
}

// BeginSSOLoginResult contains the redirect needed to start an SSO flow.
type BeginSSOLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginSSOLogin initiates a federated sign-in flow.
func (s *AuthService) BeginSSOLogin(ctx context.Context, redirectURL string) (*BeginSSOLoginResult, error) {
	if s.sso == nil {
		return nil, apperrors.NotFound("sso sign-in is not configured")
	}
	if redirectURL == "" {
		return nil, apperrors.ValidationField("redirect_url", "redirect URL is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	authURL, state, nonce, err := s.sso.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, s.mapTimeout(err, "begin sso flow")
	}
	return &BeginSSOLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteSSOLogin exchanges the callback code and signs the matched
// local account in. SSO never registers accounts.
func (s *AuthService) CompleteSSOLogin(ctx context.Context, in ports.ExchangeInput) (*SessionResult, error) {
	if s.sso == nil {
		return nil, apperrors.NotFound("sso sign-in is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	identity, err := s.sso.Exchange(ctx, in)
	if err != nil {
		return nil, s.mapTimeout(err, "exchange sso code")
	}
	sess, err := s.provider.EstablishSession(ctx, identity)
	if err != nil {
		return nil, s.mapTimeout(err, "establish sso session")
	}
	return &SessionResult{Session: sess, Next: domainauth.DashboardPath(sess.Role)}, nil
}

// mapTimeout converts deadline errors into the retryable timeout code
// and passes everything else through.
func (s *AuthService) mapTimeout(err error, op string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrapf(err, apperrors.ErrCodeTimeout, "%s timed out", op)
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
