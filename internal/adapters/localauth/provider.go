// Package localauth implements the identity provider backed by the
// platform's own profile and credential storage. Registration is a
// two-step flow: sign-up parks a pending registration behind an emailed
// one-time code, and verification creates the account and signs the
// user in.
package localauth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/talentexcel/talentexcel-api/internal/core"
	"github.com/talentexcel/talentexcel-api/internal/data"
	domainauth "github.com/talentexcel/talentexcel-api/internal/domain/auth"
	"github.com/talentexcel/talentexcel-api/internal/domain/model"
	apperrors "github.com/talentexcel/talentexcel-api/internal/errors"
	"github.com/talentexcel/talentexcel-api/internal/ports"
)

const (
	minPasswordLen = 8
	otpDigits      = 6

	defaultOTPTTL     = 10 * time.Minute
	defaultSessionTTL = 24 * time.Hour

	// Sized so bursts of sign-ins never block producers while the
	// session watcher catches up.
	eventBufferSize = 256
)

// Config holds the collaborators and tuning knobs for the provider.
type Config struct {
	Profiles    core.ProfileRepository
	Credentials core.CredentialRepository
	Sessions    ports.SessionStore
	Codes       ports.OTPStore
	Pending     ports.PendingRegistrationStore
	Sender      ports.OTPSender

	OTPTTL     time.Duration
	SessionTTL time.Duration
	BcryptCost int

	Logger *slog.Logger
	Now    func() time.Time
}

// Provider implements ports.IdentityProvider against local storage.
// Every sign-in and sign-out is published, in order, on the event
// stream returned by Subscribe.
type Provider struct {
	profiles    core.ProfileRepository
	credentials core.CredentialRepository
	sessions    ports.SessionStore
	codes       ports.OTPStore
	pending     ports.PendingRegistrationStore
	sender      ports.OTPSender

	otpTTL     time.Duration
	sessionTTL time.Duration
	bcryptCost int

	logger *slog.Logger
	now    func() time.Time

	// pubMu serializes publishes so event order matches the order the
	// session changes happened.
	pubMu  sync.Mutex
	events chan ports.SessionEvent

	subMu      sync.Mutex
	subscribed bool
}

// NewProvider validates cfg and returns a ready Provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.Profiles == nil {
		return nil, errors.New("localauth: profile repository is required")
	}
	if cfg.Credentials == nil {
		return nil, errors.New("localauth: credential repository is required")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("localauth: session store is required")
	}
	if cfg.Codes == nil {
		return nil, errors.New("localauth: otp store is required")
	}
	if cfg.Pending == nil {
		return nil, errors.New("localauth: pending registration store is required")
	}
	if cfg.Sender == nil {
		return nil, errors.New("localauth: otp sender is required")
	}
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = defaultOTPTTL
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("localauth: bcrypt cost %d out of range", cfg.BcryptCost)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Provider{
		profiles:    cfg.Profiles,
		credentials: cfg.Credentials,
		sessions:    cfg.Sessions,
		codes:       cfg.Codes,
		pending:     cfg.Pending,
		sender:      cfg.Sender,
		otpTTL:      cfg.OTPTTL,
		sessionTTL:  cfg.SessionTTL,
		bcryptCost:  cfg.BcryptCost,
		logger:      cfg.Logger,
		now:         cfg.Now,
		events:      make(chan ports.SessionEvent, eventBufferSize),
	}, nil
}

// SignUp validates the input, parks a pending registration, and emails a
// one-time code. No account row exists until the code is verified. A
// repeated sign-up for the same address replaces the pending slot and
// issues a fresh code.
func (p *Provider) SignUp(ctx context.Context, in ports.SignUpInput) error {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return apperrors.ValidationField("email", err.Error())
	}
	if len(in.Password) < minPasswordLen {
		return apperrors.ValidationField("password", fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}
	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		return apperrors.ValidationField("full_name", "full name is required")
	}
	if !in.Role.Valid() {
		return apperrors.ValidationField("role", fmt.Sprintf("unknown role %q", string(in.Role)))
	}

	if _, err := p.profiles.GetByEmail(ctx, email); err == nil {
		return apperrors.Conflict("email already registered")
	} else if !errors.Is(err, data.ErrProfileNotFound) {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "check existing profile")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), p.bcryptCost)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "hash password")
	}

	reg := ports.PendingRegistration{
		UserID:       uuid.NewString(),
		Email:        email,
		FullName:     fullName,
		Role:         in.Role,
		PasswordHash: hash,
	}
	if err := p.pending.Put(ctx, reg); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "store pending registration")
	}

	if err := p.issueCode(ctx, email); err != nil {
		return err
	}
	p.logger.InfoContext(ctx, "registration started",
		slog.String("email", email),
		slog.String("role", string(in.Role)))
	return nil
}

// VerifyOTP completes a pending registration. On success it creates the
// profile and credential rows, starts a session, and publishes a
// signed-in event.
func (p *Provider) VerifyOTP(ctx context.Context, in ports.VerifyOTPInput) (domainauth.Session, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return domainauth.Session{}, apperrors.ValidationField("email", err.Error())
	}
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return domainauth.Session{}, apperrors.ValidationField("code", "code is required")
	}

	stored, err := p.codes.Get(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrOTPNotFound) {
			return domainauth.Session{}, apperrors.Unauthorized("code is invalid or expired")
		}
		return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "load otp code")
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return domainauth.Session{}, apperrors.Unauthorized("code is invalid or expired")
	}

	reg, err := p.pending.Get(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrPendingNotFound) {
			return domainauth.Session{}, apperrors.Unauthorized("code is invalid or expired")
		}
		return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "load pending registration")
	}

	// The credential row references the profile row, so the profile
	// must exist first.
	profile, err := p.profiles.Create(ctx, &model.CreateProfileRequest{
		ID:       reg.UserID,
		Email:    reg.Email,
		Role:     reg.Role,
		FullName: reg.FullName,
	})
	if err != nil {
		if errors.Is(err, data.ErrEmailExists) {
			return domainauth.Session{}, apperrors.Conflict("email already registered")
		}
		return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "create profile")
	}
	if err := p.credentials.Create(ctx, core.CreateCredentialParams{
		UserID: profile.ID,
		Email:  reg.Email,
		Hash:   reg.PasswordHash,
	}); err != nil {
		return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "create credential")
	}

	if err := p.codes.Delete(ctx, email); err != nil {
		p.logger.WarnContext(ctx, "delete otp code", slog.String("error", err.Error()))
	}
	if err := p.pending.Delete(ctx, email); err != nil {
		p.logger.WarnContext(ctx, "delete pending registration", slog.String("error", err.Error()))
	}

	identity := domainauth.Identity{ID: profile.ID, Email: profile.Email, FullName: profile.FullName}
	sess, err := p.startSession(ctx, identity, profile.Role)
	if err != nil {
		return domainauth.Session{}, err
	}
	p.logger.InfoContext(ctx, "registration verified",
		slog.String("user_id", profile.ID),
		slog.String("role", string(profile.Role)))
	return sess, nil
}

// ResendOTP replaces the outstanding code for a pending registration.
func (p *Provider) ResendOTP(ctx context.Context, email string) error {
	addr, err := normalizeEmail(email)
	if err != nil {
		return apperrors.ValidationField("email", err.Error())
	}
	if _, err := p.pending.Get(ctx, addr); err != nil {
		if errors.Is(err, ports.ErrPendingNotFound) {
			return apperrors.NotFound("no pending registration for this address")
		}
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "load pending registration")
	}
	return p.issueCode(ctx, addr)
}

// PasswordSignIn authenticates an existing account, starts a session,
// and publishes a signed-in event. Missing accounts and bad passwords
// produce the same error.
func (p *Provider) PasswordSignIn(ctx context.Context, in ports.PasswordSignInInput) (domainauth.Session, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return domainauth.Session{}, apperrors.ValidationField("email", err.Error())
	}
	if in.Password == "" {
		return domainauth.Session{}, apperrors.ValidationField("password", "password is required")
	}

	userID, hash, err := p.credentials.GetHashByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, data.ErrCredentialNotFound) {
			return domainauth.Session{}, apperrors.Unauthorized("invalid email or password")
		}
		return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "load credential")
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(in.Password)); err != nil {
		return domainauth.Session{}, apperrors.Unauthorized("invalid email or password")
	}

	// A profile load failure does not fail the sign-in. The session is
	// established with an unresolved role; the session watcher re-fetches
	// roles after every sign-in.
	identity := domainauth.Identity{ID: userID, Email: email}
	role := domainauth.RoleUnknown
	if profile, profErr := p.profiles.GetByID(ctx, userID); profErr == nil {
		identity.FullName = profile.FullName
		role = profile.Role
	} else {
		p.logger.WarnContext(ctx, "load profile for sign-in",
			slog.String("user_id", userID),
			slog.String("error", profErr.Error()))
	}

	sess, err := p.startSession(ctx, identity, role)
	if err != nil {
		return domainauth.Session{}, err
	}
	p.logger.InfoContext(ctx, "password sign-in", slog.String("user_id", userID))
	return sess, nil
}

// EstablishSession signs in an identity already authenticated by an
// external provider, matching it to a local account by address.
func (p *Provider) EstablishSession(ctx context.Context, identity domainauth.Identity) (domainauth.Session, error) {
	email, err := normalizeEmail(identity.Email)
	if err != nil {
		return domainauth.Session{}, apperrors.ValidationField("email", err.Error())
	}

	profile, err := p.profiles.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, data.ErrProfileNotFound) {
			return domainauth.Session{}, apperrors.Unauthorized("no account registered for this address")
		}
		return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "load profile")
	}

	local := domainauth.Identity{ID: profile.ID, Email: profile.Email, FullName: profile.FullName}
	sess, err := p.startSession(ctx, local, profile.Role)
	if err != nil {
		return domainauth.Session{}, err
	}
	p.logger.InfoContext(ctx, "sso sign-in", slog.String("user_id", profile.ID))
	return sess, nil
}

// SignOut deletes the session and publishes a signed-out event. Signing
// out an unknown session is a no-op that still publishes, so downstream
// state converges even after a crash between delete and publish.
func (p *Provider) SignOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.ValidationField("session_id", "session id is required")
	}
	if err := p.sessions.Delete(ctx, sessionID); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "delete session")
	}
	p.publish(ports.SessionEvent{
		Kind:      ports.SessionSignedOut,
		SessionID: sessionID,
		At:        p.now().UTC(),
	})
	p.logger.InfoContext(ctx, "signed out", slog.String("session_id", sessionID))
	return nil
}

// Subscribe returns the ordered stream of session events. Only one
// subscriber at a time is supported; the returned channel is closed
// when ctx is done, after which a new subscriber may attach.
func (p *Provider) Subscribe(ctx context.Context) (<-chan ports.SessionEvent, error) {
	p.subMu.Lock()
	defer p.subMu.Unlock()
	if p.subscribed {
		return nil, errors.New("localauth: event stream already has a subscriber")
	}
	p.subscribed = true

	out := make(chan ports.SessionEvent)
	go func() {
		defer close(out)
		defer func() {
			p.subMu.Lock()
			p.subscribed = false
			p.subMu.Unlock()
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-p.events:
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (p *Provider) startSession(ctx context.Context, identity domainauth.Identity, role domainauth.Role) (domainauth.Session, error) {
	sess := domainauth.Session{
		ID:        uuid.NewString(),
		UserID:    identity.ID,
		Email:     identity.Email,
		FullName:  identity.FullName,
		Role:      role,
		ExpiresAt: p.now().Add(p.sessionTTL).UTC(),
	}
	if err := p.sessions.Save(ctx, sess); err != nil {
		return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "save session")
	}
	p.publish(ports.SessionEvent{
		Kind:      ports.SessionSignedIn,
		SessionID: sess.ID,
		Session:   &sess,
		At:        p.now().UTC(),
	})
	return sess, nil
}

// publish hands the event to the subscriber, preserving emission order.
// Without a subscriber the event is dropped instead of buffered, so
// sign-ins and sign-outs never block in deployments that run without a
// session watcher; those rebuild snapshot state from the session store.
func (p *Provider) publish(ev ports.SessionEvent) {
	p.subMu.Lock()
	subscribed := p.subscribed
	p.subMu.Unlock()
	if !subscribed {
		p.logger.Debug("session event dropped, no subscriber",
			slog.String("kind", string(ev.Kind)),
			slog.String("session_id", ev.SessionID))
		return
	}
	p.pubMu.Lock()
	defer p.pubMu.Unlock()
	p.events <- ev
}

func (p *Provider) issueCode(ctx context.Context, email string) error {
	code, err := newOTPCode()
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "generate otp code")
	}
	if err := p.codes.Put(ctx, email, code, p.otpTTL); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "store otp code")
	}
	if err := p.sender.SendOTP(ctx, email, code); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "send otp code")
	}
	return nil
}

func normalizeEmail(email string) (string, error) {
	addr := strings.ToLower(strings.TrimSpace(email))
	if addr == "" {
		return "", errors.New("email is required")
	}
	if _, err := mail.ParseAddress(addr); err != nil {
		return "", errors.New("email is not a valid address")
	}
	return addr, nil
}

func newOTPCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n), nil
}
