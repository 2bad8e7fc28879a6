package httpx

import (
	"context"
	"log/slog"
	"net/http"

	domainauth "github.com/talentexcel/talentexcel-api/internal/domain/auth"
	"github.com/talentexcel/talentexcel-api/internal/observability/statsd"
	"github.com/talentexcel/talentexcel-api/internal/service"
)

// AuthState is the read side of the session watcher: per-session
// snapshots plus readiness of the initial sync.
type AuthState interface {
	Snapshot(ctx context.Context, sessionID string) domainauth.Snapshot
	Ready() bool
}

// RouterServices groups the services the router wires handlers to.
type RouterServices struct {
	Auth           AuthAPI
	Watcher        AuthState // Optional: status endpoint degrades without it
	Jobs           *service.JobService
	Applications   *service.ApplicationService
	Webhooks       *service.WebhookService
	Onboarding     *service.OnboardingService
	Profiles       *service.ProfileService
	Dashboard      *service.DashboardService
	Contact        *service.ContactService
	CollegeDomains *service.CollegeDomainService
}

// RouterConfig carries router-level settings.
type RouterConfig struct {
	Services     RouterServices
	CookieDomain string
	// EnableCSRF turns on double-submit CSRF validation for
	// state-changing requests. Off by default for API-only deployments
	// fronted by token auth.
	EnableCSRF bool
	// EnableCompression turns on gzip response compression.
	EnableCompression bool
	Logger            *slog.Logger
	Metrics           statsd.Sink // Optional: request metrics emission
}

// NewRouter builds the HTTP routing table. Route patterns use the
// method-prefixed mux syntax; role gates match exactly, with no
// hierarchy between roles.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	svcs := cfg.Services

	mux.HandleFunc("GET /health", healthHandler)
	mux.HandleFunc("HEAD /health", healthHandler)

	registerAuthRoutes(mux, svcs, cfg.CookieDomain, cfg.Logger)
	registerJobRoutes(mux, svcs)
	registerApplicationRoutes(mux, svcs)
	registerOnboardingRoutes(mux, svcs)
	registerProfileRoutes(mux, svcs)
	registerAdminRoutes(mux, svcs)
	registerBrowserRoutes(mux, svcs)
	registerPublicRoutes(mux, svcs)

	var handler http.Handler = mux
	if cfg.EnableCSRF {
		handler = CSRFProtection(CSRFConfig{CookieDomain: cfg.CookieDomain})(handler)
	}
	if cfg.EnableCompression {
		handler = Compression()(handler)
	}
	if cfg.Metrics != nil {
		handler = RequestMetrics(cfg.Metrics)(handler)
	}
	handler = Logging(cfg.Logger)(handler)
	handler = Recover(cfg.Logger)(handler)
	return handler
}

// guard chains the watcher readiness gate in front of an auth middleware.
// While the initial session sync is in flight, protected traffic gets a
// retryable response instead of a spurious denial.
func guard(svcs RouterServices, mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	if svcs.Watcher == nil {
		return mw
	}
	ready := RequireReady(svcs.Watcher)
	return func(next http.Handler) http.Handler {
		return ready(mw(next))
	}
}

func registerAuthRoutes(mux *http.ServeMux, svcs RouterServices, cookieDomain string, logger *slog.Logger) {
	h := &AuthHandlers{Svc: svcs.Auth, Watcher: svcs.Watcher, CookieDomain: cookieDomain, Logger: logger}

	mux.HandleFunc("POST /auth/signup", h.SignUp)
	mux.HandleFunc("POST /auth/verify-otp", h.VerifyOTP)
	mux.HandleFunc("POST /auth/resend-otp", h.ResendOTP)
	mux.HandleFunc("POST /auth/login", h.SignIn)
	mux.HandleFunc("POST /auth/logout", h.SignOut)
	mux.HandleFunc("GET /auth/status", h.Status)
	mux.Handle("GET /auth/nav", OptionalAuth(svcs.Auth)(http.HandlerFunc(h.Nav)))
	mux.HandleFunc("GET /auth/sso/login", h.BeginSSO)
	mux.HandleFunc("GET /auth/sso/callback", h.SSOCallback)
}

func registerJobRoutes(mux *http.ServeMux, svcs RouterServices) {
	h := &JobHandlers{Svc: svcs.Jobs}
	employer := guard(svcs, RequireRole(svcs.Auth, domainauth.RoleEmployer))

	mux.HandleFunc("GET /api/jobs", h.Search)
	mux.Handle("GET /api/jobs/{id}", OptionalAuth(svcs.Auth)(http.HandlerFunc(h.Get)))

	mux.Handle("POST /api/jobs", employer(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/employer/jobs", employer(http.HandlerFunc(h.ListMine)))
	mux.Handle("PUT /api/jobs/{id}", employer(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/jobs/{id}", employer(http.HandlerFunc(h.Delete)))
	mux.Handle("POST /api/jobs/{id}/publish", employer(http.HandlerFunc(h.Publish)))
	mux.Handle("POST /api/jobs/{id}/close", employer(http.HandlerFunc(h.Close)))
}

func registerApplicationRoutes(mux *http.ServeMux, svcs RouterServices) {
	h := &ApplicationHandlers{Svc: svcs.Applications}
	student := guard(svcs, RequireRole(svcs.Auth, domainauth.RoleStudent))
	employer := guard(svcs, RequireRole(svcs.Auth, domainauth.RoleEmployer))

	mux.Handle("POST /api/applications", student(http.HandlerFunc(h.Apply)))
	mux.Handle("GET /api/applications", student(http.HandlerFunc(h.ListMine)))
	mux.Handle("DELETE /api/applications/{id}", student(http.HandlerFunc(h.Withdraw)))

	mux.Handle("GET /api/employer/applications", employer(http.HandlerFunc(h.ListReceived)))
	mux.Handle("GET /api/jobs/{id}/applications", employer(http.HandlerFunc(h.ListForJob)))
	mux.Handle("PUT /api/applications/{id}/status", employer(http.HandlerFunc(h.UpdateStatus)))

	mux.Handle("POST /api/saved-jobs/{jobID}", student(http.HandlerFunc(h.SaveJob)))
	mux.Handle("DELETE /api/saved-jobs/{jobID}", student(http.HandlerFunc(h.UnsaveJob)))
	mux.Handle("GET /api/saved-jobs", student(http.HandlerFunc(h.ListSaved)))

	registerCRUD(mux, crudRoutes{
		Base:       "/api/employer/webhooks",
		Create:     (&WebhookHandlers{Svc: svcs.Webhooks}).Create,
		List:       (&WebhookHandlers{Svc: svcs.Webhooks}).List,
		GetByID:    (&WebhookHandlers{Svc: svcs.Webhooks}).Get,
		Update:     (&WebhookHandlers{Svc: svcs.Webhooks}).Update,
		Delete:     (&WebhookHandlers{Svc: svcs.Webhooks}).Delete,
		Middleware: employer,
	})
}

func registerOnboardingRoutes(mux *http.ServeMux, svcs RouterServices) {
	h := &OnboardingHandlers{Svc: svcs.Onboarding}
	authed := guard(svcs, RequireAuth(svcs.Auth))

	mux.Handle("PUT /api/onboarding/interests", authed(http.HandlerFunc(h.SaveInterests)))
	mux.Handle("GET /api/onboarding/interests", authed(http.HandlerFunc(h.GetInterests)))
	mux.Handle("POST /api/onboarding/achievements", authed(http.HandlerFunc(h.AddAchievement)))
	mux.Handle("GET /api/onboarding/achievements", authed(http.HandlerFunc(h.ListAchievements)))
	mux.Handle("DELETE /api/onboarding/achievements/{id}", authed(http.HandlerFunc(h.DeleteAchievement)))
	mux.Handle("POST /api/onboarding/complete", authed(http.HandlerFunc(h.Complete)))
}

func registerProfileRoutes(mux *http.ServeMux, svcs RouterServices) {
	h := &ProfileHandlers{Svc: svcs.Profiles}
	d := &DashboardHandlers{Svc: svcs.Dashboard}
	authed := guard(svcs, RequireAuth(svcs.Auth))

	mux.Handle("GET /api/profile/me", authed(http.HandlerFunc(h.Me)))
	mux.Handle("PUT /api/profile/me", authed(http.HandlerFunc(h.UpdateMe)))
	mux.Handle("GET /api/dashboard/stats", authed(http.HandlerFunc(d.Stats)))
}

func registerAdminRoutes(mux *http.ServeMux, svcs RouterServices) {
	admin := guard(svcs, RequireRole(svcs.Auth, domainauth.RoleAdmin))
	profiles := &ProfileHandlers{Svc: svcs.Profiles}
	contact := &ContactHandlers{Svc: svcs.Contact}

	mux.Handle("GET /api/admin/profiles", admin(http.HandlerFunc(profiles.List)))
	mux.Handle("GET /api/admin/profiles/{id}", admin(http.HandlerFunc(profiles.Get)))
	mux.Handle("DELETE /api/admin/profiles/{id}", admin(http.HandlerFunc(profiles.Delete)))

	mux.Handle("GET /api/admin/contact-messages", admin(http.HandlerFunc(contact.List)))
	mux.Handle("DELETE /api/admin/contact-messages/{id}", admin(http.HandlerFunc(contact.Delete)))

	registerCRUD(mux, crudRoutes{
		Base:       "/api/admin/college-domains",
		Create:     (&CollegeDomainHandlers{Svc: svcs.CollegeDomains}).Create,
		List:       (&CollegeDomainHandlers{Svc: svcs.CollegeDomains}).List,
		GetByID:    (&CollegeDomainHandlers{Svc: svcs.CollegeDomains}).Get,
		Delete:     (&CollegeDomainHandlers{Svc: svcs.CollegeDomains}).Delete,
		Middleware: admin,
	})
}

// registerBrowserRoutes wires the navigation targets the frontend links
// to directly. Unlike the API routes these redirect instead of writing
// JSON errors: anonymous visitors go to login, a signed-in user on the
// wrong dashboard goes to their own.
func registerBrowserRoutes(mux *http.ServeMux, svcs RouterServices) {
	d := &DashboardHandlers{Svc: svcs.Dashboard}

	entry := guard(svcs, RequireAuthBrowser(svcs.Auth))
	mux.Handle("GET /dashboard", entry(http.HandlerFunc(dashboardEntry)))

	for _, role := range domainauth.Roles() {
		gate := guard(svcs, RequireRoleBrowser(svcs.Auth, role))
		mux.Handle("GET "+domainauth.DashboardPath(role), gate(http.HandlerFunc(d.Stats)))
	}
}

// dashboardEntry forwards a signed-in user to their role's dashboard.
func dashboardEntry(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	if sess == nil {
		redirectToLogin(w, r)
		return
	}
	http.Redirect(w, r, domainauth.DashboardPath(sess.Role), http.StatusSeeOther)
}

func registerPublicRoutes(mux *http.ServeMux, svcs RouterServices) {
	contact := &ContactHandlers{Svc: svcs.Contact}
	domains := &CollegeDomainHandlers{Svc: svcs.CollegeDomains}

	mux.HandleFunc("POST /api/contact", contact.Submit)
	mux.HandleFunc("GET /api/college-domains/verify", domains.Verify)
}

// crudRoutes describes a resource's handlers for registerCRUD. Nil
// handlers are skipped.
type crudRoutes struct {
	Base       string
	Create     http.HandlerFunc
	List       http.HandlerFunc
	GetByID    http.HandlerFunc
	Update     http.HandlerFunc
	Delete     http.HandlerFunc
	Middleware func(http.Handler) http.Handler
}

// registerCRUD wires the conventional method/path pairs for a resource
// rooted at Base, all behind the same middleware.
func registerCRUD(mux *http.ServeMux, routes crudRoutes) {
	wrap := routes.Middleware
	if wrap == nil {
		wrap = func(next http.Handler) http.Handler { return next }
	}
	handle := func(pattern string, fn http.HandlerFunc) {
		if fn == nil {
			return
		}
		mux.Handle(pattern, wrap(fn))
	}
	handle("POST "+routes.Base, routes.Create)
	handle("GET "+routes.Base, routes.List)
	handle("GET "+routes.Base+"/{id}", routes.GetByID)
	handle("PUT "+routes.Base+"/{id}", routes.Update)
	handle("DELETE "+routes.Base+"/{id}", routes.Delete)
}
