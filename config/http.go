package config

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the base URL of the application (e.g., "https://app.example.com").
	// Used for generating absolute URLs in emails and SSO redirects.
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// CSRFEnabled turns on double-submit CSRF validation for
	// state-changing requests.
	CSRFEnabled bool `env:"HTTP_CSRF_ENABLED" envDefault:"false"`

	// CompressionEnabled enables gzip compression for responses.
	CompressionEnabled bool `env:"HTTP_COMPRESSION_ENABLED" envDefault:"true"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.Addr == "" {
		h.Addr = ":8080"
	}
}
