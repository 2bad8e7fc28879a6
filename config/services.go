package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP API server.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeSessionWatcher runs the session event watcher that owns
	// the per-session auth snapshots.
	ServiceModeSessionWatcher ServiceMode = "session-watcher"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{ServiceModeHTTP, ServiceModeSessionWatcher}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	for _, part := range strings.Split(servicesStr, ",") {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeSessionWatcher:
			services[mode] = true
		default:
			return nil, fmt.Errorf(
				"invalid service name: %q (valid options: http, session-watcher)",
				serviceName,
			)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}

// WebhookDispatchConfig contains application webhook delivery configuration.
type WebhookDispatchConfig struct {
	// DeliveryTimeout bounds a single endpoint POST.
	DeliveryTimeout time.Duration `env:"WEBHOOK_DELIVERY_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to webhook dispatch configuration values.
func (w *WebhookDispatchConfig) Sanitize() {
	if w.DeliveryTimeout < time.Second {
		w.DeliveryTimeout = 10 * time.Second
	}
}

// ServicesConfig groups all service-related configuration.
type ServicesConfig struct {
	// Services is a comma-delimited list of enabled services.
	// Valid values: http, session-watcher
	Services string `env:"SERVICES" envDefault:"http,session-watcher"`

	// Webhooks configuration.
	Webhooks WebhookDispatchConfig
}

// GetEnabledServices returns the enabled services based on the Services field.
func (s *ServicesConfig) GetEnabledServices() (map[ServiceMode]bool, error) {
	return ParseServices(s.Services)
}

// IsHTTPServerEnabled returns true if the HTTP server service is enabled.
func (s *ServicesConfig) IsHTTPServerEnabled() bool {
	services, err := s.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeHTTP]
}

// IsSessionWatcherEnabled returns true if the session watcher service is enabled.
func (s *ServicesConfig) IsSessionWatcherEnabled() bool {
	services, err := s.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeSessionWatcher]
}

// Sanitize applies guardrails to services configuration values.
func (s *ServicesConfig) Sanitize() {
	s.Webhooks.Sanitize()
}
