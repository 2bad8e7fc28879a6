package model

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jmespath-community/go-jmespath"
)

// ApplicationWebhook notifies an external endpoint when applications to an
// employer's listings change state. Filter is an optional JMESPath
// expression evaluated against the event payload; a falsy result skips
// delivery.
type ApplicationWebhook struct {
	ID         string    `json:"id"          db:"id"`
	EmployerID string    `json:"employer_id" db:"employer_id"`
	URL        string    `json:"url"         db:"url"`
	Filter     string    `json:"filter"      db:"filter"`
	Enabled    bool      `json:"enabled"     db:"enabled"`
	CreatedAt  time.Time `json:"created_at"  db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"  db:"updated_at"`
}

// CreateWebhookRequest represents parameters to register a webhook.
type CreateWebhookRequest struct {
	URL     string `json:"url"`
	Filter  string `json:"filter"`
	Enabled *bool  `json:"enabled,omitempty"`
}

// Normalize trims fields in place.
func (r *CreateWebhookRequest) Normalize() {
	r.URL = strings.TrimSpace(r.URL)
	r.Filter = strings.TrimSpace(r.Filter)
}

// Validate validates the CreateWebhookRequest fields, compiling the filter
// expression to catch syntax errors at registration time.
func (r *CreateWebhookRequest) Validate() error {
	if r.URL == "" {
		return errors.New("url is required")
	}
	u, err := url.Parse(r.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("url %q must be an absolute http(s) URL", r.URL)
	}
	if r.Filter != "" {
		if _, err := jmespath.Compile(r.Filter); err != nil {
			return fmt.Errorf("filter is not a valid expression: %w", err)
		}
	}
	return nil
}

// UpdateWebhookRequest represents a partial update to a webhook.
type UpdateWebhookRequest struct {
	URL     *string `json:"url,omitempty"`
	Filter  *string `json:"filter,omitempty"`
	Enabled *bool   `json:"enabled,omitempty"`
}

// Normalize trims any provided fields in place.
func (r *UpdateWebhookRequest) Normalize() {
	if r.URL != nil {
		*r.URL = strings.TrimSpace(*r.URL)
	}
	if r.Filter != nil {
		*r.Filter = strings.TrimSpace(*r.Filter)
	}
}

// Validate validates the provided UpdateWebhookRequest fields.
func (r *UpdateWebhookRequest) Validate() error {
	if r.URL != nil {
		u, err := url.Parse(*r.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("url %q must be an absolute http(s) URL", *r.URL)
		}
	}
	if r.Filter != nil && *r.Filter != "" {
		if _, err := jmespath.Compile(*r.Filter); err != nil {
			return fmt.Errorf("filter is not a valid expression: %w", err)
		}
	}
	return nil
}
