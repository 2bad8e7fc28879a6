package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DomainMatchKind selects how a college domain entry matches candidate
// email domains.
type DomainMatchKind string

const (
	// DomainMatchExact matches the email domain verbatim.
	DomainMatchExact DomainMatchKind = "exact"
	// DomainMatchRegistrable matches any subdomain sharing the entry's
	// registrable (eTLD+1) domain.
	DomainMatchRegistrable DomainMatchKind = "registrable"
)

// Valid reports whether k is a recognized match kind.
func (k DomainMatchKind) Valid() bool {
	return k == DomainMatchExact || k == DomainMatchRegistrable
}

// CollegeDomain is an allowlist entry tying an email domain to a college.
// Student and TPO registrations with matching addresses are attributed to
// the college automatically.
type CollegeDomain struct {
	ID          string          `json:"id"           db:"id"`
	Domain      string          `json:"domain"       db:"domain"`
	CollegeName string          `json:"college_name" db:"college_name"`
	MatchKind   DomainMatchKind `json:"match_kind"   db:"match_kind"`
	CreatedAt   time.Time       `json:"created_at"   db:"created_at"`
}

// CreateCollegeDomainRequest represents parameters to add an allowlist entry.
type CreateCollegeDomainRequest struct {
	Domain      string          `json:"domain"`
	CollegeName string          `json:"college_name"`
	MatchKind   DomainMatchKind `json:"match_kind"`
}

// Normalize lowercases the domain and trims fields in place. An empty
// match kind defaults to exact.
func (r *CreateCollegeDomainRequest) Normalize() {
	r.Domain = strings.TrimSpace(strings.ToLower(r.Domain))
	r.Domain = strings.TrimPrefix(r.Domain, "@")
	r.CollegeName = strings.TrimSpace(r.CollegeName)
	if r.MatchKind == "" {
		r.MatchKind = DomainMatchExact
	}
}

// Validate validates the CreateCollegeDomainRequest fields.
func (r *CreateCollegeDomainRequest) Validate() error {
	if r.Domain == "" {
		return errors.New("domain is required")
	}
	if strings.ContainsAny(r.Domain, " @/") || !strings.Contains(r.Domain, ".") {
		return fmt.Errorf("domain %q is not a valid hostname", r.Domain)
	}
	if r.CollegeName == "" {
		return errors.New("college_name is required")
	}
	if !r.MatchKind.Valid() {
		return fmt.Errorf("match_kind %q is not recognized", r.MatchKind)
	}
	return nil
}
