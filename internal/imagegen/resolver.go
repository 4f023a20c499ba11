package imagegen

import (
	"errors"

	"lenslab/internal/domain"
)

var (
	// ErrNoAPIKey means the resolved configuration has no API key. Surfaced
	// as unauthorized.
	ErrNoAPIKey = errors.New("no API key configured")

	// ErrUserConfigRequired means a standard user has not stored upstream
	// credentials yet. Surfaced as forbidden; generation is hard-gated on a
	// one-time configuration step.
	ErrUserConfigRequired = errors.New("user API configuration required")
)

// UserLookup is the slice of the user store the resolver needs.
type UserLookup interface {
	FindByID(id string) (domain.User, error)
}

// Resolver decides which upstream endpoint and key a principal uses: the
// operator-wide configuration for admins, the per-user stored configuration
// for everyone else. The operator config is injected at construction so tests
// can substitute it.
type Resolver struct {
	operator UpstreamConfig
	users    UserLookup
}

// NewResolver builds a Resolver around the operator config and user store.
func NewResolver(operator UpstreamConfig, users UserLookup) *Resolver {
	return &Resolver{operator: operator, users: users}
}

// Resolve returns the upstream configuration for the principal. Read-only.
func (r *Resolver) Resolve(p domain.Principal) (UpstreamConfig, error) {
	if p.Admin {
		if r.operator.APIKey == "" {
			return UpstreamConfig{}, ErrNoAPIKey
		}
		return r.operator, nil
	}

	user, err := r.users.FindByID(p.UserID)
	if err != nil || !user.HasAPIConfig() {
		return UpstreamConfig{}, ErrUserConfigRequired
	}
	return UpstreamConfig{BaseURL: user.APIBaseURL, APIKey: user.APIKey}, nil
}
