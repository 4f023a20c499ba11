package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"lenslab/internal/domain"
	"lenslab/internal/i18n"
)

type contextKey string

const principalKey contextKey = "principal"

// SessionVerifier turns a request into an authenticated principal.
type SessionVerifier interface {
	FromRequest(r *http.Request) (domain.Principal, error)
}

// Auth resolves the session cookie and injects the principal into the request
// context. Requests without a valid session are rejected with a 401 JSON
// envelope.
func Auth(verifier SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := verifier.FromRequest(r)
			if err != nil {
				locale := LocaleFromContext(r.Context())
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": i18n.T(locale, "signin_required")})
				return
			}
			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey).(domain.Principal)
	return p, ok
}

// ContextWithPrincipal injects a principal, used by tests to bypass the
// cookie round trip.
func ContextWithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}
