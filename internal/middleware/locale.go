package middleware

import (
	"context"
	"net/http"

	"lenslab/internal/i18n"
)

type localeContextKey struct{}

// LocaleKey identifies the negotiated locale in a request context.
var LocaleKey = localeContextKey{}

// Locale negotiates the response language for each request from the X-Locale
// override or the Accept-Language header.
func Locale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale := i18n.Negotiate(r.Header.Get("X-Locale"), r.Header.Get("Accept-Language"))
		ctx := context.WithValue(r.Context(), LocaleKey, locale)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LocaleFromContext returns the negotiated locale, defaulting to English.
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(LocaleKey).(string); ok {
		return v
	}
	return "en"
}
