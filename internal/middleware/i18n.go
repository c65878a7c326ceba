package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"retouchd/internal/i18n"
)

type localeContextKey struct{}

// LocaleKey stores the resolved catalog locale in the request context.
var LocaleKey = localeContextKey{}

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

// I18N resolves the message locale for each request: explicit X-Locale header
// first, then Accept-Language, then a GeoIP country hint, then the configured
// default. The resolved locale is always one the catalog supports.
func I18N(defaultLocale string, lookup CountryLookup) func(http.Handler) http.Handler {
	fallback := i18n.MatchLocale(defaultLocale)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := detectLocale(r, fallback, lookup)
			ctx := context.WithValue(r.Context(), LocaleKey, locale)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func detectLocale(r *http.Request, fallback string, lookup CountryLookup) string {
	if v := strings.TrimSpace(r.Header.Get("X-Locale")); v != "" {
		return i18n.MatchLocale(v)
	}
	if v := firstAcceptLanguage(r.Header.Get("Accept-Language")); v != "" {
		return i18n.MatchLocale(v)
	}
	if lookup != nil {
		if ip := ClientIP(r); ip != "" {
			if country, err := lookup(ip); err == nil && strings.EqualFold(country, "ID") {
				return "id"
			}
		}
	}
	return fallback
}

func firstAcceptLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		if locale := strings.TrimSpace(strings.Split(part, ";")[0]); locale != "" {
			return locale
		}
	}
	return ""
}

// ClientIP returns the best-effort client IP address for the request.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// LocaleFromContext returns the catalog locale resolved for the request.
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(LocaleKey).(string); ok {
		return v
	}
	return "en"
}
