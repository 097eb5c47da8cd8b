package internal

import (
	"net/http"
	"strings"
)

// ExtractorSource extracts a value from a request.
// Returns the value and true if found, or ("", false) if not present.
type ExtractorSource = func(*Request) (string, bool)

// Extractor tries multiple sources in order and returns the first match.
type Extractor struct {
	sources []ExtractorSource
}

// NewExtractor creates an Extractor that tries the given sources in order.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return Extractor{sources: sources}
}

// Extract iterates sources in order and returns the first non-empty value.
// Returns ("", false) if all sources miss.
func (e Extractor) Extract(r *Request) (string, bool) {
	for _, src := range e.sources {
		if v, ok := src(r); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// Empty reports whether the extractor has no sources.
func (e Extractor) Empty() bool {
	return len(e.sources) == 0
}

// FromHeader returns a source that reads from a request header.
func FromHeader(name string) ExtractorSource {
	return func(r *Request) (string, bool) {
		v := strings.TrimSpace(r.Header.Get(name))
		return v, v != ""
	}
}

// FromQuery returns a source that reads from a query parameter.
func FromQuery(name string) ExtractorSource {
	return func(r *Request) (string, bool) {
		if r.RawQuery == "" {
			return "", false
		}
		v := r.Query().Get(name)
		return v, v != ""
	}
}

// FromCookie returns a source that reads from a plain cookie.
func FromCookie(name string) ExtractorSource {
	return func(r *Request) (string, bool) {
		lines := r.Header.Values("Cookie")
		if len(lines) == 0 {
			return "", false
		}
		cookies, err := http.ParseCookie(strings.Join(lines, "; "))
		if err != nil {
			return "", false
		}
		for _, c := range cookies {
			if c.Name == name && c.Value != "" {
				return c.Value, true
			}
		}
		return "", false
	}
}

// FromAuthScheme returns a source that reads the credential of the given
// scheme from header, e.g. FromAuthScheme("Authorization", "Bearer").
// The scheme comparison is case-insensitive.
func FromAuthScheme(header, scheme string) ExtractorSource {
	return func(r *Request) (string, bool) {
		v := strings.TrimSpace(r.Header.Get(header))
		got, token, ok := strings.Cut(v, " ")
		if !ok || !strings.EqualFold(got, scheme) {
			return "", false
		}
		token = strings.TrimSpace(token)
		return token, token != ""
	}
}

// FromBearerToken returns a source that reads a Bearer token from the Authorization header.
func FromBearerToken() ExtractorSource {
	return FromAuthScheme("Authorization", "Bearer")
}
