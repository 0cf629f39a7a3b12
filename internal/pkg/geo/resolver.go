// Package geo derives a caller's country from edge-proxy headers.
//
// The headers are untrusted in general, but the edge strips any
// client-supplied copies before forwarding, so the first well-formed one
// wins. Results are computed per request and never cached.
package geo

import (
	"net/http"
	"strings"
)

const (
	// HeaderAppEngineCountry is injected by the platform's own load balancer.
	HeaderAppEngineCountry = "X-Appengine-Country"
	// HeaderCloudFrontViewerCountry is injected by the alternate CDN.
	HeaderCloudFrontViewerCountry = "CloudFront-Viewer-Country"

	UnknownCountry = "Unknown"
	UnknownISO     = "ZZ"
)

// headerPriority lists country headers from most to least trusted.
var headerPriority = []string{
	HeaderAppEngineCountry,
	HeaderCloudFrontViewerCountry,
}

// Result is the best-effort origin of a request.
type Result struct {
	Country    string `json:"country"`
	CountryISO string `json:"country_iso"`
}

// Unknown is returned when no header carries a usable country code.
func Unknown() Result {
	return Result{Country: UnknownCountry, CountryISO: UnknownISO}
}

// Resolve returns the country of the first header in priority order that
// carries a well-formed ISO 3166-1 alpha-2 code.
func Resolve(h http.Header) Result {
	for _, name := range headerPriority {
		code, ok := normalize(h.Get(name))
		if !ok {
			continue
		}
		return Result{Country: CountryName(code), CountryISO: code}
	}
	return Unknown()
}

// CountryName maps an ISO code to its display name. Unrecognized codes are
// returned as-is.
func CountryName(iso string) string {
	if name, ok := countryNames[iso]; ok {
		return name
	}
	return iso
}

func normalize(v string) (string, bool) {
	v = strings.ToUpper(strings.TrimSpace(v))
	if len(v) != 2 || v == UnknownISO {
		return "", false
	}
	for i := 0; i < len(v); i++ {
		if v[i] < 'A' || v[i] > 'Z' {
			return "", false
		}
	}
	return v, true
}
