package hostrouter

import (
	"strings"

	"github.com/dmitrymomot/routekit/internal"
)

// Domain returns the normalized domain of the request.
// Strips port, handles IPv6, and converts to lowercase.
//
// Examples:
//
//	"example.com:8080" -> "example.com"
//	"[::1]:8080" -> "[::1]"
//	"Example.COM" -> "example.com"
func Domain(req *internal.Request) string {
	return normalizeHost(req.Host)
}

// Subdomain extracts the subdomain of the request host given a base domain.
// Returns empty string if host doesn't match the base domain or has no subdomain.
//
// Examples:
//
//	Subdomain(req, "example.com") // Host = "foo.example.com" -> "foo"
//	Subdomain(req, "example.com") // Host = "bar.foo.example.com" -> "bar.foo"
//	Subdomain(req, "example.com") // Host = "example.com" -> ""
func Subdomain(req *internal.Request, baseDomain string) string {
	host := normalizeHost(req.Host)
	base := strings.ToLower(baseDomain)
	if base == "" || host == base {
		return ""
	}

	sub, ok := strings.CutSuffix(host, "."+base)
	if !ok {
		return ""
	}
	return sub
}
