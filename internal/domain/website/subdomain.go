package website

import (
	"regexp"
	"strings"
)

/*
	Subdomain helpers
	-----------------
	- deriving a subdomain from a website name
	- validating a subdomain as a DNS label
	- building public URLs
	Availability is a store question and lives in the template service.
*/

var (
	nonSubdomain = regexp.MustCompile(`[^a-z0-9]`)
	multiDash    = regexp.MustCompile(`-+`)
	dnsLabel     = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)
)

// MakeSubdomain derives a subdomain from a website name.
// Example: "My Crypto Project!" -> "my-crypto-project"
func MakeSubdomain(name string) string {
	base := strings.ToLower(strings.TrimSpace(name))
	base = nonSubdomain.ReplaceAllString(base, "-")
	base = multiDash.ReplaceAllString(base, "-")
	return strings.Trim(base, "-")
}

// ValidSubdomain reports whether s can be used as a single DNS label.
func ValidSubdomain(s string) bool {
	return dnsLabel.MatchString(s)
}

// BuildPublicURL builds the public site URL.
// Example: ("demo", "reham.org") -> "https://demo.reham.org"
func BuildPublicURL(subdomain, host string) string {
	return "https://" + subdomain + "." + host
}
