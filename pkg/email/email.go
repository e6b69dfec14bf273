// Package email holds the email-address syntax check shared by the service
// and transport layers.
package email

import (
	"regexp"
	"strings"
)

// addressPattern is a deliberately simple local@domain.tld check. Full RFC 5322
// parsing buys nothing here: the address is a lookup key, not a delivery target.
var addressPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9\-]+(\.[a-zA-Z0-9\-]+)*\.[a-zA-Z]{2,}$`)

// Valid reports whether s looks like an email address after trimming
// surrounding whitespace.
func Valid(s string) bool {
	return addressPattern.MatchString(strings.TrimSpace(s))
}

// Normalize canonicalizes an address for use as a lookup key: trimmed and
// lowercased. Store keys and queries must go through this so lookups stay
// case-insensitive.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
