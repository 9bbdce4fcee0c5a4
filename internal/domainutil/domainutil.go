package domainutil

import (
	"fmt"
	"net"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"
)

var subdomainRe = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// Normalize canonicalizes a host for storage and comparison:
// lowercase, trimmed, trailing dot and port removed, "www." prefix
// stripped, IPs and invalid characters rejected.
func Normalize(host string) (string, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", fmt.Errorf("domain must not be empty")
	}

	host = strings.ToLower(host)
	host = strings.TrimSuffix(host, ".")

	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	} else if i := strings.LastIndex(host, ":"); i > 0 && !strings.Contains(host, "]") {
		// host:port without a valid port still carries a colon
		host = host[:i]
	}

	host = strings.TrimPrefix(host, "www.")

	if host == "" {
		return "", fmt.Errorf("domain must not be empty after normalization")
	}
	if net.ParseIP(host) != nil {
		return "", fmt.Errorf("IP address is not allowed as domain: %s", host)
	}

	for _, r := range host {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' || r == '-') {
			return "", fmt.Errorf("domain contains invalid character: %c in %s", r, host)
		}
	}
	if strings.HasPrefix(host, ".") || strings.HasPrefix(host, "-") {
		return "", fmt.Errorf("domain must not start with '.' or '-': %s", host)
	}
	if !strings.Contains(host, ".") {
		return "", fmt.Errorf("domain must contain at least one dot: %s", host)
	}

	return host, nil
}

// ValidateCustomDomain checks that domain is acceptable as a tenant's
// custom domain: it must normalize cleanly, must be a registrable domain
// (or a subdomain of one) per the public suffix list, and must not sit
// under the platform's own base domain.
func ValidateCustomDomain(domain, baseDomain string) (string, error) {
	host, err := Normalize(domain)
	if err != nil {
		return "", err
	}

	if host == baseDomain || strings.HasSuffix(host, "."+baseDomain) {
		return "", fmt.Errorf("domain %s is reserved by the platform", host)
	}

	// A bare public suffix (e.g. "co.uk") is not a usable domain
	suffix, _ := publicsuffix.PublicSuffix(host)
	if suffix == host {
		return "", fmt.Errorf("domain %s is a public suffix, not a registrable domain", host)
	}
	if _, err := publicsuffix.EffectiveTLDPlusOne(host); err != nil {
		return "", fmt.Errorf("domain %s has no registrable parent: %w", host, err)
	}

	return host, nil
}

// ValidateSubdomainLabel checks a single subdomain label (no dots).
// Labels are lowercased before validation.
func ValidateSubdomainLabel(label string) (string, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return "", fmt.Errorf("subdomain must not be empty")
	}
	if len(label) > 63 {
		return "", fmt.Errorf("subdomain must be at most 63 characters")
	}
	if !subdomainRe.MatchString(label) {
		return "", fmt.Errorf("subdomain may only contain letters, numbers, and hyphens")
	}
	if label == "www" {
		return "", fmt.Errorf("subdomain %q is reserved", label)
	}
	return label, nil
}

var slugInvalidRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a display name into a URL-safe slug
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugInvalidRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		s = "store"
	}
	return s
}
